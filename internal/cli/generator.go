package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/generator"
	"github.com/toyz/rtgen/internal/metadata"
	"github.com/toyz/rtgen/internal/registry"
	"github.com/toyz/rtgen/internal/utils"
)

// Generator coordinates the CLI generation process
type Generator struct {
	scanner     *SnapshotScanner
	diagnostics *utils.DiagnosticSystem
	stdout      io.Writer
	summary     GenerationSummary
}

// NewGenerator creates a new CLI generator. A nil diagnostics system discards all output.
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}
	return &Generator{
		scanner:     NewSnapshotScanner(),
		diagnostics: diagnostics,
		stdout:      os.Stdout,
	}
}

// SetStdout sets where dry runs write the generated text
func (g *Generator) SetStdout(w io.Writer) {
	g.stdout = w
}

// GetSummary returns the generation summary
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// pipelineState carries the objects built by the catalog and collect steps
type pipelineState struct {
	catalog   *registry.TypeRegistry
	instances *registry.InstanceRegistry
}

// Check loads, catalogs and collects the configured snapshots without emitting anything
func (g *Generator) Check(config Config) error {
	g.summary = GenerationSummary{}
	if err := config.Validate(); err != nil {
		return err
	}
	_, err := g.prepare(config)
	return err
}

// Run executes the complete generation process. With dryRun the output is written to
// stdout instead of config.Output.
func (g *Generator) Run(config Config, dryRun bool) error {
	startTime := time.Now()
	g.summary = GenerationSummary{}

	if err := config.Validate(); err != nil {
		return err
	}
	g.diagnostics.Verbose("Starting code generation at %s", startTime.Format("15:04:05"))

	state, err := g.prepare(config)
	if err != nil {
		return err
	}

	g.diagnostics.PhaseHeader("Emit")
	translator := generator.NewTranslator(state.catalog, generator.Options{
		BaseAssembly:         config.BaseAssembly,
		CollectionsNamespace: config.CollectionsNamespace,
	})
	emitter := generator.NewEmitter(state.catalog, state.instances, translator, config.Roots, g.diagnostics)

	types, err := emitter.EmitTypes()
	if err != nil {
		return err
	}
	g.summary.TypesEmitted = len(types.Order)
	if len(types.Order) == 0 {
		g.diagnostics.Warn("No types matched roots %s", strings.Join(config.Roots, ", "))
	}
	g.diagnostics.PhaseItem("%d types emitted from roots %s", len(types.Order), strings.Join(config.Roots, ", "))

	instances, err := emitter.EmitParametricInstances(types)
	if err != nil {
		return err
	}
	g.summary.InstancesConsidered = instances.Considered
	g.summary.InstancesEmitted = len(instances.Emitted)
	g.diagnostics.PhaseItem("%d of %d parametric instances emitted", len(instances.Emitted), instances.Considered)

	text := generator.RenderModuleTree(state.catalog.Modules())
	g.summary.BytesWritten = len(text)

	if dryRun {
		g.summary.OutputFile = "-"
		if _, err := io.WriteString(g.stdout, text); err != nil {
			return errors.WrapFileSystemError("write", "stdout", err)
		}
	} else {
		if err := writeOutput(config.Output, text); err != nil {
			return err
		}
		g.summary.OutputFile = config.Output
		g.diagnostics.PhaseItem("wrote %s", config.Output)
	}

	g.diagnostics.Verbose("Generation finished in %s", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// prepare runs the Construct and Collect phases and leaves the catalog frozen
func (g *Generator) prepare(config Config) (*pipelineState, error) {
	g.diagnostics.PhaseHeader("Load")
	files, err := g.scanner.ScanSnapshots(config.Metadata)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		cfgErr := errors.NewConfigError("metadata", "no snapshot files found")
		cfgErr.WithContext("paths", config.Metadata).
			WithSuggestion("Snapshot files must use the .rtmd extension")
		return nil, cfgErr
	}
	for _, f := range files {
		g.diagnostics.Debug("loading %s", f)
	}

	snapshot, err := metadata.LoadFiles(files...)
	if err != nil {
		return nil, err
	}
	g.summary.SnapshotsLoaded = len(files)
	g.summary.AssembliesLoaded = len(snapshot.Assemblies())
	g.diagnostics.PhaseItem("%d snapshot files, %d assemblies", len(files), len(snapshot.Assemblies()))

	g.diagnostics.PhaseHeader("Catalog")
	catalog, err := registry.BuildCatalog(snapshot)
	if err != nil {
		return nil, err
	}
	g.summary.TypesCataloged = catalog.Size()
	g.summary.TypesSkipped = catalog.SkippedCount()
	g.diagnostics.PhaseItem("%d types cataloged, %d skipped", catalog.Size(), catalog.SkippedCount())

	instances := registry.NewInstanceRegistry(catalog)
	if err := instances.AddBaseIReferenceInstances(); err != nil {
		return nil, err
	}

	g.diagnostics.PhaseHeader("Collect")
	if err := catalog.CollectDependencies(); err != nil {
		return nil, err
	}
	if err := instances.Scan(); err != nil {
		return nil, err
	}
	collected, err := instances.Collect()
	if err != nil {
		return nil, err
	}
	g.diagnostics.PhaseItem("%d parametric instances discovered", len(collected))
	catalog.Freeze()

	return &pipelineState{catalog: catalog, instances: instances}, nil
}

func writeOutput(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapFileSystemError("create directory for", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return errors.WrapFileSystemError("write", path, err)
	}
	return nil
}
