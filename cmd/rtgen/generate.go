package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/toyz/rtgen/internal/cli"
	"github.com/toyz/rtgen/internal/utils"
)

func newGenerateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [metadata-paths...]",
		Short: "Generate the Rust binding file",
		Example: "  rtgen generate ./metadata/...\n" +
			"  rtgen generate -c rtgen.yaml -o src/rt/gen.rs\n" +
			"  rtgen generate --dry-run --root Windows.Storage ./metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", cli.DefaultOutput, "Output file")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Write the generated text to stdout instead of the output file")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *options, args []string) error {
	cfg, err := resolveConfig(cmd, opts, args)
	if err != nil {
		return report(cmd, opts.verbose, err)
	}

	// Dry runs own stdout, so progress goes to stderr.
	out := cmd.OutOrStdout()
	if opts.dryRun {
		out = cmd.ErrOrStderr()
	}
	diagnostics := newDiagnostics(cfg, out)
	diagnostics.Section("rtgen")
	diagnostics.Info("Reading metadata from %s", strings.Join(cfg.Metadata, ", "))

	if cfg.Verbose {
		diagnostics.Subsection("Configuration")
		diagnostics.Indent()
		diagnostics.List("Roots: %s", strings.Join(cfg.Roots, ", "))
		diagnostics.List("Base assembly: %s", cfg.BaseAssembly)
		diagnostics.List("Collections namespace: %s", cfg.CollectionsNamespace)
		diagnostics.List("Output: %s", cfg.Output)
		diagnostics.Unindent()
	}

	generator := cli.NewGenerator(diagnostics)
	generator.SetStdout(cmd.OutOrStdout())
	if err := generator.Run(cfg, opts.dryRun); err != nil {
		diagnostics.Error("Generation failed")
		return report(cmd, cfg.Verbose, err)
	}

	summary := generator.GetSummary()
	diagnostics.Summary("Generation Complete!", []utils.Stat{
		{Name: "Snapshots loaded", Value: summary.SnapshotsLoaded},
		{Name: "Assemblies loaded", Value: summary.AssembliesLoaded},
		{Name: "Types cataloged", Value: summary.TypesCataloged},
		{Name: "Types skipped", Value: summary.TypesSkipped},
		{Name: "Types emitted", Value: summary.TypesEmitted},
		{Name: "Instances emitted", Value: summary.InstancesEmitted},
		{Name: "Output", Value: summary.OutputFile},
		{Name: "Bytes written", Value: summary.BytesWritten},
	})
	return nil
}
