package generator

import (
	"github.com/toyz/rtgen/internal/models"
	"github.com/toyz/rtgen/internal/registry"
	"github.com/toyz/rtgen/internal/utils"
)

// DefaultRoots are the emission roots used when none are configured
var DefaultRoots = []string{"Windows.Foundation", "Windows.Devices"}

// Emitter selects the types reachable from the root assemblies and writes their
// definitions into the catalog's module tree
type Emitter struct {
	catalog    *registry.TypeRegistry
	instances  *registry.InstanceRegistry
	translator *Translator
	roots      []string
	diag       *utils.DiagnosticSystem
}

// TypeEmission is the result of pass 1
type TypeEmission struct {
	Order   []*models.TypeDef // emission order
	Emitted map[string]bool   // full names of emitted types
}

// InstanceEmission is the result of pass 2
type InstanceEmission struct {
	Considered int
	Emitted    []*models.GenericInstance
}

// NewEmitter creates an emitter. A nil diag discards diagnostics.
func NewEmitter(catalog *registry.TypeRegistry, instances *registry.InstanceRegistry, translator *Translator, roots []string, diag *utils.DiagnosticSystem) *Emitter {
	if len(roots) == 0 {
		roots = DefaultRoots
	}
	if diag == nil {
		diag = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}
	return &Emitter{
		catalog:    catalog,
		instances:  instances,
		translator: translator,
		roots:      roots,
		diag:       diag,
	}
}

// EmitTypes runs pass 1: a worklist seeded with the root assemblies' types. Each popped
// type is marked done, its undone dependencies are queued, then its text is emitted.
// Seeds and dependencies are queued in full-name order so output is deterministic.
func (e *Emitter) EmitTypes() (*TypeEmission, error) {
	e.catalog.Guard().Require("emit types", models.PhaseEmit)

	result := &TypeEmission{Emitted: make(map[string]bool)}
	queued := make(map[string]bool)

	var worklist []*models.TypeDef
	for _, t := range e.catalog.TypesInAssemblies(e.roots) {
		worklist = append(worklist, t)
		queued[t.FullName()] = true
	}

	for len(worklist) > 0 {
		t := worklist[0]
		worklist = worklist[1:]

		result.Emitted[t.FullName()] = true
		result.Order = append(result.Order, t)

		for _, dep := range t.Dependencies() {
			if !result.Emitted[dep.FullName()] && !queued[dep.FullName()] {
				queued[dep.FullName()] = true
				worklist = append(worklist, dep)
			}
		}

		if err := e.emitType(t); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (e *Emitter) emitType(t *models.TypeDef) error {
	text, err := e.translator.Definition(t)
	if err != nil {
		return err
	}
	e.catalog.Module(t.Namespace()).Append(text)
	e.diag.Debug("emitted %s %s", t.Kind(), t.FullName())
	return nil
}

// EmitParametricInstances runs pass 2: each instance is emitted into its blueprint's
// module only when every dependency was emitted in pass 1. Instances with missing
// dependencies are dropped.
func (e *Emitter) EmitParametricInstances(types *TypeEmission) (*InstanceEmission, error) {
	e.catalog.Guard().Require("emit parametric instances", models.PhaseEmit)

	all, err := e.instances.Collect()
	if err != nil {
		return nil, err
	}

	result := &InstanceEmission{Considered: len(all)}
	for _, inst := range all {
		if !inst.Satisfied(types.Emitted) {
			e.diag.Debug("skipped instance %s: dependencies not emitted", inst.Key())
			continue
		}
		text, err := e.translator.InstanceDefinition(inst)
		if err != nil {
			return nil, err
		}
		inst.SetText(text)
		e.catalog.Module(inst.Blueprint.Namespace()).Append(text)
		result.Emitted = append(result.Emitted, inst)
	}
	return result, nil
}
