package registry

import (
	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/metadata"
	"github.com/toyz/rtgen/internal/models"
	"github.com/toyz/rtgen/internal/utils"
)

// IReferenceBlueprint is the blueprint the base instantiations are seeded from
const IReferenceBlueprint = "Windows.Foundation.IReference`1"

var baseReferencePrimitives = []metadata.Primitive{
	metadata.PrimUInt8,
	metadata.PrimInt16,
	metadata.PrimUInt16,
	metadata.PrimInt32,
	metadata.PrimUInt32,
	metadata.PrimInt64,
	metadata.PrimUInt64,
	metadata.PrimSingle,
	metadata.PrimDouble,
	metadata.PrimChar16,
	metadata.PrimBoolean,
	metadata.PrimString,
	metadata.PrimGuid,
}

var baseReferenceStructs = []string{
	"Windows.Foundation.DateTime",
	"Windows.Foundation.TimeSpan",
	"Windows.Foundation.Point",
	"Windows.Foundation.Size",
	"Windows.Foundation.Rect",
}

// InstanceRegistry discovers and deduplicates closed generic instantiations
type InstanceRegistry struct {
	catalog   *TypeRegistry
	instances *utils.BaseRegistry[string, *models.GenericInstance]
	collected bool
}

// NewInstanceRegistry creates an empty instance registry over catalog
func NewInstanceRegistry(catalog *TypeRegistry) *InstanceRegistry {
	return &InstanceRegistry{
		catalog:   catalog,
		instances: utils.NewBaseRegistry[string, *models.GenericInstance]("instance", "instance key", "generic instance"),
	}
}

// AddBaseIReferenceInstances seeds IReference<T> for the fixed set of value types
// every projection needs. Struct arguments are only seeded when registered.
func (r *InstanceRegistry) AddBaseIReferenceInstances() error {
	if _, err := r.catalog.Lookup(IReferenceBlueprint); err != nil {
		return nil
	}
	for _, p := range baseReferencePrimitives {
		if _, err := r.Add(metadata.NamedRef(IReferenceBlueprint, metadata.PrimitiveRef(p))); err != nil {
			return err
		}
	}
	for _, name := range baseReferenceStructs {
		if _, err := r.catalog.Lookup(name); err != nil {
			continue
		}
		if _, err := r.Add(metadata.NamedRef(IReferenceBlueprint, metadata.NamedRef(name))); err != nil {
			return err
		}
	}
	return nil
}

// Add records a closed generic instantiation once. It reports whether ref was new.
// Open instantiations and instantiations of skipped blueprints are ignored.
func (r *InstanceRegistry) Add(ref *metadata.TypeRef) (bool, error) {
	if r.catalog.guard.Is(models.PhaseEmit) {
		panic(errors.NewPhaseError("add generic instance "+ref.String(), "Construct or Collect", models.PhaseEmit.String()))
	}
	if !ref.IsGenericInstance() || !ref.IsClosed() || r.catalog.IsSkipped(ref.Name) {
		return false, nil
	}

	key := ref.String()
	if r.instances.Has(key) {
		return false, nil
	}

	blueprint, err := r.catalog.LookupRef(ref)
	if err != nil {
		return false, err
	}
	inst := models.NewGenericInstance(ref, blueprint, r.catalog.guard)
	if err := r.instances.Register(key, inst); err != nil {
		return false, err
	}
	return true, nil
}

// Scan walks every method signature, struct field, default and required interface
// of the catalog and records each closed instantiation, nested ones included
func (r *InstanceRegistry) Scan() error {
	for _, t := range r.catalog.Types() {
		var refs []*metadata.TypeRef
		for _, m := range t.Def.Methods {
			for _, p := range m.Params {
				refs = append(refs, p.Type)
			}
			refs = append(refs, m.Return)
		}
		for _, f := range t.Def.Fields {
			refs = append(refs, f.Type)
		}
		refs = append(refs, t.Def.DefaultInterface)
		refs = append(refs, t.Def.Requires...)

		for _, ref := range refs {
			if err := r.scanRef(ref); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *InstanceRegistry) scanRef(ref *metadata.TypeRef) error {
	if ref == nil {
		return nil
	}
	switch ref.Shape {
	case metadata.ShapeArray, metadata.ShapeByRef:
		return r.scanRef(ref.Elem)
	case metadata.ShapeNamed:
		if _, err := r.Add(ref); err != nil {
			return err
		}
		for _, arg := range ref.Args {
			if err := r.scanRef(arg); err != nil {
				return err
			}
		}
	}
	return nil
}

// Collect computes each instance's dependency set (the blueprint plus every type named
// by the closing arguments) and returns the instances ordered by key.
// Must run in PhaseCollect; later calls return the frozen result.
func (r *InstanceRegistry) Collect() ([]*models.GenericInstance, error) {
	if r.collected {
		return r.instances.Values(), nil
	}
	r.catalog.guard.Require("collect generic instances", models.PhaseCollect)

	for _, inst := range r.instances.Values() {
		inst.AddDependency(inst.Blueprint)
		for _, arg := range inst.Args() {
			if err := r.catalog.visitRef(arg, inst.AddDependency); err != nil {
				return nil, referencedFrom(err, inst.Key())
			}
		}
	}
	r.collected = true
	return r.instances.Values(), nil
}

// Size returns the number of distinct instantiations
func (r *InstanceRegistry) Size() int {
	return r.instances.Size()
}
