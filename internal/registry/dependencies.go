package registry

import (
	stderrors "errors"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/metadata"
	"github.com/toyz/rtgen/internal/models"
)

// CollectDependencies enters PhaseCollect and records, for every method of every
// registered type, each registered type its signature references. Struct fields,
// default and required interfaces are recorded as structural dependencies.
// It can run only once; a second call panics.
func (r *TypeRegistry) CollectDependencies() error {
	r.guard.Advance(models.PhaseCollect)

	for _, t := range r.types.Values() {
		if err := r.collectType(t); err != nil {
			return err
		}
	}
	return nil
}

func (r *TypeRegistry) collectType(t *models.TypeDef) error {
	for _, m := range t.Methods {
		add := m.AddDependency
		for _, p := range m.Def.Params {
			if err := r.visitRef(p.Type, add); err != nil {
				return referencedFrom(err, t.FullName()+"."+m.Def.Name)
			}
		}
		if err := r.visitRef(m.Def.Return, add); err != nil {
			return referencedFrom(err, t.FullName()+"."+m.Def.Name)
		}
	}

	for _, f := range t.Def.Fields {
		if f.Type == nil {
			continue
		}
		if err := r.visitRef(f.Type, t.AddStructuralDependency); err != nil {
			return referencedFrom(err, t.FullName()+"."+f.Name)
		}
	}
	if t.Def.DefaultInterface != nil {
		if err := r.visitRef(t.Def.DefaultInterface, t.AddStructuralDependency); err != nil {
			return referencedFrom(err, t.FullName())
		}
	}
	for _, req := range t.Def.Requires {
		if err := r.visitRef(req, t.AddStructuralDependency); err != nil {
			return referencedFrom(err, t.FullName())
		}
	}
	return nil
}

// visitRef calls add for every registered type named anywhere inside ref:
// array and by-ref elements, generic blueprints and their arguments
func (r *TypeRegistry) visitRef(ref *metadata.TypeRef, add func(*models.TypeDef)) error {
	if ref == nil {
		return nil
	}
	switch ref.Shape {
	case metadata.ShapeArray, metadata.ShapeByRef:
		return r.visitRef(ref.Elem, add)
	case metadata.ShapeNamed:
		if r.IsSkipped(ref.Name) {
			return nil
		}
		t, err := r.LookupRef(ref)
		if err != nil {
			return err
		}
		add(t)
		for _, arg := range ref.Args {
			if err := r.visitRef(arg, add); err != nil {
				return err
			}
		}
	}
	return nil
}

func referencedFrom(err error, from string) error {
	var lookupErr *errors.LookupError
	if stderrors.As(err, &lookupErr) {
		lookupErr.WithContext("referenced_by", from)
	}
	return err
}
