package models

import (
	"strings"

	"github.com/toyz/rtgen/internal/metadata"
)

// TypeDef wraps one metadata type definition in the catalog
type TypeDef struct {
	Def     *metadata.TypeDefinition
	Methods []*MethodDef

	guard      *PhaseGuard
	deps       *DependencySet
	structural *DependencySet
}

// NewTypeDef wraps def and one MethodDef per metadata method
func NewTypeDef(def *metadata.TypeDefinition, guard *PhaseGuard) *TypeDef {
	t := &TypeDef{
		Def:        def,
		guard:      guard,
		deps:       NewDependencySet(guard),
		structural: NewDependencySet(guard),
	}
	for _, m := range def.Methods {
		t.Methods = append(t.Methods, newMethodDef(t, m))
	}
	return t
}

// Name returns the simple name, including the generic arity suffix
func (t *TypeDef) Name() string { return t.Def.Name }

// FullName returns Namespace.Name
func (t *TypeDef) FullName() string { return t.Def.FullName() }

// Namespace returns the declaring namespace
func (t *TypeDef) Namespace() string { return t.Def.Namespace }

// Assembly returns the owning assembly name
func (t *TypeDef) Assembly() string { return t.Def.Assembly }

// Kind returns the metadata kind
func (t *TypeDef) Kind() metadata.Kind { return t.Def.Kind }

// IsGeneric reports whether the type is a generic blueprint
func (t *TypeDef) IsGeneric() bool { return t.Def.IsGeneric() }

// RustName returns the simple name without the generic arity suffix
func (t *TypeDef) RustName() string {
	if i := strings.IndexByte(t.Def.Name, '`'); i >= 0 {
		return t.Def.Name[:i]
	}
	return t.Def.Name
}

// IsReferenceType reports whether values of the type are passed as interface pointers
func (t *TypeDef) IsReferenceType() bool {
	switch t.Def.Kind {
	case metadata.KindInterface, metadata.KindClass, metadata.KindDelegate:
		return true
	}
	return false
}

// CanBeSkipped reports whether the type is irrelevant to generation
func (t *TypeDef) CanBeSkipped() bool {
	return t.Def.Kind == metadata.KindAttribute || t.Def.Attributes.Has("marker")
}

// Dependencies returns the type-level dependencies ordered by full name
func (t *TypeDef) Dependencies() []*TypeDef {
	return t.deps.Sorted()
}

// DependsOn reports whether fullName is a type-level dependency
func (t *TypeDef) DependsOn(fullName string) bool {
	return t.deps.Has(fullName)
}

// StructuralDependencies returns the dependencies contributed by struct fields,
// default and required interfaces
func (t *TypeDef) StructuralDependencies() []*TypeDef {
	return t.structural.Sorted()
}

// AddStructuralDependency records a dependency that does not come from a method.
// Panics outside PhaseCollect.
func (t *TypeDef) AddStructuralDependency(dep *TypeDef) {
	if dep == t {
		t.guard.Require("add dependency "+dep.FullName(), PhaseCollect)
		return
	}
	t.structural.Add(dep)
	t.deps.Add(dep)
}

// String returns the full name
func (t *TypeDef) String() string {
	return t.FullName()
}
