package models

import (
	"github.com/toyz/rtgen/internal/metadata"
)

// GenericInstance is one closed instantiation of a generic blueprint
type GenericInstance struct {
	Ref       *metadata.TypeRef
	Blueprint *TypeDef

	deps *DependencySet
	text string
}

// NewGenericInstance creates an instance of blueprint closed over ref's arguments
func NewGenericInstance(ref *metadata.TypeRef, blueprint *TypeDef, guard *PhaseGuard) *GenericInstance {
	return &GenericInstance{
		Ref:       ref,
		Blueprint: blueprint,
		deps:      NewDependencySet(guard),
	}
}

// Key returns the canonical identity of the instantiation
func (g *GenericInstance) Key() string {
	return g.Ref.String()
}

// Args returns the closing type arguments in order
func (g *GenericInstance) Args() []*metadata.TypeRef {
	return g.Ref.Args
}

// AddDependency records a type the instance needs. Panics outside PhaseCollect.
func (g *GenericInstance) AddDependency(dep *TypeDef) {
	g.deps.Add(dep)
}

// Dependencies returns the instance's dependencies ordered by full name
func (g *GenericInstance) Dependencies() []*TypeDef {
	return g.deps.Sorted()
}

// Satisfied reports whether every dependency is in the emitted set
func (g *GenericInstance) Satisfied(emitted map[string]bool) bool {
	return g.deps.SubsetOf(emitted)
}

// FeatureConditions returns the foreign assemblies the instance crosses
func (g *GenericInstance) FeatureConditions(baseAssembly string) FeatureConditions {
	return NewFeatureConditions(g.Blueprint.Assembly(), baseAssembly, g.Dependencies())
}

// SetText stores the generated definition
func (g *GenericInstance) SetText(text string) {
	g.text = text
}

// Text returns the generated definition
func (g *GenericInstance) Text() string {
	return g.text
}
