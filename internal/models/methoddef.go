package models

import (
	"github.com/toyz/rtgen/internal/metadata"
)

// InputKind tells the translator how a wrapper input is passed
type InputKind int

const (
	// InputDefault is an ordinary by-value input
	InputDefault InputKind = iota
	// InputSlice is a read-only contiguous sequence
	InputSlice
	// InputVecBuffer is a growable buffer filled by the callee (GetMany)
	InputVecBuffer
	// InputRaw is a raw, non-owning pointer
	InputRaw
)

// String returns the kind name
func (k InputKind) String() string {
	switch k {
	case InputDefault:
		return "Default"
	case InputSlice:
		return "Slice"
	case InputVecBuffer:
		return "VecBuffer"
	case InputRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// Input is one wrapper input parameter
type Input struct {
	Name string
	Type *metadata.TypeRef
	Kind InputKind
}

// Output is one wrapper output value
type Output struct {
	Name string
	Type *metadata.TypeRef
}

// MethodDetails is the translated form of one method
type MethodDetails struct {
	WrappedName string
	RawName     string
	Inputs      []Input
	OutTypes    []*metadata.TypeRef
	WrapperBody string
	IsGetMany   bool
}

// MethodDef wraps one metadata method. It is owned by exactly one TypeDef.
type MethodDef struct {
	Def           *metadata.Method
	DeclaringType *TypeDef

	deps    *DependencySet
	details Memo[*MethodDetails]
}

func newMethodDef(owner *TypeDef, def *metadata.Method) *MethodDef {
	return &MethodDef{
		Def:           def,
		DeclaringType: owner,
		deps:          NewDependencySet(owner.guard),
	}
}

// RawName returns the vtable slot name; an overload attribute takes priority over the metadata name
func (m *MethodDef) RawName() string {
	if a, ok := m.Def.Attributes.Find("overload"); ok && a.Arg(0) != "" {
		return a.Arg(0)
	}
	return m.Def.Name
}

// AddDependency records dep for this method and its declaring type.
// Panics outside PhaseCollect.
func (m *MethodDef) AddDependency(dep *TypeDef) {
	if dep == m.DeclaringType {
		m.deps.guard.Require("add dependency "+dep.FullName(), PhaseCollect)
		return
	}
	m.deps.Add(dep)
	m.DeclaringType.deps.Add(dep)
}

// Dependencies returns the method's dependencies ordered by full name
func (m *MethodDef) Dependencies() []*TypeDef {
	return m.deps.Sorted()
}

// Details returns the memoized translation, computing it on first use.
// Translation reads frozen dependency sets, so it is only allowed in PhaseEmit.
func (m *MethodDef) Details(compute func(*MethodDef) (*MethodDetails, error)) (*MethodDetails, error) {
	m.deps.guard.Require("compute details of "+m.DeclaringType.FullName()+"."+m.Def.Name, PhaseEmit)
	return m.details.Get(func() (*MethodDetails, error) {
		return compute(m)
	})
}

// FeatureConditions returns the foreign assemblies this method's dependencies cross
func (m *MethodDef) FeatureConditions(baseAssembly string) FeatureConditions {
	return NewFeatureConditions(m.DeclaringType.Assembly(), baseAssembly, m.Dependencies())
}

// String returns the metadata method name
func (m *MethodDef) String() string {
	return m.Def.Name
}
