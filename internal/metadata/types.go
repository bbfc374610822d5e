// Package metadata models the read-only WinRT type graph the generator consumes.
//
// The generator only depends on the Provider interface; Snapshot is the adapter
// used by the CLI, built from one or more .rtmd text files.
package metadata

import (
	"strings"

	"github.com/google/uuid"

	"github.com/toyz/rtgen/internal/errors"
)

// Kind is the category of a type definition
type Kind int

const (
	KindInterface Kind = iota
	KindClass
	KindEnum
	KindStruct
	KindDelegate
	KindAttribute
)

// String returns the snapshot keyword for the kind
func (k Kind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindClass:
		return "class"
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindDelegate:
		return "delegate"
	case KindAttribute:
		return "attribute"
	default:
		return "unknown"
	}
}

// Primitive identifies a built-in WinRT type
type Primitive int

const (
	PrimNone Primitive = iota
	PrimVoid
	PrimBoolean
	PrimChar16
	PrimUInt8
	PrimInt16
	PrimUInt16
	PrimInt32
	PrimUInt32
	PrimInt64
	PrimUInt64
	PrimSingle
	PrimDouble
	PrimString
	PrimGuid
	PrimObject
)

var primitiveNames = map[string]Primitive{
	"Void":    PrimVoid,
	"Boolean": PrimBoolean,
	"Char16":  PrimChar16,
	"UInt8":   PrimUInt8,
	"Int16":   PrimInt16,
	"UInt16":  PrimUInt16,
	"Int32":   PrimInt32,
	"UInt32":  PrimUInt32,
	"Int64":   PrimInt64,
	"UInt64":  PrimUInt64,
	"Single":  PrimSingle,
	"Double":  PrimDouble,
	"String":  PrimString,
	"Guid":    PrimGuid,
	"Object":  PrimObject,
}

// LookupPrimitive resolves a snapshot primitive name
func LookupPrimitive(name string) (Primitive, bool) {
	p, ok := primitiveNames[name]
	return p, ok
}

// String returns the snapshot name of the primitive
func (p Primitive) String() string {
	for name, prim := range primitiveNames {
		if prim == p {
			return name
		}
	}
	return ""
}

// RefShape discriminates TypeRef variants
type RefShape int

const (
	ShapePrimitive RefShape = iota
	ShapeNamed
	ShapeGenericParam
	ShapeArray
	ShapeByRef
)

// TypeRef is a reference to a type from a signature, field or requires clause.
// A named ref with Args is a generic instantiation; Name is then the blueprint's full name.
type TypeRef struct {
	Shape     RefShape
	Primitive Primitive
	Name      string
	Args      []*TypeRef
	Param     string // generic parameter name
	Index     int    // generic parameter position
	Elem      *TypeRef
}

// PrimitiveRef creates a reference to a primitive
func PrimitiveRef(p Primitive) *TypeRef {
	return &TypeRef{Shape: ShapePrimitive, Primitive: p}
}

// NamedRef creates a reference to a type definition, optionally closed over args
func NamedRef(fullName string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Shape: ShapeNamed, Name: fullName, Args: args}
}

// GenericParamRef creates a reference to a generic parameter of the enclosing type
func GenericParamRef(name string, index int) *TypeRef {
	return &TypeRef{Shape: ShapeGenericParam, Param: name, Index: index}
}

// ArrayOf wraps elem in an array
func ArrayOf(elem *TypeRef) *TypeRef {
	return &TypeRef{Shape: ShapeArray, Elem: elem}
}

// ByRef wraps elem in a by-reference marker
func ByRef(elem *TypeRef) *TypeRef {
	return &TypeRef{Shape: ShapeByRef, Elem: elem}
}

// IsVoid reports whether the ref is the Void primitive
func (t *TypeRef) IsVoid() bool {
	return t == nil || (t.Shape == ShapePrimitive && t.Primitive == PrimVoid)
}

// IsArray reports whether the ref is an array
func (t *TypeRef) IsArray() bool {
	return t.Shape == ShapeArray
}

// IsByReference reports whether the ref is passed by reference
func (t *TypeRef) IsByReference() bool {
	return t.Shape == ShapeByRef
}

// IsGenericInstance reports whether the ref closes a generic blueprint over arguments
func (t *TypeRef) IsGenericInstance() bool {
	return t.Shape == ShapeNamed && len(t.Args) > 0
}

// IsClosed reports whether no generic parameter occurs anywhere inside the ref
func (t *TypeRef) IsClosed() bool {
	switch t.Shape {
	case ShapeGenericParam:
		return false
	case ShapeArray, ShapeByRef:
		return t.Elem.IsClosed()
	case ShapeNamed:
		for _, a := range t.Args {
			if !a.IsClosed() {
				return false
			}
		}
	}
	return true
}

// String renders the ref canonically; used as an identity key for instantiations
func (t *TypeRef) String() string {
	switch t.Shape {
	case ShapePrimitive:
		return t.Primitive.String()
	case ShapeGenericParam:
		return t.Param
	case ShapeArray:
		return t.Elem.String() + "[]"
	case ShapeByRef:
		return "&" + t.Elem.String()
	}
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Name + "<" + strings.Join(args, ", ") + ">"
}

// Attribute is a custom attribute attached to a type, method or parameter
type Attribute struct {
	Name string
	Args []string
}

// Arg returns the i-th constructor argument or ""
func (a *Attribute) Arg(i int) string {
	if a == nil || i >= len(a.Args) {
		return ""
	}
	return a.Args[i]
}

// Attributes is an ordered attribute list
type Attributes []*Attribute

// Find returns the first attribute with the given name
func (as Attributes) Find(name string) (*Attribute, bool) {
	for _, a := range as {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Has reports whether an attribute with the given name is present
func (as Attributes) Has(name string) bool {
	_, ok := as.Find(name)
	return ok
}

// Param is one method parameter
type Param struct {
	Name       string
	Type       *TypeRef
	Attributes Attributes
}

// IsOut reports whether the parameter is marked [out]
func (p *Param) IsOut() bool {
	return p.Attributes.Has("out")
}

// IsIn reports whether the parameter is an input (explicit [in] or not [out])
func (p *Param) IsIn() bool {
	return p.Attributes.Has("in") || !p.IsOut()
}

// Method is one method definition
type Method struct {
	Name       string
	Params     []*Param
	Return     *TypeRef
	Attributes Attributes
	Location   errors.SourceLocation
}

// Field is a struct field or an enum value
type Field struct {
	Name  string
	Type  *TypeRef
	Value int64
}

// TypeDefinition is one type from an assembly
type TypeDefinition struct {
	Name             string // simple name, with `N arity suffix for generics
	Namespace        string
	Assembly         string
	Kind             Kind
	GenericParams    []string
	Guid             uuid.UUID
	HasGuid          bool
	Methods          []*Method
	Fields           []*Field
	Requires         []*TypeRef
	DefaultInterface *TypeRef
	Underlying       Primitive // enums
	Attributes       Attributes
	Location         errors.SourceLocation
}

// FullName returns Namespace.Name
func (t *TypeDefinition) FullName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// IsGeneric reports whether the definition is a generic blueprint
func (t *TypeDefinition) IsGeneric() bool {
	return len(t.GenericParams) > 0
}

// IsFlags reports whether an enum is a [flags] enum
func (t *TypeDefinition) IsFlags() bool {
	return t.Attributes.Has("flags")
}

// Assembly is one metadata assembly with its types in declaration order
type Assembly struct {
	Name  string
	Types []*TypeDefinition
}

// Namespaces returns the distinct namespaces of the assembly in declaration order
func (a *Assembly) Namespaces() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range a.Types {
		if !seen[t.Namespace] {
			seen[t.Namespace] = true
			out = append(out, t.Namespace)
		}
	}
	return out
}
