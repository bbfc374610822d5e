package generator

import (
	"strings"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/metadata"
	"github.com/toyz/rtgen/internal/models"
)

// TypeUsage selects how a type is spelled at a particular position of generated code
type TypeUsage int

const (
	// UsageRaw is the ABI representation used in vtable declarations
	UsageRaw TypeUsage = iota
	// UsageIn is the borrowed form taken by wrapper inputs
	UsageIn
	// UsageOut is the owned form returned by wrappers
	UsageOut
	// UsageGenericArg is the form used as a generic type argument
	UsageGenericArg
)

var primitiveNames = map[metadata.Primitive]string{
	metadata.PrimBoolean: "bool",
	metadata.PrimChar16:  "Char",
	metadata.PrimUInt8:   "u8",
	metadata.PrimInt16:   "i16",
	metadata.PrimUInt16:  "u16",
	metadata.PrimInt32:   "i32",
	metadata.PrimUInt32:  "u32",
	metadata.PrimInt64:   "i64",
	metadata.PrimUInt64:  "u64",
	metadata.PrimSingle:  "f32",
	metadata.PrimDouble:  "f64",
	metadata.PrimGuid:    "Guid",
}

// TypeName spells ref for the given usage, relative to the namespace of source
func (tr *Translator) TypeName(source *models.TypeDef, ref *metadata.TypeRef, usage TypeUsage) (string, error) {
	switch ref.Shape {
	case metadata.ShapePrimitive:
		return primitiveName(ref.Primitive, usage)
	case metadata.ShapeGenericParam:
		switch usage {
		case UsageRaw:
			return ref.Param + "::Abi", nil
		case UsageIn:
			return "&" + ref.Param + "::In", nil
		case UsageOut:
			return ref.Param + "::Out", nil
		}
		return ref.Param, nil
	case metadata.ShapeArray:
		if ref.Elem.IsArray() {
			return "", errors.Newf(errors.MetadataShapeErrorCode, "array of arrays %s is not supported", ref)
		}
		switch usage {
		case UsageOut:
			elem, err := tr.TypeName(source, ref.Elem, UsageOut)
			if err != nil {
				return "", err
			}
			return "ComArray<" + elem + ">", nil
		case UsageIn:
			elem, err := tr.TypeName(source, ref.Elem, UsageRaw)
			if err != nil {
				return "", err
			}
			return "&[" + elem + "]", nil
		}
		elem, err := tr.TypeName(source, ref.Elem, UsageRaw)
		if err != nil {
			return "", err
		}
		return "*mut " + elem, nil
	case metadata.ShapeByRef:
		if usage != UsageRaw {
			return tr.TypeName(source, ref.Elem, usage)
		}
		elem, err := tr.TypeName(source, ref.Elem, UsageRaw)
		if err != nil {
			return "", err
		}
		return "*mut " + elem, nil
	}

	// Skipped types never get a definition; they travel as plain inspectables.
	if tr.catalog.IsSkipped(ref.Name) {
		return primitiveName(metadata.PrimObject, usage)
	}

	def, err := tr.catalog.LookupRef(ref)
	if err != nil {
		return "", err
	}

	name := tr.qualifiedName(source, def)
	if ref.IsGenericInstance() {
		args := make([]string, len(ref.Args))
		for i, a := range ref.Args {
			if args[i], err = tr.TypeName(source, a, UsageGenericArg); err != nil {
				return "", err
			}
		}
		name += "<" + strings.Join(args, ", ") + ">"
	}

	if !def.IsReferenceType() {
		return name, nil
	}
	switch usage {
	case UsageRaw:
		return "*mut " + name, nil
	case UsageIn:
		return "&" + name, nil
	case UsageOut:
		return "ComPtr<" + name + ">", nil
	}
	return name, nil
}

func primitiveName(p metadata.Primitive, usage TypeUsage) (string, error) {
	switch p {
	case metadata.PrimString:
		switch usage {
		case UsageRaw:
			return "HSTRING", nil
		case UsageIn:
			return "&HStringArg", nil
		}
		return "HString", nil
	case metadata.PrimObject:
		switch usage {
		case UsageRaw:
			return "*mut IInspectable", nil
		case UsageIn:
			return "&IInspectable", nil
		case UsageOut:
			return "ComPtr<IInspectable>", nil
		}
		return "IInspectable", nil
	case metadata.PrimVoid:
		return "()", nil
	}
	if name, ok := primitiveNames[p]; ok {
		return name, nil
	}
	return "", errors.Newf(errors.MetadataShapeErrorCode, "primitive %s has no generated name", p)
}

// qualifiedName returns def's Rust name, with a module path when it lives outside source's namespace
func (tr *Translator) qualifiedName(source *models.TypeDef, def *models.TypeDef) string {
	if source != nil && source.Namespace() == def.Namespace() {
		return def.RustName()
	}
	return ModulePath(def.Namespace()) + "::" + def.RustName()
}

// ModulePath returns the absolute Rust module path of a namespace
func ModulePath(namespace string) string {
	return "::rt::gen::" + strings.ToLower(strings.ReplaceAll(namespace, ".", "::"))
}

// InputTypeName spells a classified wrapper input
func (tr *Translator) InputTypeName(source *models.TypeDef, in models.Input) (string, error) {
	switch in.Kind {
	case models.InputSlice:
		elem, err := tr.TypeName(source, in.Type, UsageRaw)
		if err != nil {
			return "", err
		}
		return "&[" + elem + "]", nil
	case models.InputVecBuffer:
		elem, err := tr.TypeName(source, in.Type, UsageOut)
		if err != nil {
			return "", err
		}
		return "&mut Vec<" + elem + ">", nil
	case models.InputRaw:
		return tr.TypeName(source, in.Type, UsageRaw)
	}
	return tr.TypeName(source, in.Type, UsageIn)
}

// isValueType reports whether ref is passed by value without wrapping
func (tr *Translator) isValueType(ref *metadata.TypeRef) bool {
	switch ref.Shape {
	case metadata.ShapePrimitive:
		return ref.Primitive != metadata.PrimString && ref.Primitive != metadata.PrimObject
	case metadata.ShapeNamed:
		def, err := tr.catalog.LookupRef(ref)
		return err == nil && !def.IsReferenceType()
	}
	return false
}

// wrapOutput converts a raw out value named name into its owned form
func (tr *Translator) wrapOutput(name string, ref *metadata.TypeRef) string {
	switch {
	case ref.IsArray():
		return "ComArray::from_raw(" + name + "Size, " + name + ")"
	case ref.Shape == metadata.ShapeGenericParam:
		return ref.Param + "::wrap(" + name + ")"
	case ref.Shape == metadata.ShapePrimitive && ref.Primitive == metadata.PrimString:
		return "HString::wrap(" + name + ")"
	case tr.isValueType(ref):
		return name
	}
	return "ComPtr::wrap(" + name + ")"
}

// unwrapInput converts a wrapper input named name into its raw form
func (tr *Translator) unwrapInput(name string, ref *metadata.TypeRef) string {
	switch {
	case ref.Shape == metadata.ShapeGenericParam:
		return ref.Param + "::unwrap(" + name + ")"
	case ref.Shape == metadata.ShapePrimitive && ref.Primitive == metadata.PrimString:
		return name + ".get()"
	case tr.isValueType(ref):
		return name
	}
	return name + " as *const _ as *mut _"
}

// uninitializedOutput declares the local an out value is written into
func uninitializedOutput(name string, ref *metadata.TypeRef) string {
	if ref.IsArray() {
		return "let mut " + name + "Size: u32 = 0; let mut " + name + " = null_mut();"
	}
	return "let mut " + name + " = zeroed();"
}
