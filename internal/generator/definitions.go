package generator

import (
	"strings"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/metadata"
	"github.com/toyz/rtgen/internal/models"
	"github.com/toyz/rtgen/internal/templates"
)

// Definition renders the generated text of one type definition
func (tr *Translator) Definition(t *models.TypeDef) (string, error) {
	switch t.Kind() {
	case metadata.KindInterface, metadata.KindDelegate:
		return tr.interfaceDefinition(t)
	case metadata.KindClass:
		return tr.classDefinition(t)
	case metadata.KindEnum:
		return enumDefinition(t)
	case metadata.KindStruct:
		return tr.structDefinition(t)
	}
	return "", errors.NewGenerationError(t.FullName(), "no definition for "+t.Kind().String()+" types")
}

func (tr *Translator) interfaceDefinition(t *models.TypeDef) (string, error) {
	data := templates.InterfaceData{Name: t.RustName()}

	if t.IsGeneric() {
		data.Generics = "<" + strings.Join(t.Def.GenericParams, ", ") + ">"
		bounds := make([]string, len(t.Def.GenericParams))
		for i, p := range t.Def.GenericParams {
			bounds[i] = p + ": RtType"
		}
		data.ImplGenerics = "<" + strings.Join(bounds, ", ") + ">"
	} else {
		if !t.Def.HasGuid {
			err := errors.NewGenerationError(t.FullName(), t.Kind().String()+" has no guid")
			err.WithLocation(t.Def.Location)
			return "", err
		}
		data.IID = &templates.IIDData{
			Name:    "IID_" + t.RustName(),
			Literal: templates.GuidLiteral(t.Def.Guid),
		}
	}

	slots, err := tr.VtableSlots(t)
	if err != nil {
		return "", err
	}
	data.Slots = slots

	for _, m := range t.Methods {
		w, err := tr.WrapperDefinition(m)
		if err != nil {
			return "", err
		}
		data.Wrappers = append(data.Wrappers, w)
	}

	var text string
	if t.Kind() == metadata.KindDelegate {
		text, err = templates.GenerateDelegate(data)
	} else {
		text, err = templates.GenerateInterface(data)
	}
	if err != nil {
		return "", errors.WrapGenerateError(t.FullName(), err)
	}
	return text, nil
}

func (tr *Translator) classDefinition(t *models.TypeDef) (string, error) {
	data := templates.ClassData{Name: t.RustName(), Default: "IInspectable"}
	if t.Def.DefaultInterface != nil {
		name, err := tr.TypeName(t, t.Def.DefaultInterface, UsageGenericArg)
		if err != nil {
			return "", err
		}
		data.Default = name
	}
	text, err := templates.GenerateClass(data)
	if err != nil {
		return "", errors.WrapGenerateError(t.FullName(), err)
	}
	return text, nil
}

func enumDefinition(t *models.TypeDef) (string, error) {
	data := templates.EnumData{Name: t.RustName(), Underlying: "i32"}
	if t.Def.Underlying == metadata.PrimUInt32 {
		data.Underlying = "u32"
	}
	for _, f := range t.Def.Fields {
		data.Values = append(data.Values, templates.EnumValue{Name: f.Name, Value: f.Value})
	}
	text, err := templates.GenerateEnum(data)
	if err != nil {
		return "", errors.WrapGenerateError(t.FullName(), err)
	}
	return text, nil
}

func (tr *Translator) structDefinition(t *models.TypeDef) (string, error) {
	data := templates.StructData{Name: t.RustName()}
	for _, f := range t.Def.Fields {
		name, err := tr.TypeName(t, f.Type, UsageRaw)
		if err != nil {
			return "", err
		}
		data.Fields = append(data.Fields, templates.StructField{Name: f.Name, Type: name})
	}
	text, err := templates.GenerateStruct(data)
	if err != nil {
		return "", errors.WrapGenerateError(t.FullName(), err)
	}
	return text, nil
}

// InstanceDefinition renders a parametric interface instance with its derived IID
func (tr *Translator) InstanceDefinition(inst *models.GenericInstance) (string, error) {
	iid, err := metadata.InstanceIID(tr.catalog.Provider(), inst.Ref)
	if err != nil {
		return "", errors.WrapGenerateError(inst.Key(), err)
	}
	typeName, err := tr.TypeName(inst.Blueprint, inst.Ref, UsageGenericArg)
	if err != nil {
		return "", errors.WrapGenerateError(inst.Key(), err)
	}
	mangled, err := tr.instanceMangledName(inst.Ref)
	if err != nil {
		return "", errors.WrapGenerateError(inst.Key(), err)
	}

	text, err := templates.GenerateInstance(templates.InstanceData{
		Cfg:  inst.FeatureConditions(tr.opts.BaseAssembly).Attribute(),
		Type: typeName,
		IID: templates.IIDData{
			Name:    "IID_" + mangled,
			Literal: templates.GuidLiteral(iid),
		},
	})
	if err != nil {
		return "", errors.WrapGenerateError(inst.Key(), err)
	}
	return text, nil
}

// instanceMangledName flattens a type reference into an identifier ("IVector_1_HString")
func (tr *Translator) instanceMangledName(ref *metadata.TypeRef) (string, error) {
	if ref.Shape == metadata.ShapePrimitive {
		return primitiveName(ref.Primitive, UsageGenericArg)
	}
	def, err := tr.catalog.LookupRef(ref)
	if err != nil {
		return "", err
	}
	parts := []string{strings.ReplaceAll(def.Name(), "`", "_")}
	for _, a := range ref.Args {
		p, err := tr.instanceMangledName(a)
		if err != nil {
			return "", err
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, "_"), nil
}
