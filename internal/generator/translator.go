package generator

import (
	"fmt"
	"strings"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/metadata"
	"github.com/toyz/rtgen/internal/models"
	"github.com/toyz/rtgen/internal/registry"
	"github.com/toyz/rtgen/internal/utils"
)

const (
	// DefaultBaseAssembly is always available and never becomes a feature gate
	DefaultBaseAssembly = "Windows.Foundation"
	// DefaultCollectionsNamespace declares the interfaces with GetMany buffer semantics
	DefaultCollectionsNamespace = "Windows.Foundation.Collections"
)

var getManyTypes = map[string]bool{
	"IVector`1":     true,
	"IVectorView`1": true,
	"IIterator`1":   true,
}

// Options configures the translator
type Options struct {
	BaseAssembly         string
	CollectionsNamespace string
}

// Translator turns raw vtable method signatures into safe wrapper definitions
type Translator struct {
	catalog registry.Catalog
	opts    Options
}

// NewTranslator creates a translator over catalog. Empty options take their defaults.
func NewTranslator(catalog registry.Catalog, opts Options) *Translator {
	if opts.BaseAssembly == "" {
		opts.BaseAssembly = DefaultBaseAssembly
	}
	if opts.CollectionsNamespace == "" {
		opts.CollectionsNamespace = DefaultCollectionsNamespace
	}
	return &Translator{catalog: catalog, opts: opts}
}

// WrapperName computes the wrapper name of raw given the raw names of all methods
// declared on the same type. A raw name containing '_' gets a trailing '_' when a
// sibling without '_' maps to the same name ("get_Name" next to "GetName").
func WrapperName(raw string, siblings []string) string {
	name := mangle(raw)
	if !strings.Contains(raw, "_") {
		return name
	}
	for _, s := range siblings {
		if !strings.Contains(s, "_") && mangle(s) == name {
			return name + "_"
		}
	}
	return name
}

func mangle(raw string) string {
	return utils.PreventKeywords(utils.CamelToSnakeCase(strings.ReplaceAll(raw, "put_", "set_")))
}

func paramName(name string) string {
	return utils.PreventKeywords(utils.FirstToLower(name))
}

func (tr *Translator) isGetMany(m *models.MethodDef) bool {
	t := m.DeclaringType
	return m.RawName() == "GetMany" && t.Namespace() == tr.opts.CollectionsNamespace && getManyTypes[t.Name()]
}

// Details returns the memoized translation of m
func (tr *Translator) Details(m *models.MethodDef) (*models.MethodDetails, error) {
	return m.Details(tr.computeDetails)
}

func (tr *Translator) computeDetails(m *models.MethodDef) (*models.MethodDetails, error) {
	owner := m.DeclaringType
	rawName := m.RawName()

	siblings := make([]string, len(owner.Methods))
	for i, s := range owner.Methods {
		siblings[i] = s.RawName()
	}

	getMany := tr.isGetMany(m)
	getManyName := ""

	var inputs []models.Input
	var outputs []models.Output

	for _, p := range m.Def.Params {
		name := paramName(p.Name)
		ref := p.Type

		if err := checkShape(owner, m, p); err != nil {
			return nil, err
		}

		switch {
		case ref.IsByReference():
			outputs = append(outputs, models.Output{Name: name, Type: ref.Elem})
		case ref.IsArray() && p.IsOut() && getMany:
			if getManyName != "" {
				return nil, errors.NewShapeError(owner.FullName(), m.Def.Name, p.Name, "GetMany takes exactly one output buffer")
			}
			getManyName = name
			inputs = append(inputs, models.Input{Name: name, Type: ref.Elem, Kind: models.InputVecBuffer})
		case ref.IsArray() && p.IsOut():
			// TODO: expose a write-only slice instead of the raw buffer pointer
			inputs = append(inputs,
				models.Input{Name: name + "Size", Type: metadata.PrimitiveRef(metadata.PrimUInt32), Kind: models.InputDefault},
				models.Input{Name: name, Type: ref, Kind: models.InputRaw},
			)
		case ref.IsArray():
			inputs = append(inputs, models.Input{Name: name, Type: ref.Elem, Kind: models.InputSlice})
		default:
			inputs = append(inputs, models.Input{Name: name, Type: ref, Kind: models.InputDefault})
		}
	}

	if !m.Def.Return.IsVoid() {
		outputs = append(outputs, models.Output{Name: "out", Type: m.Def.Return})
	}

	var outTypes []*metadata.TypeRef
	if !getMany {
		for _, o := range outputs {
			outTypes = append(outTypes, o.Type)
		}
	}

	return &models.MethodDetails{
		WrappedName: WrapperName(rawName, siblings),
		RawName:     rawName,
		Inputs:      inputs,
		OutTypes:    outTypes,
		WrapperBody: tr.wrapperBody(m, rawName, getManyName, outputs),
		IsGetMany:   getMany,
	}, nil
}

// checkShape rejects parameter shapes the translator cannot express
func checkShape(owner *models.TypeDef, m *models.MethodDef, p *metadata.Param) error {
	ref := p.Type
	if ref.IsByReference() {
		if !p.IsOut() {
			return errors.NewShapeError(owner.FullName(), m.Def.Name, p.Name, "by-reference parameter must be an output")
		}
		if ref.Elem.IsByReference() {
			return errors.NewShapeError(owner.FullName(), m.Def.Name, p.Name, "nested by-reference parameter")
		}
		ref = ref.Elem
	}
	if ref.IsArray() && (ref.Elem.IsArray() || ref.Elem.IsByReference()) {
		return errors.NewShapeError(owner.FullName(), m.Def.Name, p.Name, "array of arrays")
	}
	return nil
}

func (tr *Translator) wrapperBody(m *models.MethodDef, rawName, getManyName string, outputs []models.Output) string {
	rawArgs := []string{"self"}
	for _, p := range m.Def.Params {
		name := paramName(p.Name)
		ref := p.Type
		switch {
		case ref.IsByReference():
			if ref.Elem.IsArray() {
				rawArgs = append(rawArgs, "&mut "+name+"Size")
			}
			rawArgs = append(rawArgs, "&mut "+name)
		case ref.IsArray() && p.IsOut() && getManyName != "":
			rawArgs = append(rawArgs, name+".capacity() as u32", name+".as_mut_ptr() as *mut T::Abi")
		case ref.IsArray() && p.IsOut():
			rawArgs = append(rawArgs, name+"Size", name)
		case ref.IsArray():
			rawArgs = append(rawArgs, name+".len() as u32", name+".as_ptr() as *mut _")
		default:
			rawArgs = append(rawArgs, tr.unwrapInput(name, ref))
		}
	}
	if ret := m.Def.Return; !ret.IsVoid() {
		if ret.IsArray() {
			rawArgs = append(rawArgs, "&mut outSize")
		}
		rawArgs = append(rawArgs, "&mut out")
	}

	inits := make([]string, 0, len(outputs))
	wraps := make([]string, 0, len(outputs))
	for _, o := range outputs {
		inits = append(inits, uninitializedOutput(o.Name, o.Type))
		wraps = append(wraps, tr.wrapOutput(o.Name, o.Type))
	}

	outInit := strings.Join(inits, " ")
	if outInit != "" {
		outInit = "\n\t\t" + outInit
	}
	outWrap := strings.Join(wraps, ", ")
	if len(outputs) != 1 {
		outWrap = "(" + outWrap + ")"
	}
	outWrap = "Ok(" + outWrap + ")"

	if getManyName != "" {
		outInit = fmt.Sprintf("\n\t\tdebug_assert!(%[1]s.capacity() > 0, \"capacity of `%[1]s` must not be 0 (use Vec::with_capacity)\"); %[1]s.clear();", getManyName) + outInit
		outWrap = getManyName + ".set_len(out as usize); Ok(())"
	}

	return outInit + "\n\t\tlet hr = ((*self.lpVtbl)." + rawName + ")(" + strings.Join(rawArgs, ", ") + ");" +
		"\n\t\tif hr == S_OK { " + outWrap + " } else { err(hr) }"
}

// WrapperDefinition renders the public wrapper of m, feature gated when its dependencies cross assemblies
func (tr *Translator) WrapperDefinition(m *models.MethodDef) (string, error) {
	d, err := tr.Details(m)
	if err != nil {
		return "", err
	}
	owner := m.DeclaringType

	params := []string{"&mut self"}
	for _, in := range d.Inputs {
		t, err := tr.InputTypeName(owner, in)
		if err != nil {
			return "", errors.WrapGenerateError(owner.FullName()+"."+m.Def.Name, err)
		}
		params = append(params, in.Name+": "+t)
	}

	outs := make([]string, len(d.OutTypes))
	for i, o := range d.OutTypes {
		if outs[i], err = tr.TypeName(owner, o, UsageOut); err != nil {
			return "", errors.WrapGenerateError(owner.FullName()+"."+m.Def.Name, err)
		}
	}
	outType := strings.Join(outs, ", ")
	if len(outs) != 1 {
		outType = "(" + outType + ")"
	}

	cfg := m.FeatureConditions(tr.opts.BaseAssembly).Attribute()
	return cfg + "#[inline] pub unsafe fn " + d.WrappedName + "(" + strings.Join(params, ", ") + ") -> Result<" + outType + "> {" +
		d.WrapperBody + "\n\t}", nil
}

// RawDeclaration renders the ABI-exact vtable slot of m
func (tr *Translator) RawDeclaration(m *models.MethodDef) (string, error) {
	owner := m.DeclaringType
	params := []string{"&mut self"}

	for _, p := range m.Def.Params {
		if err := checkShape(owner, m, p); err != nil {
			return "", err
		}
		lower := utils.FirstToLower(p.Name)
		switch {
		case p.Type.IsArray():
			params = append(params, lower+"Size: u32")
		case p.Type.IsByReference() && p.Type.Elem.IsArray():
			params = append(params, lower+"Size: *mut u32")
		}
		t, err := tr.TypeName(owner, p.Type, UsageRaw)
		if err != nil {
			return "", errors.WrapGenerateError(owner.FullName()+"."+m.Def.Name, err)
		}
		params = append(params, paramName(p.Name)+": "+t)
	}

	if ret := m.Def.Return; !ret.IsVoid() {
		if ret.IsArray() {
			params = append(params, "outSize: *mut u32")
		}
		t, err := tr.TypeName(owner, ret, UsageRaw)
		if err != nil {
			return "", errors.WrapGenerateError(owner.FullName()+"."+m.Def.Name, err)
		}
		params = append(params, "out: *mut "+t)
	}

	return "fn " + m.RawName() + "(" + strings.Join(params, ", ") + ") -> HRESULT", nil
}

// VtableSlots renders every raw declaration of t in slot order. A slot gated by a
// feature gets a placeholder with the same position for when the feature is off.
func (tr *Translator) VtableSlots(t *models.TypeDef) ([]string, error) {
	var slots []string
	for i, m := range t.Methods {
		decl, err := tr.RawDeclaration(m)
		if err != nil {
			return nil, err
		}
		features := m.FeatureConditions(tr.opts.BaseAssembly)
		if features.IsEmpty() {
			slots = append(slots, decl)
			continue
		}
		slots = append(slots,
			features.Attribute()+decl,
			fmt.Sprintf("%sfn __Dummy%d(&mut self) -> ()", features.NegatedAttribute(), i),
		)
	}
	return slots, nil
}
