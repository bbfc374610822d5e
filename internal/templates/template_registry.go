package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerInterfaceTemplates()
	registry.registerValueTypeTemplates()
	registry.registerInstanceTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// registerInterfaceTemplates registers interface, delegate and runtime class templates
func (tr *TemplateRegistry) registerInterfaceTemplates() {
	tr.templates["interface"] = `{{if .IID}}
DEFINE_IID!({{.IID.Name}}, {{.IID.Literal}});{{end}}
RT_INTERFACE!{interface {{.Name}}{{.Generics}}({{.Name}}Vtbl): IInspectable(IInspectableVtbl){{if .IID}} [{{.IID.Name}}]{{end}} {
{{range $i, $slot := .Slots}}{{if $i}},
{{end}}	{{$slot}}{{end}}
}}{{template "impl" .}}`

	tr.templates["delegate"] = `{{if .IID}}
DEFINE_IID!({{.IID.Name}}, {{.IID.Literal}});{{end}}
RT_DELEGATE!{delegate {{.Name}}{{.Generics}}({{.Name}}Vtbl, {{.Name}}Impl){{if .IID}} [{{.IID.Name}}]{{end}} {
{{range $i, $slot := .Slots}}{{if $i}},
{{end}}	{{$slot}}{{end}}
}}{{template "impl" .}}`

	tr.templates["impl"] = `{{if .Wrappers}}
impl{{.ImplGenerics}} {{.Name}}{{.Generics}} {
{{range .Wrappers}}	{{.}}
{{end}}}{{end}}`

	tr.templates["class"] = `
RT_CLASS!{class {{.Name}}: {{.Default}}}`
}

// registerValueTypeTemplates registers enum and struct templates
func (tr *TemplateRegistry) registerValueTypeTemplates() {
	tr.templates["enum"] = `
RT_ENUM! { enum {{.Name}}: {{.Underlying}} {
	{{range $i, $v := .Values}}{{if $i}} {{end}}{{$v.Name}} ({{$.Name}}_{{$v.Name}}) = {{$v.Value}},{{end}}
}}`

	tr.templates["struct"] = `
RT_STRUCT! { struct {{.Name}} {
	{{range $i, $f := .Fields}}{{if $i}} {{end}}{{$f.Name}}: {{$f.Type}},{{end}}
}}`
}

// registerInstanceTemplates registers the parametric instance template
func (tr *TemplateRegistry) registerInstanceTemplates() {
	tr.templates["pinterface"] = `
{{.Cfg}}RT_PINTERFACE!{ for {{.Type}} => [{{.IID.Literal}}] as {{.IID.Name}} }`
}
