// Package templates renders the per-kind Rust definitions the emitter writes into the module tree.
package templates

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/google/uuid"
)

// IIDData is a named interface identifier
type IIDData struct {
	Name    string
	Literal string
}

// InterfaceData holds the data for interface and delegate definitions
type InterfaceData struct {
	Name         string
	Generics     string // "<T>" for blueprints
	ImplGenerics string // "<T: RtType>" for blueprints
	IID          *IIDData
	Slots        []string // raw vtable declarations, feature placeholders included
	Wrappers     []string // safe wrapper definitions
}

// ClassData holds the data for a runtime class definition
type ClassData struct {
	Name    string
	Default string
}

// EnumValue is one enumerator
type EnumValue struct {
	Name  string
	Value int64
}

// EnumData holds the data for an enum definition
type EnumData struct {
	Name       string
	Underlying string
	Values     []EnumValue
}

// StructField is one struct field with its ABI type
type StructField struct {
	Name string
	Type string
}

// StructData holds the data for a struct definition
type StructData struct {
	Name   string
	Fields []StructField
}

// InstanceData holds the data for a parametric interface instance
type InstanceData struct {
	Cfg  string
	Type string
	IID  IIDData
}

var registry = NewTemplateRegistry()

// GenerateInterface renders an interface definition with its impl block
func GenerateInterface(data InterfaceData) (string, error) {
	return executeTemplate("interface", data)
}

// GenerateDelegate renders a delegate definition with its impl block
func GenerateDelegate(data InterfaceData) (string, error) {
	return executeTemplate("delegate", data)
}

// GenerateClass renders a runtime class definition
func GenerateClass(data ClassData) (string, error) {
	return executeTemplate("class", data)
}

// GenerateEnum renders an enum definition
func GenerateEnum(data EnumData) (string, error) {
	return executeTemplate("enum", data)
}

// GenerateStruct renders a struct definition
func GenerateStruct(data StructData) (string, error) {
	return executeTemplate("struct", data)
}

// GenerateInstance renders a parametric interface instance
func GenerateInstance(data InstanceData) (string, error) {
	return executeTemplate("pinterface", data)
}

// GuidLiteral formats id as the comma separated literal DEFINE_IID! expects
func GuidLiteral(id uuid.UUID) string {
	b := id
	return fmt.Sprintf("0x%02x%02x%02x%02x, 0x%02x%02x, 0x%02x%02x, 0x%02x, 0x%02x, 0x%02x, 0x%02x, 0x%02x, 0x%02x, 0x%02x, 0x%02x",
		b[0], b[1], b[2], b[3], b[4], b[5], b[6], b[7],
		b[8], b[9], b[10], b[11], b[12], b[13], b[14], b[15])
}

// executeTemplate executes a registered template with the given data
func executeTemplate(name string, data interface{}) (string, error) {
	tmpl := template.New(name)
	if _, err := tmpl.Parse(registry.MustGet(name)); err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	if name == "interface" || name == "delegate" {
		if _, err := tmpl.New("impl").Parse(registry.MustGet("impl")); err != nil {
			return "", fmt.Errorf("failed to parse template impl: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
