package models

import (
	"sort"
	"strings"
)

// Module is one node of the namespace tree generated text is written into
type Module struct {
	Name     string
	Path     string
	parent   *Module
	children map[string]*Module
	text     strings.Builder
}

// NewModuleTree returns an empty root module
func NewModuleTree() *Module {
	return &Module{children: make(map[string]*Module)}
}

// FindChild returns the module at the dotted path, creating missing nodes
func (m *Module) FindChild(path string) *Module {
	if path == "" {
		return m
	}
	current := m
	for _, segment := range strings.Split(path, ".") {
		child, ok := current.children[segment]
		if !ok {
			childPath := segment
			if current.Path != "" {
				childPath = current.Path + "." + segment
			}
			child = &Module{
				Name:     segment,
				Path:     childPath,
				parent:   current,
				children: make(map[string]*Module),
			}
			current.children[segment] = child
		}
		current = child
	}
	return current
}

// Append adds generated text to the module's buffer
func (m *Module) Append(text string) {
	m.text.WriteString(text)
}

// Text returns the accumulated generated text
func (m *Module) Text() string {
	return m.text.String()
}

// HasText reports whether the module itself carries generated text
func (m *Module) HasText() bool {
	return strings.TrimSpace(m.text.String()) != ""
}

// IsEmpty reports whether neither this module nor any descendant has text
func (m *Module) IsEmpty() bool {
	if m.HasText() {
		return false
	}
	for _, c := range m.children {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Children returns the child modules ordered by name
func (m *Module) Children() []*Module {
	names := make([]string, 0, len(m.children))
	for name := range m.children {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Module, len(names))
	for i, name := range names {
		out[i] = m.children[name]
	}
	return out
}

// Parent returns the parent module, nil for the root
func (m *Module) Parent() *Module {
	return m.parent
}
