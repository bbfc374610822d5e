package metadata

import (
	"github.com/toyz/rtgen/internal/errors"
)

// Provider is the read-only view of the type graph the generator works on
type Provider interface {
	// Assemblies returns all assemblies in a stable order
	Assemblies() []*Assembly
	// FindType looks up a type definition by full name
	FindType(fullName string) (*TypeDefinition, bool)
}

// Snapshot is an in-memory Provider
type Snapshot struct {
	assemblies []*Assembly
	types      map[string]*TypeDefinition
}

// NewSnapshot indexes the given assemblies. Assembly and type names must be unique.
func NewSnapshot(assemblies ...*Assembly) (*Snapshot, error) {
	s := &Snapshot{
		types: make(map[string]*TypeDefinition),
	}
	seen := make(map[string]bool)

	for _, asm := range assemblies {
		if seen[asm.Name] {
			return nil, errors.NewRegistrationError("assembly", asm.Name, "assembly is defined more than once")
		}
		seen[asm.Name] = true

		for _, t := range asm.Types {
			name := t.FullName()
			if existing, ok := s.types[name]; ok {
				err := errors.NewRegistrationError("type", name, "type is defined more than once")
				err.WithLocation(t.Location).
					WithSuggestion("Previous definition at " + existing.Location.String())
				return nil, err
			}
			t.Assembly = asm.Name
			s.types[name] = t
		}
		s.assemblies = append(s.assemblies, asm)
	}

	return s, nil
}

// Assemblies implements Provider
func (s *Snapshot) Assemblies() []*Assembly {
	return s.assemblies
}

// FindType implements Provider
func (s *Snapshot) FindType(fullName string) (*TypeDefinition, bool) {
	t, ok := s.types[fullName]
	return t, ok
}

// TypeCount returns the number of indexed types
func (s *Snapshot) TypeCount() int {
	return len(s.types)
}
