package models

import (
	"sort"
)

// DependencySet is a set of TypeDefs keyed by full name. It only grows, and only in PhaseCollect.
type DependencySet struct {
	guard *PhaseGuard
	items map[string]*TypeDef
}

// NewDependencySet creates an empty set bound to the given phase guard
func NewDependencySet(guard *PhaseGuard) *DependencySet {
	return &DependencySet{
		guard: guard,
		items: make(map[string]*TypeDef),
	}
}

// Add inserts dep. Panics outside PhaseCollect.
func (s *DependencySet) Add(dep *TypeDef) {
	s.guard.Require("add dependency "+dep.FullName(), PhaseCollect)
	s.items[dep.FullName()] = dep
}

// Has reports whether a type with the given full name is in the set
func (s *DependencySet) Has(fullName string) bool {
	_, ok := s.items[fullName]
	return ok
}

// Len returns the number of dependencies
func (s *DependencySet) Len() int {
	return len(s.items)
}

// Sorted returns the dependencies ordered by full name
func (s *DependencySet) Sorted() []*TypeDef {
	names := make([]string, 0, len(s.items))
	for name := range s.items {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*TypeDef, len(names))
	for i, name := range names {
		out[i] = s.items[name]
	}
	return out
}

// SubsetOf reports whether every dependency is contained in available
func (s *DependencySet) SubsetOf(available map[string]bool) bool {
	for name := range s.items {
		if !available[name] {
			return false
		}
	}
	return true
}
