package models

import (
	"github.com/toyz/rtgen/internal/errors"
)

// Phase is one step of the generator's strictly ordered lifecycle
type Phase int

const (
	// PhaseConstruct: the catalog is being built, no dependencies exist yet
	PhaseConstruct Phase = iota
	// PhaseCollect: dependency sets may grow
	PhaseCollect
	// PhaseEmit: dependency sets are frozen, generated text is written
	PhaseEmit
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseConstruct:
		return "Construct"
	case PhaseCollect:
		return "Collect"
	case PhaseEmit:
		return "Emit"
	default:
		return "Unknown"
	}
}

// PhaseGuard tracks the current phase. It is shared by the catalog and every
// TypeDef/MethodDef it owns; any mutation attempted in the wrong phase panics
// with a *errors.PhaseError.
type PhaseGuard struct {
	current Phase
}

// NewPhaseGuard returns a guard in PhaseConstruct
func NewPhaseGuard() *PhaseGuard {
	return &PhaseGuard{current: PhaseConstruct}
}

// Current returns the current phase
func (g *PhaseGuard) Current() Phase {
	return g.current
}

// Is reports whether the guard is in phase p
func (g *PhaseGuard) Is(p Phase) bool {
	return g.current == p
}

// Require panics unless the guard is in phase p
func (g *PhaseGuard) Require(operation string, p Phase) {
	if g.current != p {
		panic(errors.NewPhaseError(operation, p.String(), g.current.String()))
	}
}

// Advance moves to the next phase. Phases can only be entered in order, once.
func (g *PhaseGuard) Advance(to Phase) {
	if to != g.current+1 {
		panic(errors.NewPhaseError("advance to "+to.String(), (to - 1).String(), g.current.String()))
	}
	g.current = to
}
