package models

// Memo is a two-state memoized value: uncomputed, or computed with a value or an error.
// Once computed it never changes.
type Memo[T any] struct {
	computed bool
	value    T
	err      error
}

// Get returns the memoized result, running compute on first use only
func (m *Memo[T]) Get(compute func() (T, error)) (T, error) {
	if !m.computed {
		m.value, m.err = compute()
		m.computed = true
	}
	return m.value, m.err
}

// Computed reports whether the value has been computed
func (m *Memo[T]) Computed() bool {
	return m.computed
}
