package layer

import (
	"maps"
	"slices"
)

// Set is an unordered set of layers.
type Set map[Layer]struct{}

// NewSet returns a set containing the given layers.
func NewSet(layers ...Layer) Set {
	s := make(Set, len(layers))
	for _, l := range layers {
		s[l] = struct{}{}
	}
	return s
}

// Add inserts l and reports whether it was not already present.
func (s Set) Add(l Layer) bool {
	if _, ok := s[l]; ok {
		return false
	}
	s[l] = struct{}{}
	return true
}

// Has reports whether l is in the set. It is safe to call on a nil set.
func (s Set) Has(l Layer) bool {
	_, ok := s[l]
	return ok
}

// ContainsAll reports whether every layer in ls is in the set.
// It returns true for an empty ls.
func (s Set) ContainsAll(ls []Layer) bool {
	for _, l := range ls {
		if !s.Has(l) {
			return false
		}
	}
	return true
}

// Sorted returns the members ordered by [Compare]. The result is never nil.
func (s Set) Sorted() []Layer {
	out := slices.AppendSeq(make([]Layer, 0, len(s)), maps.Keys(s))
	return Sort(out)
}

// Equal reports whether both sets hold the same layers.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for l := range s {
		if !other.Has(l) {
			return false
		}
	}
	return true
}
