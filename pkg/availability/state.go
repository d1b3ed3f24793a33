package availability

import "github.com/matzehuels/vmslayers/pkg/layer"

// State is a resolution result stamped with a sequence number.
// The sequence increases by one every time the available set changes, so
// consumers can discard stale notifications.
type State struct {
	Sequence int
	Result   Result
}

// Advance returns the state that follows s after resolving next, together with
// the change in availability. The sequence only moves when the available set
// changes; otherwise s is returned with its result refreshed.
func (s State) Advance(next Result) (State, Change) {
	change := Diff(s.Result, next)
	seq := s.Sequence
	if !change.Empty() {
		seq++
	}
	return State{Sequence: seq, Result: next}, change
}

// Change describes how the available set moved between two results.
type Change struct {
	Added   []layer.Layer // became available
	Removed []layer.Layer // no longer available
}

// Empty reports whether nothing changed.
func (c Change) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// Diff compares the available sets of prev and next.
func Diff(prev, next Result) Change {
	var c Change
	for l := range next.available {
		if !prev.available.Has(l) {
			c.Added = append(c.Added, l)
		}
	}
	for l := range prev.available {
		if !next.available.Has(l) {
			c.Removed = append(c.Removed, l)
		}
	}
	layer.Sort(c.Added)
	layer.Sort(c.Removed)
	return c
}
