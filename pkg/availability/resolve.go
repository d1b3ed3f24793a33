package availability

import (
	"github.com/matzehuels/vmslayers/pkg/layer"
)

// Result is the outcome of resolving a set of offerings.
// The zero value is the result of resolving no offerings.
type Result struct {
	available   layer.Set
	unavailable layer.Set
	missing     layer.Set
	passes      int
}

// Resolve computes layer availability for the union of offerings.
// It is a pure function of its input: the order of offerings and of the
// dependencies inside them does not affect the result.
func Resolve(offerings []layer.Offering) Result {
	decls, mentioned := collect(offerings)

	available := make(layer.Set, len(decls))
	pending := declaredLayers(decls)

	passes := 0
	for len(pending) > 0 {
		var added []layer.Layer
		for _, l := range pending {
			for _, reqs := range decls[l] {
				if available.ContainsAll(reqs) {
					added = append(added, l)
					break
				}
			}
		}
		if len(added) == 0 {
			break
		}
		passes++
		for _, l := range added {
			available.Add(l)
		}
		pending = without(pending, available)
	}

	r := Result{
		available:   available,
		unavailable: make(layer.Set),
		missing:     make(layer.Set),
		passes:      passes,
	}
	for l := range mentioned {
		if available.Has(l) {
			continue
		}
		r.unavailable.Add(l)
		if _, declared := decls[l]; !declared {
			r.missing.Add(l)
		}
	}
	return r
}

// collect groups deduplicated requirement sets by declared layer and records
// every layer mentioned anywhere in the offerings.
func collect(offerings []layer.Offering) (map[layer.Layer][][]layer.Layer, layer.Set) {
	decls := make(map[layer.Layer][][]layer.Layer)
	mentioned := make(layer.Set)
	seen := make(map[string]struct{})

	for _, o := range offerings {
		for _, d := range o.Dependencies {
			mentioned.Add(d.Layer)
			for _, req := range d.DependsOn {
				mentioned.Add(req)
			}

			key := d.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			decls[d.Layer] = append(decls[d.Layer], d.Requirements())
		}
	}
	return decls, mentioned
}

// declaredLayers returns the keys of decls in layer order so passes visit
// layers deterministically.
func declaredLayers(decls map[layer.Layer][][]layer.Layer) []layer.Layer {
	s := make(layer.Set, len(decls))
	for l := range decls {
		s.Add(l)
	}
	return s.Sorted()
}

func without(layers []layer.Layer, drop layer.Set) []layer.Layer {
	out := layers[:0]
	for _, l := range layers {
		if !drop.Has(l) {
			out = append(out, l)
		}
	}
	return out
}

// Available returns the layers whose requirements are satisfied, sorted.
func (r Result) Available() []layer.Layer { return r.available.Sorted() }

// Unavailable returns every mentioned layer that is not available, sorted.
func (r Result) Unavailable() []layer.Layer { return r.unavailable.Sorted() }

// Missing returns the unavailable layers that no offering declares, sorted.
func (r Result) Missing() []layer.Layer { return r.missing.Sorted() }

// IsAvailable reports whether l resolved as available.
func (r Result) IsAvailable(l layer.Layer) bool { return r.available.Has(l) }

// IsMissing reports whether l is required by some declaration but declared by none.
func (r Result) IsMissing(l layer.Layer) bool { return r.missing.Has(l) }

// Passes returns the number of passes that marked at least one layer available.
// It never exceeds the number of distinct declared layers.
func (r Result) Passes() int { return r.passes }

// Equal reports whether two results partition layers identically.
func (r Result) Equal(other Result) bool {
	return r.available.Equal(other.available) &&
		r.unavailable.Equal(other.unavailable) &&
		r.missing.Equal(other.missing)
}
