package cache

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/vmslayers/pkg/layer"
)

// Keyer derives cache keys from offering sets.
type Keyer interface {
	// ResultKey identifies the resolution result of offerings.
	ResultKey(offerings []layer.Offering) string

	// GraphKey identifies a rendered dependency graph of offerings.
	GraphKey(offerings []layer.Offering, opts GraphKeyOpts) string
}

// GraphKeyOpts holds the rendering options that change graph output.
type GraphKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer hashes the canonical form of an offering set, so two sets that
// differ only in ordering, duplication or publisher names share a key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(offerings []layer.Offering) string {
	return hashKey("result", canonical(offerings))
}

// GraphKey implements Keyer. Detailed graphs print publisher names, so their
// keys also cover who declared what.
func (DefaultKeyer) GraphKey(offerings []layer.Offering, opts GraphKeyOpts) string {
	if opts.Detailed {
		return hashKey("graph", canonical(offerings), opts, publishers(offerings))
	}
	return hashKey("graph", canonical(offerings), opts)
}

// canonical flattens offerings into their sorted, deduplicated declaration keys.
// Resolution only depends on the union of declarations, so offering
// boundaries are dropped as well.
func canonical(offerings []layer.Offering) []string {
	var keys []string
	for _, o := range offerings {
		for _, d := range o.Dependencies {
			keys = append(keys, d.Key())
		}
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

// publishers pairs every declaration key with the sorted names of the
// publishers that declared it.
func publishers(offerings []layer.Offering) []string {
	byDecl := make(map[string][]string)
	for _, o := range offerings {
		if o.Publisher == "" {
			continue
		}
		for _, d := range o.Dependencies {
			byDecl[d.Key()] = append(byDecl[d.Key()], o.Publisher)
		}
	}
	keys := slices.Sorted(maps.Keys(byDecl))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		names := byDecl[k]
		slices.Sort(names)
		out = append(out, k+"="+strings.Join(slices.Compact(names), ","))
	}
	return out
}
