package cache

import "github.com/matzehuels/vmslayers/pkg/layer"

// ScopedKeyer wraps a Keyer with a prefix so unrelated tools sharing one
// Redis instance do not read each other's entries.
//
// Example usage:
//
//	// Keys for one test bench
//	benchKeyer := NewScopedKeyer(NewDefaultKeyer(), "bench:hil-03:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ResultKey generates a prefixed key for resolution results.
func (k *ScopedKeyer) ResultKey(offerings []layer.Offering) string {
	return k.prefix + k.inner.ResultKey(offerings)
}

// GraphKey generates a prefixed key for rendered graphs.
func (k *ScopedKeyer) GraphKey(offerings []layer.Offering, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(offerings, opts)
}
