package availability

import (
	"fmt"

	"github.com/matzehuels/vmslayers/pkg/layer"
)

// Resolver holds the result of the most recent call to SetOfferings.
//
// Every call replaces all prior state and recomputes availability from
// scratch; there is no incremental update. The zero value is ready to use and
// reports no layers. Resolver is not safe for concurrent use without external
// synchronization.
type Resolver struct {
	result Result
}

// SetOfferings replaces the offering set and recomputes availability.
// Offerings are not validated; use [Resolver.Update] for untrusted input.
func (r *Resolver) SetOfferings(offerings []layer.Offering) {
	r.result = Resolve(offerings)
}

// Update validates every offering and then behaves like SetOfferings. On a
// validation error the previous result is kept.
func (r *Resolver) Update(offerings []layer.Offering) error {
	for i, o := range offerings {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("offering %d: %w", i, err)
		}
	}
	r.SetOfferings(offerings)
	return nil
}

// AvailableLayers returns the layers whose dependencies are fully satisfiable.
func (r *Resolver) AvailableLayers() []layer.Layer {
	return r.result.Available()
}

// UnavailableLayers returns the layers that appear in some declaration but are
// not available.
func (r *Resolver) UnavailableLayers() []layer.Layer {
	return r.result.Unavailable()
}

// Result returns the full result of the last resolution.
func (r *Resolver) Result() Result {
	return r.result
}
