package layer

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/vmslayers/pkg/errors"
)

// Layer is an (id, version) pair naming a unit of data a publisher can offer.
// The zero value is a valid layer (id 0, version 0).
type Layer struct {
	ID      int
	Version int
}

// New returns the layer with the given id and version.
func New(id, version int) Layer {
	return Layer{ID: id, Version: version}
}

// String renders the layer as "id:version".
func (l Layer) String() string {
	return strconv.Itoa(l.ID) + ":" + strconv.Itoa(l.Version)
}

// Validate reports an ErrCodeInvalidLayer error if the id or version is negative.
func (l Layer) Validate() error {
	if l.ID < 0 {
		return errors.New(errors.ErrCodeInvalidLayer, "layer %s: negative id", l)
	}
	if l.Version < 0 {
		return errors.New(errors.ErrCodeInvalidLayer, "layer %s: negative version", l)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler so layers encode as "id:version"
// in JSON and TOML.
func (l Layer) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using [Parse].
func (l *Layer) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Parse reads a layer written as "id:version". Surrounding whitespace is ignored.
// The parsed layer is validated.
func Parse(s string) (Layer, error) {
	idStr, versionStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Layer{}, errors.New(errors.ErrCodeInvalidLayer, "layer %q: want id:version", s)
	}
	id, err := strconv.Atoi(strings.TrimSpace(idStr))
	if err != nil {
		return Layer{}, errors.Wrap(errors.ErrCodeInvalidLayer, err, "layer %q: bad id", s)
	}
	version, err := strconv.Atoi(strings.TrimSpace(versionStr))
	if err != nil {
		return Layer{}, errors.Wrap(errors.ErrCodeInvalidLayer, err, "layer %q: bad version", s)
	}
	l := Layer{ID: id, Version: version}
	if err := l.Validate(); err != nil {
		return Layer{}, err
	}
	return l, nil
}

// MustParse is like [Parse] but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(s string) Layer {
	l, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("layer.MustParse: %v", err))
	}
	return l
}

// Compare orders layers by id, then version.
func Compare(a, b Layer) int {
	if c := cmp.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	return cmp.Compare(a.Version, b.Version)
}

// Sort sorts layers in place with [Compare] and returns them.
func Sort(layers []Layer) []Layer {
	slices.SortFunc(layers, Compare)
	return layers
}
