package layer

import (
	"slices"
	"strings"

	"github.com/matzehuels/vmslayers/pkg/errors"
)

// Dependency declares that Layer can be produced once every layer in
// DependsOn is available. A nil or empty DependsOn means the layer has no
// dependencies. DependsOn has set semantics: order and duplicates are ignored.
type Dependency struct {
	Layer     Layer   `json:"layer" toml:"layer"`
	DependsOn []Layer `json:"depends_on,omitempty" toml:"depends_on"`
}

// NewDependency returns a Dependency of l on deps.
func NewDependency(l Layer, deps ...Layer) Dependency {
	return Dependency{Layer: l, DependsOn: deps}
}

// Requirements returns DependsOn deduplicated and sorted. The result is never nil.
func (d Dependency) Requirements() []Layer {
	return NewSet(d.DependsOn...).Sorted()
}

// Key returns a canonical string for the declaration, equal for two
// dependencies that declare the same layer with the same requirement set.
func (d Dependency) Key() string {
	var b strings.Builder
	b.WriteString(d.Layer.String())
	b.WriteString("<-")
	for i, l := range d.Requirements() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(l.String())
	}
	return b.String()
}

// Validate checks the declared layer and every required layer.
func (d Dependency) Validate() error {
	if err := d.Layer.Validate(); err != nil {
		return err
	}
	for _, l := range d.DependsOn {
		if err := l.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLayer, err, "dependency of %s", d.Layer)
		}
	}
	return nil
}

// Offering is the set of dependencies one publisher contributes atomically.
type Offering struct {
	Publisher    string       `json:"publisher,omitempty" toml:"publisher"`
	Dependencies []Dependency `json:"dependencies" toml:"dependency"`
}

// NewOffering returns an anonymous offering of the given dependencies.
func NewOffering(deps ...Dependency) Offering {
	return Offering{Dependencies: deps}
}

// Clone returns a deep copy of o that shares no slices with it.
func (o Offering) Clone() Offering {
	deps := slices.Clone(o.Dependencies)
	for i := range deps {
		deps[i].DependsOn = slices.Clone(deps[i].DependsOn)
	}
	return Offering{Publisher: o.Publisher, Dependencies: deps}
}

// Layers returns every layer the offering declares, sorted.
func (o Offering) Layers() []Layer {
	s := make(Set, len(o.Dependencies))
	for _, d := range o.Dependencies {
		s.Add(d.Layer)
	}
	return s.Sorted()
}

// Validate checks the publisher name and every dependency, reporting the
// index of the first bad entry.
func (o Offering) Validate() error {
	if err := errors.ValidatePublisherName(o.Publisher); err != nil {
		return err
	}
	for i, d := range o.Dependencies {
		if err := d.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidOffering, err, "offering %q: dependency %d", o.Publisher, i)
		}
	}
	return nil
}

// Key returns a canonical string for the offering that ignores the order of its
// dependencies and the publisher name.
func (o Offering) Key() string {
	keys := make([]string, len(o.Dependencies))
	for i, d := range o.Dependencies {
		keys[i] = d.Key()
	}
	slices.Sort(keys)
	return strings.Join(slices.Compact(keys), ";")
}
