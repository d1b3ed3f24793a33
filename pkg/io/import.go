package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/vmslayers/pkg/errors"
	"github.com/matzehuels/vmslayers/pkg/layer"
)

// Format names an offering file encoding.
type Format string

// Supported offering file formats.
const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "%s: unsupported offering file extension (want .toml or .json)", path)
	}
}

type offeringFile struct {
	Offerings []rawOffering `json:"offerings" toml:"offering"`
}

type rawOffering struct {
	Publisher    string          `json:"publisher" toml:"publisher"`
	Dependencies []rawDependency `json:"dependencies" toml:"dependency"`
}

// rawDependency holds layers as text so a missing key can be told apart
// from layer 0:0.
type rawDependency struct {
	Layer     string   `json:"layer" toml:"layer"`
	DependsOn []string `json:"depends_on" toml:"depends_on"`
}

func (d rawDependency) dependency() (layer.Dependency, error) {
	if strings.TrimSpace(d.Layer) == "" {
		return layer.Dependency{}, errors.New(errors.ErrCodeInvalidOffering, "missing layer")
	}
	l, err := layer.Parse(d.Layer)
	if err != nil {
		return layer.Dependency{}, err
	}
	deps := make([]layer.Layer, len(d.DependsOn))
	for i, s := range d.DependsOn {
		if deps[i], err = layer.Parse(s); err != nil {
			return layer.Dependency{}, fmt.Errorf("%s depends_on: %w", l, err)
		}
	}
	return layer.NewDependency(l, deps...), nil
}

// ReadOfferings decodes and validates the offerings in r.
// ReadOfferings does not close r.
func ReadOfferings(r io.Reader, format Format) ([]layer.Offering, error) {
	var file offeringFile
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&file)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidFormat, "decode toml: unknown keys: %s", strings.Join(keys, ", "))
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	return file.offerings()
}

func (f offeringFile) offerings() ([]layer.Offering, error) {
	out := make([]layer.Offering, 0, len(f.Offerings))
	for i, raw := range f.Offerings {
		o := layer.Offering{
			Publisher:    raw.Publisher,
			Dependencies: make([]layer.Dependency, 0, len(raw.Dependencies)),
		}
		for j, d := range raw.Dependencies {
			dep, err := d.dependency()
			if err != nil {
				return nil, fmt.Errorf("offering %d (%q): dependency %d: %w", i, raw.Publisher, j, err)
			}
			o.Dependencies = append(o.Dependencies, dep)
		}
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("offering %d: %w", i, err)
		}
		out = append(out, o)
	}
	return out, nil
}

// ImportOfferings reads the offering file at path, choosing the decoder by
// extension.
func ImportOfferings(path string) ([]layer.Offering, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	offerings, err := ReadOfferings(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return offerings, nil
}

// ImportAll reads several offering files and concatenates their offerings in
// argument order.
func ImportAll(paths []string) ([]layer.Offering, error) {
	var all []layer.Offering
	for _, p := range paths {
		offerings, err := ImportOfferings(p)
		if err != nil {
			return nil, err
		}
		all = append(all, offerings...)
	}
	return all, nil
}
