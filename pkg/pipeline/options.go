package pipeline

import (
	"strings"

	"github.com/matzehuels/vmslayers/pkg/cache"
	"github.com/matzehuels/vmslayers/pkg/errors"
)

// Output formats for the render stage.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// Options configures a pipeline run.
type Options struct {
	// Format is the render output, FormatDOT or FormatSVG. Defaults to DOT.
	Format string
	// Detailed adds publishers and alternatives to the graph.
	Detailed bool
	// Refresh skips cache reads; fresh results are still written.
	Refresh bool
}

// ValidateAndSetDefaults normalizes the format and rejects unknown ones.
func (o *Options) ValidateAndSetDefaults() error {
	o.Format = strings.ToLower(o.Format)
	if o.Format == "" {
		o.Format = FormatDOT
	}
	return ValidateFormat(o.Format)
}

// ValidateFormat reports an ErrCodeInvalidFormat error for unknown formats.
func ValidateFormat(format string) error {
	switch format {
	case FormatDOT, FormatSVG:
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be '%s' or '%s')", format, FormatDOT, FormatSVG)
	}
}

func (o Options) graphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{Format: o.Format, Detailed: o.Detailed}
}
