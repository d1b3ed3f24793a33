package availability

import "github.com/matzehuels/vmslayers/pkg/layer"

// Report is the serializable form of a [Result].
type Report struct {
	Available   []layer.Layer `json:"available"`
	Unavailable []layer.Layer `json:"unavailable"`
	Missing     []layer.Layer `json:"missing"`
	Passes      int           `json:"passes"`
}

// Report converts r into its serializable form. Slices are sorted and never nil.
func (r Result) Report() Report {
	return Report{
		Available:   r.Available(),
		Unavailable: r.Unavailable(),
		Missing:     r.Missing(),
		Passes:      r.passes,
	}
}

// FromReport rebuilds a Result from its serialized form.
func FromReport(rep Report) Result {
	return Result{
		available:   layer.NewSet(rep.Available...),
		unavailable: layer.NewSet(rep.Unavailable...),
		missing:     layer.NewSet(rep.Missing...),
		passes:      rep.Passes,
	}
}
