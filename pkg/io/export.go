package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/vmslayers/pkg/availability"
)

// WriteReport encodes r as indented JSON.
func WriteReport(w io.Writer, r availability.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Report()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportReport writes r to a JSON file at path.
func ExportReport(path string, r availability.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteReport(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadReport decodes a report written by [WriteReport].
func ReadReport(r io.Reader) (availability.Result, error) {
	var rep availability.Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return availability.Result{}, fmt.Errorf("decode: %w", err)
	}
	return availability.FromReport(rep), nil
}
