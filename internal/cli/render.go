package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"checksums/internal/digest"
)

type fileResult struct {
	Title     string         `json:"-" yaml:"-"`
	Path      string         `json:"path" yaml:"path"`
	Identity  string         `json:"uri" yaml:"uri"`
	Checksums []digest.Entry `json:"checksums" yaml:"checksums"`
}

func render(w io.Writer, format string, results []fileResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("write json output: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("write yaml output: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("flush yaml output: %w", err)
		}
	default:
		for i, r := range results {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}
			if _, err := fmt.Fprintf(w, "%s: %s\n", r.Title, r.Path); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			for _, e := range r.Checksums {
				if _, err := fmt.Fprintf(w, "  %-7s %s\n", e.Label, e.Value); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}
		}
	}
	return nil
}
