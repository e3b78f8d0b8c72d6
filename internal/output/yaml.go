package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dsablic/repomaint/internal/model"
)

// WriteYAML writes the report as YAML to w.
func WriteYAML(w io.Writer, report model.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(displayed(report)); err != nil {
		return err
	}
	return enc.Close()
}
