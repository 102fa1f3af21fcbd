package api

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// OutputFormat names a rendering for command responses.
type OutputFormat string

const (
	FormatYAML OutputFormat = "yaml"
	FormatJSON OutputFormat = "json"
)

// current is selected once by the root command's --output flag.
var current = FormatYAML

// SetOutputFormat selects the format used by Output. Unrecognized names
// fall back to YAML.
func SetOutputFormat(name string) {
	switch f := OutputFormat(name); f {
	case FormatJSON, FormatYAML:
		current = f
	default:
		current = FormatYAML
	}
}

// GetOutputFormat returns the selected format.
func GetOutputFormat() OutputFormat {
	return current
}

// Output renders v to stdout in the selected format. Endpoint commands
// route their responses through here so --output behaves uniformly.
func Output(v any) error {
	return Render(os.Stdout, current, v)
}

// Render writes v to w in the given format.
func Render(w io.Writer, format OutputFormat, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
