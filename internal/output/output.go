// Package output renders command results as YAML or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat = FormatYAML

// PrettyOutput enables indented JSON.
var PrettyOutput bool

// Stdout receives everything Print writes.
var Stdout io.Writer = os.Stdout

// ParseFormat resolves a --format value. An empty value picks JSON when
// stdout is piped and YAML on a terminal.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "":
		if IsOutputPiped() {
			return FormatJSON, nil
		}
		return FormatYAML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported format: %s (use yaml or json)", s)
}

// IsOutputPiped reports whether stdout is not a terminal.
func IsOutputPiped() bool {
	return !term.IsTerminal(int(os.Stdout.Fd()))
}

// Print serializes v to Stdout in the current output format.
func Print(v any) error {
	switch OutputFormat {
	case FormatJSON:
		return PrintJSON(Stdout, v, PrettyOutput)
	case FormatYAML:
		return PrintYAML(Stdout, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v as JSON, indented when pretty is set.
func PrintJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// PrintYAML serializes v as YAML.
func PrintYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
