// Package export writes layout reports in machine and human readable formats.
package export

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for unknown format names.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format represents an export format
type Format string

const (
	// FormatJSON exports the report as indented JSON
	FormatJSON Format = "json"
	// FormatYAML exports the report as YAML
	FormatYAML Format = "yaml"
	// FormatText exports a drawing followed by position and issue tables
	FormatText Format = "text"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a report to the target format
	Export(r *Report) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatYAML:
		return NewYAMLExporter(), nil
	case FormatText:
		return NewTextExporter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatText}
}
