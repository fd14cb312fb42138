package export

import (
	"errors"

	"github.com/goccy/go-yaml"
)

// YAMLExporter exports reports to YAML format
type YAMLExporter struct{}

// NewYAMLExporter creates a new YAML exporter
func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

// Export converts a report to YAML
func (e *YAMLExporter) Export(r *Report) (string, error) {
	if r == nil {
		return "", errors.New("report is nil")
	}
	data, err := yaml.MarshalWithOptions(r, yaml.IndentSequence(true))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetFileExtension returns the file extension for YAML
func (e *YAMLExporter) GetFileExtension() string {
	return ".yaml"
}

// GetFormatName returns the format name
func (e *YAMLExporter) GetFormatName() string {
	return "YAML"
}
