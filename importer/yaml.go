package importer

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"sld/diagram"
)

// YAMLImporter reads diagrams written with the diagram model's own field names.
type YAMLImporter struct {
	validate *validator.Validate
}

// NewYAMLImporter creates a YAML importer.
func NewYAMLImporter() *YAMLImporter {
	return &YAMLImporter{validate: validator.New()}
}

var yamlSymbolsKey = regexp.MustCompile(`(?m)^symbols\s*:`)

// CanImport checks for a top-level symbols key.
func (y *YAMLImporter) CanImport(content string) bool {
	return yamlSymbolsKey.MatchString(content)
}

// serviceFlags records which symbols set inService explicitly.
type serviceFlags struct {
	Symbols []struct {
		InService *bool `yaml:"inService"`
	} `yaml:"symbols"`
}

// Import decodes and validates a diagram. Symbols without an inService key are in
// service.
func (y *YAMLImporter) Import(content string) (*diagram.Diagram, error) {
	var d diagram.Diagram
	dec := yaml.NewDecoder(strings.NewReader(content), yaml.Validator(y.validate))
	if err := dec.Decode(&d); err != nil {
		return nil, &ParseError{Format: y.GetFormatName(), Err: err}
	}

	var flags serviceFlags
	if err := yaml.Unmarshal([]byte(content), &flags); err != nil {
		return nil, &ParseError{Format: y.GetFormatName(), Err: err}
	}
	for i := range d.Symbols {
		if i < len(flags.Symbols) && flags.Symbols[i].InService == nil {
			d.Symbols[i].InService = true
		}
	}
	return &d, nil
}

// GetFormatName returns the format name.
func (y *YAMLImporter) GetFormatName() string {
	return "yaml"
}

// GetFileExtensions returns the YAML file extensions.
func (y *YAMLImporter) GetFileExtensions() []string {
	return []string{".yaml", ".yml"}
}
