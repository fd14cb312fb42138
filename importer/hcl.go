package importer

import (
	"regexp"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"sld/diagram"
	"sld/geometry"
)

// HCLImporter reads diagrams written as symbol and connection blocks:
//
//	symbol "sym-bus" {
//	  element_id = "bus"
//	  type       = "bus"
//	  voltage_kv = 110
//	}
//
//	connection "c1" {
//	  from_symbol = "sym-bus"
//	  from_port   = "bottom"
//	  to_symbol   = "sym-load"
//	  to_port     = "top"
//	}
type HCLImporter struct{}

// NewHCLImporter creates an HCL importer.
func NewHCLImporter() *HCLImporter {
	return &HCLImporter{}
}

type hclDiagramFile struct {
	Name        string          `hcl:"name,optional"`
	Version     string          `hcl:"version,optional"`
	Symbols     []hclSymbol     `hcl:"symbol,block"`
	Connections []hclConnection `hcl:"connection,block"`
}

type hclSymbol struct {
	ID          string  `hcl:"id,label"`
	ElementID   string  `hcl:"element_id"`
	Type        string  `hcl:"type"`
	Name        string  `hcl:"name,optional"`
	X           int     `hcl:"x,optional"`
	Y           int     `hcl:"y,optional"`
	Rotation    int     `hcl:"rotation,optional"`
	InService   *bool   `hcl:"in_service,optional"`
	Width       int     `hcl:"width,optional"`
	Height      int     `hcl:"height,optional"`
	VoltageKV   float64 `hcl:"voltage_kv,optional"`
	From        string  `hcl:"from,optional"`
	To          string  `hcl:"to,optional"`
	ConnectedTo string  `hcl:"connected_to,optional"`
}

type hclConnection struct {
	ID         string `hcl:"id,label"`
	FromSymbol string `hcl:"from_symbol"`
	FromPort   string `hcl:"from_port"`
	ToSymbol   string `hcl:"to_symbol"`
	ToPort     string `hcl:"to_port"`
	ElementID  string `hcl:"element_id,optional"`
}

var hclBlockStart = regexp.MustCompile(`(?m)^\s*(symbol|connection)\s+"[^"]*"\s*\{`)

// CanImport checks for a symbol or connection block.
func (h *HCLImporter) CanImport(content string) bool {
	return hclBlockStart.MatchString(content)
}

// Import parses and decodes the blocks into a diagram.
func (h *HCLImporter) Import(content string) (*diagram.Diagram, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL([]byte(content), "diagram.hcl")
	if diags.HasErrors() {
		return nil, &ParseError{Format: h.GetFormatName(), Err: diags}
	}

	var parsed hclDiagramFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, &ParseError{Format: h.GetFormatName(), Err: diags}
	}

	d := &diagram.Diagram{
		Metadata: diagram.Metadata{Name: parsed.Name, Version: parsed.Version},
	}
	for _, s := range parsed.Symbols {
		kind, err := diagram.ParseKind(s.Type)
		if err != nil {
			return nil, &ParseError{Format: h.GetFormatName(), Err: err}
		}
		inService := true
		if s.InService != nil {
			inService = *s.InService
		}
		d.Symbols = append(d.Symbols, diagram.Symbol{
			ID:                s.ID,
			ElementID:         s.ElementID,
			Kind:              kind,
			Name:              s.Name,
			Position:          geometry.Point{X: s.X, Y: s.Y},
			Rotation:          s.Rotation,
			InService:         inService,
			Width:             s.Width,
			Height:            s.Height,
			VoltageKV:         s.VoltageKV,
			FromNodeID:        s.From,
			ToNodeID:          s.To,
			ConnectedToNodeID: s.ConnectedTo,
		})
	}
	for _, c := range parsed.Connections {
		d.Connections = append(d.Connections, diagram.Connection{
			ID:           c.ID,
			FromSymbolID: c.FromSymbol,
			FromPort:     c.FromPort,
			ToSymbolID:   c.ToSymbol,
			ToPort:       c.ToPort,
			ElementID:    c.ElementID,
		})
	}
	return d, nil
}

// GetFormatName returns the format name.
func (h *HCLImporter) GetFormatName() string {
	return "hcl"
}

// GetFileExtensions returns the HCL file extension.
func (h *HCLImporter) GetFileExtensions() []string {
	return []string{".hcl"}
}
