package importer

import (
	"errors"
	"fmt"
	"strings"

	"sld/diagram"
	"sld/markdown"
)

// ErrNoDiagramBlock is returned when a markdown document holds no diagram block.
var ErrNoDiagramBlock = errors.New("no diagram block found")

// MarkdownImporter imports a diagram embedded in a markdown document as a fenced
// ```sld (YAML) or ```sld-hcl block.
type MarkdownImporter struct {
	// Block selects which distinct diagram block to import, 1-based. Zero means the
	// first.
	Block int

	formats map[string]Importer
}

// NewMarkdownImporter creates a markdown importer.
func NewMarkdownImporter() *MarkdownImporter {
	return &MarkdownImporter{
		formats: map[string]Importer{
			"yaml": NewYAMLImporter(),
			"hcl":  NewHCLImporter(),
		},
	}
}

// CanImport checks for at least one diagram block.
func (m *MarkdownImporter) CanImport(content string) bool {
	return len(markdown.NewScanner(content).FindDiagramBlocks()) > 0
}

// Import decodes the selected block with the importer for its format. Blocks that
// repeat an earlier one are not counted.
func (m *MarkdownImporter) Import(content string) (*diagram.Diagram, error) {
	blocks := markdown.Unique(markdown.NewScanner(content).FindDiagramBlocks())
	if len(blocks) == 0 {
		return nil, ErrNoDiagramBlock
	}

	index := max(m.Block, 1) - 1
	if index >= len(blocks) {
		available := make([]string, len(blocks))
		for i, b := range blocks {
			available[i] = markdown.FormatBlockInfo(b, i)
		}
		return nil, fmt.Errorf("%w: block %d of %d\n%s", ErrNoDiagramBlock, m.Block, len(blocks), strings.Join(available, "\n"))
	}

	block := blocks[index]
	d, err := m.formats[block.Format].Import(block.Content)
	if err != nil {
		return nil, fmt.Errorf("block at line %d: %w", block.StartLine+1, err)
	}
	return d, nil
}

// GetFormatName returns the format name.
func (m *MarkdownImporter) GetFormatName() string {
	return "markdown"
}

// GetFileExtensions returns the markdown file extensions.
func (m *MarkdownImporter) GetFileExtensions() []string {
	return []string{".md", ".markdown"}
}
