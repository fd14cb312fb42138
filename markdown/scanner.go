// Package markdown finds diagram code blocks embedded in markdown documents.
package markdown

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DiagramBlock represents a diagram code block found in markdown
type DiagramBlock struct {
	Format      string // yaml or hcl
	Content     string // block body with the fence indentation removed
	StartLine   int    // line of the opening fence (0-based)
	EndLine     int    // line of the closing fence
	Indent      string // indentation before the code fence
	ContentHash uint64 // xxhash of Content
}

// Scanner finds and extracts diagram blocks from markdown content
type Scanner struct {
	lines []string
}

// NewScanner creates a new markdown scanner
func NewScanner(content string) *Scanner {
	return &Scanner{lines: strings.Split(content, "\n")}
}

// FindDiagramBlocks returns the diagram blocks in document order. An unterminated
// block is ignored.
func (s *Scanner) FindDiagramBlocks() []DiagramBlock {
	var blocks []DiagramBlock
	var current *DiagramBlock
	var body []string

	for i, line := range s.lines {
		trimmed := strings.TrimLeft(line, " \t")
		if current == nil {
			if !strings.HasPrefix(trimmed, "```") {
				continue
			}
			format, ok := diagramFormat(strings.TrimSpace(strings.TrimPrefix(trimmed, "```")))
			if !ok {
				continue
			}
			current = &DiagramBlock{
				Format:    format,
				StartLine: i,
				Indent:    line[:len(line)-len(trimmed)],
			}
			body = body[:0]
			continue
		}

		if strings.HasPrefix(trimmed, "```") {
			current.EndLine = i
			current.Content = strings.Join(body, "\n")
			current.ContentHash = xxhash.Sum64String(current.Content)
			blocks = append(blocks, *current)
			current = nil
			continue
		}
		body = append(body, strings.TrimPrefix(line, current.Indent))
	}

	return blocks
}

// Unique drops blocks that repeat an earlier block's format and content, so a
// diagram quoted twice in one document is numbered once.
func Unique(blocks []DiagramBlock) []DiagramBlock {
	type key struct {
		format string
		hash   uint64
	}
	seen := make(map[key]bool, len(blocks))
	out := make([]DiagramBlock, 0, len(blocks))
	for _, b := range blocks {
		k := key{b.Format, b.ContentHash}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, b)
	}
	return out
}

// diagramFormat maps a fence info string to an importer format. Only blocks tagged
// for this tool are picked up so that unrelated yaml in a document is left alone.
func diagramFormat(info string) (string, bool) {
	switch strings.ToLower(info) {
	case "sld", "sld-yaml", "sld yaml":
		return "yaml", true
	case "sld-hcl", "sld hcl":
		return "hcl", true
	default:
		return "", false
	}
}

// FormatBlockInfo returns a human-readable description of a block
func FormatBlockInfo(block DiagramBlock, index int) string {
	preview := ""
	for _, line := range strings.Split(block.Content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			preview = trimmed
			if len(preview) > 50 {
				preview = preview[:47] + "..."
			}
			break
		}
	}

	return fmt.Sprintf("%d. %s (line %d): %s", index+1, block.Format, block.StartLine+1, preview)
}
