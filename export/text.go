package export

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
)

// TextExporter writes the drawing and plain tables for a terminal or a log.
type TextExporter struct{}

// NewTextExporter creates a new text exporter
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Export renders the report as text
func (e *TextExporter) Export(r *Report) (string, error) {
	if r == nil {
		return "", errors.New("report is nil")
	}

	var sb strings.Builder
	if r.Name != "" {
		fmt.Fprintf(&sb, "%s\n\n", r.Name)
	}
	if r.Drawing != "" {
		sb.WriteString(r.Drawing)
		sb.WriteString("\n\n")
	}

	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tTYPE\tX\tY\tDEPTH")
	for _, s := range r.Symbols {
		depth := "-"
		if s.Depth != nil {
			depth = fmt.Sprint(*s.Depth)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", s.ID, s.Kind, s.Position.X, s.Position.Y, depth)
	}
	if err := tw.Flush(); err != nil {
		return "", err
	}

	if len(r.Connections) > 0 {
		sb.WriteByte('\n')
		tw = tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CONNECTION\tFROM\tTO\tBENDS\tLENGTH\tFALLBACK")
		for _, c := range r.Connections {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%t\n", c.ID, c.From, c.To, c.Bends, c.Length, c.Fallback)
		}
		if err := tw.Flush(); err != nil {
			return "", err
		}
	}

	if len(r.Issues) > 0 {
		sb.WriteString("\nissues:\n")
		for _, issue := range r.Issues {
			fmt.Fprintf(&sb, "  %s\n", issue)
		}
	}
	return sb.String(), nil
}

// GetFileExtension returns the file extension for text
func (e *TextExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *TextExporter) GetFormatName() string {
	return "Text"
}
