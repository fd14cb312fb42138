package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"

	"sld/config"
	"sld/export"
	"sld/geometry"
	"sld/importer"
	"sld/terminal"
	"sld/validation"
)

// errIssues marks a run that finished but found error-level issues.
var errIssues = errors.New("diagram has errors")

func main() {
	var (
		configFile = flag.String("config", "", "Engine configuration file (YAML)")
		format     = flag.String("format", "text", "Report format: json, yaml, text")
		outputFile = flag.String("o", "", "Output file (default: stdout)")
		view       = flag.Bool("view", false, "Open the diagram in a terminal viewer")
		verbose    = flag.Bool("v", false, "Debug logging")
		noColor    = flag.Bool("no-color", false, "Disable colored diagnostics")
		help       = flag.Bool("help", false, "Show help")
		moves      moveList
	)
	flag.Var(&moves, "move", "Drop a symbol at a point after layout, snapping to nearby ports: id=x,y (repeatable)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] diagram.{yaml,hcl}\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Lays out a single-line diagram, routes its connections and reports the result.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s station.yaml                      # Drawing and tables to stdout\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -format json -o out.json station.hcl\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -config engine.yaml -view station.yaml\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -move sym-load=200,320 station.yaml\n", os.Args[0])
	}

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: Please provide one diagram file\n\n")
		flag.Usage()
		os.Exit(1)
	}

	color.NoColor = *noColor || !isatty.IsTerminal(os.Stderr.Fd())

	err := run(options{
		diagramFile: flag.Arg(0),
		configFile:  *configFile,
		format:      *format,
		outputFile:  *outputFile,
		view:        *view,
		verbose:     *verbose,
		moves:       moves,
	}, os.Stdout, os.Stderr)
	switch {
	case errors.Is(err, errIssues):
		os.Exit(2)
	case err != nil:
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	diagramFile string
	configFile  string
	format      string
	outputFile  string
	view        bool
	verbose     bool
	moves       moveList
}

// move is one -move flag: a symbol id and the point it is dropped at.
type move struct {
	symbolID string
	to       geometry.Point
}

type moveList []move

func (m *moveList) String() string {
	parts := make([]string, len(*m))
	for i, mv := range *m {
		parts[i] = fmt.Sprintf("%s=%d,%d", mv.symbolID, mv.to.X, mv.to.Y)
	}
	return strings.Join(parts, " ")
}

// Set parses "id=x,y".
func (m *moveList) Set(value string) error {
	id, point, ok := strings.Cut(value, "=")
	if !ok || id == "" {
		return fmt.Errorf("expected id=x,y, got %q", value)
	}
	xs, ys, ok := strings.Cut(point, ",")
	if !ok {
		return fmt.Errorf("expected id=x,y, got %q", value)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return fmt.Errorf("x of %q: %w", value, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return fmt.Errorf("y of %q: %w", value, err)
	}
	*m = append(*m, move{symbolID: id, to: geometry.Point{X: x, Y: y}})
	return nil
}

func run(opts options, stdout, stderr io.Writer) error {
	cfg := config.Default()
	if opts.configFile != "" {
		var err error
		if cfg, err = config.Load(opts.configFile); err != nil {
			return err
		}
	}

	level := cfg.LogLevel()
	if opts.verbose {
		level = hclog.Debug
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "sld",
		Level:  level,
		Output: stderr,
		Color:  hclog.AutoColor,
	})

	d, err := importer.NewImporterRegistry().ImportFile(opts.diagramFile)
	if err != nil {
		return err
	}

	renderer, err := NewRenderer(cfg, logger)
	if err != nil {
		return err
	}
	out, err := renderer.Render(d)
	if err != nil {
		return err
	}
	for _, mv := range opts.moves {
		if out, err = renderer.Move(out, mv.symbolID, mv.to); err != nil {
			return err
		}
	}

	if opts.view {
		if err := viewDiagram(out, titleFor(d.Metadata.Name, opts.diagramFile)); err != nil {
			return err
		}
	} else if err := writeReport(out, opts.format, opts.outputFile, stdout); err != nil {
		return err
	}

	printIssues(stderr, out.Issues)
	if validation.Count(out.Issues, validation.SeverityError) > 0 {
		return errIssues
	}
	return nil
}

func writeReport(out *Output, format, outputFile string, stdout io.Writer) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, export.GetAvailableFormats())
	}
	exporter, err := export.NewExporter(f)
	if err != nil {
		return err
	}
	text, err := exporter.Export(out.Report())
	if err != nil {
		return fmt.Errorf("export %s: %w", exporter.GetFormatName(), err)
	}

	if outputFile == "" {
		_, err = io.WriteString(stdout, text)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func viewDiagram(out *Output, title string) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer screen.Fini()

	return terminal.NewViewer(screen, out.Matrix, title).Run()
}

func titleFor(name, path string) string {
	if name != "" {
		return name
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// printIssues writes one line per issue, colored by severity.
func printIssues(w io.Writer, issues []validation.Issue) {
	for _, issue := range issues {
		c := color.New(color.FgBlue)
		switch issue.Severity {
		case validation.SeverityError:
			c = color.New(color.FgRed)
		case validation.SeverityWarning:
			c = color.New(color.FgYellow)
		}
		c.Fprintf(w, "%-7s", issue.Severity)
		fmt.Fprintf(w, " [%s] %s\n", issue.Code, issue.Message)
	}
}
