// Package output provides output formatting.
// This package produces human and machine-readable analyses.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	md "github.com/nao1215/markdown"

	"reservation-analysis/core/engine"
	"reservation-analysis/core/report"
	"reservation-analysis/core/types"
	"reservation-analysis/core/ui"
	"reservation-analysis/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatTable is a human-readable CLI table
	FormatTable Format = "table"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatYAML is machine-readable YAML
	FormatYAML Format = "yaml"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"
)

// Formats returns every supported format
func Formats() []Format {
	return []Format{FormatTable, FormatJSON, FormatYAML, FormatMarkdown}
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given analysis
	Render(w io.Writer, analysis *engine.Analysis) error
}

// Options configure formatters
type Options struct {
	NoColor bool
}

// New returns the formatter for format
func New(format Format, opts Options) (Formatter, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatTable, "":
		return &TableFormatter{NoColor: opts.NoColor}, nil
	case FormatJSON:
		return JSONFormatter{}, nil
	case FormatYAML, "yml":
		return YAMLFormatter{}, nil
	case FormatMarkdown, "md":
		return MarkdownFormatter{}, nil
	}
	return nil, errors.Newf(errors.TypeInput, "unsupported output format %q", format)
}

// JSONFormatter renders the whole analysis as indented JSON
type JSONFormatter struct{}

// Format implements Formatter
func (JSONFormatter) Format() Format { return FormatJSON }

// Render implements Formatter
func (JSONFormatter) Render(w io.Writer, analysis *engine.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(analysis)
}

// YAMLFormatter renders the whole analysis as YAML
type YAMLFormatter struct{}

// Format implements Formatter
func (YAMLFormatter) Format() Format { return FormatYAML }

// Render implements Formatter
func (YAMLFormatter) Render(w io.Writer, analysis *engine.Analysis) error {
	data, err := yaml.Marshal(analysis)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// TableFormatter renders rows as a colored terminal table
type TableFormatter struct {
	NoColor bool
}

// Format implements Formatter
func (*TableFormatter) Format() Format { return FormatTable }

// Render implements Formatter
func (f *TableFormatter) Render(w io.Writer, analysis *engine.Analysis) error {
	out := ui.NewWriter(w, f.NoColor)
	out.Header("Reservation Analysis")
	out.Println("Subscription: %s", analysis.SubscriptionID)
	out.Println("Generated:    %s", analysis.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	out.Println("")

	if len(analysis.Rows) == 0 {
		out.Info("No virtual machines or eligible reservations found")
		return nil
	}

	table := out.NewTable(rowHeaders()...).AlignRight(2, 3, 4, 5)
	for _, row := range analysis.Rows {
		table.AddColoredRow(StatusColor(row.Status), rowCells(row)...)
	}
	table.Render()

	s := analysis.Summary
	out.Println("")
	out.SubHeader("Summary")
	out.Println("  Buckets:   %d", s.Buckets)
	out.Println("  Actual:    %d", s.TotalActual)
	out.Println("  Reserved:  %d", s.TotalReserved)
	out.Println("  Gap:       %d", s.TotalGap)
	out.Println("  Coverage:  %d%%", s.Coverage)
	for _, status := range types.AllStatuses() {
		if n := s.ByStatus[status]; n > 0 {
			out.Println("  %s %d", out.Color(StatusColor(status), fmt.Sprintf("%-20s", string(status)+":")), n)
		}
	}
	return nil
}

// StatusColor maps a status to its terminal color
func StatusColor(s types.Status) string {
	switch s {
	case types.StatusPerfectMatch:
		return ui.Green
	case types.StatusUnderReserved:
		return ui.Yellow
	case types.StatusOverReserved:
		return ui.Red
	}
	return ui.Dim
}

// MarkdownFormatter renders a markdown report
type MarkdownFormatter struct{}

// Format implements Formatter
func (MarkdownFormatter) Format() Format { return FormatMarkdown }

// Render implements Formatter
func (MarkdownFormatter) Render(w io.Writer, analysis *engine.Analysis) error {
	rows := make([][]string, 0, len(analysis.Rows))
	for _, row := range analysis.Rows {
		rows = append(rows, rowCells(row))
	}

	s := analysis.Summary
	doc := md.NewMarkdown(w).
		H2("Reservation Analysis").
		PlainTextf("Subscription %s, generated %s", md.Code(analysis.SubscriptionID), analysis.GeneratedAt.Format("2006-01-02T15:04:05Z07:00")).
		LF().
		Table(md.TableSet{Header: rowHeaders(), Rows: rows}).
		H3("Summary").
		BulletList(summaryLines(s)...)
	return doc.Build()
}

func summaryLines(s report.Summary) []string {
	lines := []string{
		fmt.Sprintf("Buckets: %d", s.Buckets),
		fmt.Sprintf("Actual: %d", s.TotalActual),
		fmt.Sprintf("Reserved: %d", s.TotalReserved),
		fmt.Sprintf("Gap: %d", s.TotalGap),
		fmt.Sprintf("Coverage: %d%%", s.Coverage),
	}
	for _, status := range types.AllStatuses() {
		if n := s.ByStatus[status]; n > 0 {
			lines = append(lines, fmt.Sprintf("%s: %d", status, n))
		}
	}
	return lines
}

func rowHeaders() []string {
	return []string{"VM Size", "Location", "Actual", "Reserved", "Gap", "Coverage", "Status"}
}

func rowCells(row types.AnalysisRow) []string {
	return []string{
		row.SizeClass,
		row.Location,
		fmt.Sprint(row.Actual),
		fmt.Sprint(row.Reserved),
		fmt.Sprint(row.Gap),
		fmt.Sprintf("%d%%", row.Coverage),
		string(row.Status),
	}
}
