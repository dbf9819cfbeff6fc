package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"etlcheck/internal/testgen"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("unknown output format")

type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ParseFormat accepts the CLI spellings of a format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Record is a test case with its run id and content fingerprint.
type Record struct {
	ID               string `json:"id" yaml:"id"`
	Fingerprint      string `json:"fingerprint" yaml:"fingerprint"`
	testgen.TestCase `yaml:",inline"`
}

// Fingerprint identifies a test by name and SQL. It is stable across runs,
// unlike the id.
func Fingerprint(tc testgen.TestCase) string {
	h := xxh3.HashString(tc.Name + "\x00" + tc.SourceSQL + "\x00" + tc.TargetSQL)
	return fmt.Sprintf("%016x", h)
}

// Build wraps every test case of a. idFunc defaults to random UUIDs.
func Build(a *testgen.Analysis, idFunc func() string) []Record {
	if a == nil {
		return []Record{}
	}
	if idFunc == nil {
		idFunc = uuid.NewString
	}
	out := make([]Record, len(a.TestCases))
	for i, tc := range a.TestCases {
		out[i] = Record{ID: idFunc(), Fingerprint: Fingerprint(tc), TestCase: tc}
	}
	return out
}

// Render writes records in the given format.
func Render(w io.Writer, records []Record, format Format) error {
	switch format {
	case FormatTable:
		return renderTable(w, records)
	case FormatMarkdown:
		return renderMarkdown(w, records)
	case FormatJSON:
		return renderJSON(w, records)
	case FormatYAML:
		return renderYAML(w, records)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func summaryTable(records []Record) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Name", "Category", "Severity", "Fingerprint"})
	for i, r := range records {
		t.AppendRow(table.Row{i + 1, r.Name, r.Category, r.Severity, r.Fingerprint})
	}
	return t
}

func renderTable(w io.Writer, records []Record) error {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, "(0 tests)")
		return nil
	}
	t := summaryTable(records)
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 70}})
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d tests", len(records)), categoryCounts(records)})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// renderMarkdown writes the summary table followed by one section per test.
func renderMarkdown(w io.Writer, records []Record) error {
	var b strings.Builder
	b.WriteString("# ETL Test Suite\n\n")
	if len(records) == 0 {
		b.WriteString("(0 tests)\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteString(summaryTable(records).RenderMarkdown())
	b.WriteString("\n")

	for i, r := range records {
		fmt.Fprintf(&b, "\n## %d. %s\n\n", i+1, r.Name)
		fmt.Fprintf(&b, "- **Category**: %s\n- **Severity**: %s\n- **Fingerprint**: `%s`\n", r.Category, r.Severity, r.Fingerprint)
		if r.Description != "" {
			fmt.Fprintf(&b, "\n%s\n", r.Description)
		}
		fmt.Fprintf(&b, "\nSource:\n\n```sql\n%s\n```\n", r.SourceSQL)
		fmt.Fprintf(&b, "\nTarget:\n\n```sql\n%s\n```\n", r.TargetSQL)
		if r.ExpectedResult != "" {
			fmt.Fprintf(&b, "\nExpected: %s\n", r.ExpectedResult)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// categoryCounts renders "structure 3, quality 2" in first-seen order.
func categoryCounts(records []Record) string {
	var order []testgen.Category
	counts := map[testgen.Category]int{}
	for _, r := range records {
		if counts[r.Category] == 0 {
			order = append(order, r.Category)
		}
		counts[r.Category]++
	}
	parts := make([]string, len(order))
	for i, c := range order {
		parts[i] = fmt.Sprintf("%s %d", c, counts[c])
	}
	return strings.Join(parts, ", ")
}
