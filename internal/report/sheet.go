package report

import (
	"fmt"
	"io"
	"strings"

	"etlcheck/internal/mapping"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderSheet summarizes a parse result: detected format, confidence and
// the extracted mappings.
func RenderSheet(w io.Writer, s *mapping.Sheet, format Format) error {
	if s == nil {
		s = &mapping.Sheet{}
	}
	switch format {
	case FormatJSON:
		return renderJSON(w, s)
	case FormatYAML:
		return renderYAML(w, s)
	case FormatTable, FormatMarkdown:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Source Table", "Source Column", "Target Table", "Target Column", "Type", "Complexity", "Key"})
	for i, m := range s.Mappings {
		key := ""
		if m.IsKey {
			key = "Y"
		}
		t.AppendRow(table.Row{i + 1, m.SourceTable, m.SourceColumn, m.TargetTable, m.TargetColumn,
			m.TransformationType.Label(), m.Complexity, key})
	}

	var b strings.Builder
	if format == FormatMarkdown {
		fmt.Fprintf(&b, "# Mapping Sheet\n\n- **Format**: %s\n- **Confidence**: %.2f\n- **Rows**: %d\n- **Mappings**: %d\n\n",
			s.Format, s.Metadata.FormatConfidence, s.Metadata.TotalRows, len(s.Mappings))
		b.WriteString(t.RenderMarkdown())
		b.WriteString("\n")
		if len(s.Rules) > 0 {
			b.WriteString("\n## Transformation Rules\n\n")
			for _, r := range s.Rules {
				fmt.Fprintf(&b, "- `%s`\n", r)
			}
		}
	} else {
		fmt.Fprintf(&b, "Format: %s (confidence %.2f), %d rows, %d mappings\n",
			s.Format, s.Metadata.FormatConfidence, s.Metadata.TotalRows, len(s.Mappings))
		if len(s.SourceTables) > 0 || len(s.TargetTables) > 0 {
			fmt.Fprintf(&b, "Source tables: %s\nTarget tables: %s\n",
				strings.Join(s.SourceTables, ", "), strings.Join(s.TargetTables, ", "))
		}
		t.SetStyle(table.StyleLight)
		b.WriteString(t.Render())
		b.WriteString("\n")
		for _, r := range s.Rules {
			fmt.Fprintf(&b, "rule: %s\n", r)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
