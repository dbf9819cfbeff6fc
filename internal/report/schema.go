package report

import (
	"fmt"
	"io"
	"strings"

	"etlcheck/internal/schema"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderSchema lists the tables of a fetched schema. With columns set the
// table format prints one row per column instead of one per table.
func RenderSchema(w io.Writer, db *schema.Database, format Format, columns bool) error {
	if db == nil {
		db = &schema.Database{Tables: []*schema.Table{}}
	}
	switch format {
	case FormatJSON:
		return renderJSON(w, db)
	case FormatYAML:
		return renderYAML(w, db)
	case FormatTable, FormatMarkdown:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	t := table.NewWriter()
	if columns {
		t.AppendHeader(table.Row{"Table", "Column", "Type", "Nullable", "Max Length", "Key"})
		for _, tbl := range db.Tables {
			for _, c := range tbl.Columns {
				t.AppendRow(table.Row{tbl.FullName, c.Name, c.DataType, yn(c.IsNullable), maxLength(c), keyMark(tbl, c.Name)})
			}
		}
	} else {
		t.AppendHeader(table.Row{"Table", "Columns", "Primary Key", "Foreign Keys"})
		for _, tbl := range db.Tables {
			fks := make([]string, len(tbl.ForeignKeys))
			for i, fk := range tbl.ForeignKeys {
				fks[i] = fmt.Sprintf("%s -> %s.%s", fk.Column, fk.RefTable, fk.RefColumn)
			}
			t.AppendRow(table.Row{tbl.FullName, len(tbl.Columns), strings.Join(tbl.PrimaryKey, ", "), strings.Join(fks, ", ")})
		}
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d tables", db.TableCount()), fmt.Sprintf("%d columns", db.ColumnCount())})

	var out string
	if format == FormatMarkdown {
		out = t.RenderMarkdown()
	} else {
		t.SetStyle(table.StyleLight)
		out = t.Render()
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

func yn(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

func maxLength(c *schema.Column) string {
	if c.MaxLength == nil {
		return ""
	}
	return fmt.Sprint(*c.MaxLength)
}

func keyMark(t *schema.Table, column string) string {
	for _, pk := range t.PrimaryKey {
		if strings.EqualFold(pk, column) {
			return "PK"
		}
	}
	for _, fk := range t.ForeignKeys {
		if strings.EqualFold(fk.Column, column) {
			return "FK"
		}
	}
	return ""
}
