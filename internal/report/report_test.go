package report_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"etlcheck/internal/classify"
	"etlcheck/internal/mapping"
	"etlcheck/internal/report"
	"etlcheck/internal/schema"
	"etlcheck/internal/testgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func analysis() *testgen.Analysis {
	return &testgen.Analysis{
		TestCases: []testgen.TestCase{
			{
				Name:      "Row Count Validation - dw.Customer",
				SourceSQL: "SELECT COUNT(*) AS row_count FROM [dbo].[Customer] s",
				TargetSQL: "SELECT COUNT(*) AS row_count FROM [dw].[Customer] t",
				Category:  testgen.CategoryGeneral,
				Severity:  testgen.SeverityCritical,
			},
			{
				Name:      "Business Rule Validation - dw.Customer.FullName <- dbo.Customer.Name",
				SourceSQL: "SELECT TOP 1000 UPPER(s.[Name]) AS [FullName] FROM [dbo].[Customer] s ORDER BY 1",
				TargetSQL: "SELECT TOP 1000 t.[FullName] FROM [dw].[Customer] t ORDER BY 1",
				Category:  testgen.CategoryBusinessRule,
				Severity:  testgen.SeverityMajor,
			},
		},
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestBuild(t *testing.T) {
	recs := report.Build(analysis(), sequentialIDs())

	require.Len(t, recs, 2)
	assert.Equal(t, "id-1", recs[0].ID)
	assert.Equal(t, "id-2", recs[1].ID)
	assert.Len(t, recs[0].Fingerprint, 16)
	assert.NotEqual(t, recs[0].Fingerprint, recs[1].Fingerprint)
	assert.Equal(t, "Row Count Validation - dw.Customer", recs[0].Name)
}

func TestBuild_DefaultIDs(t *testing.T) {
	recs := report.Build(analysis(), nil)
	require.Len(t, recs, 2)
	assert.Len(t, recs[0].ID, 36)
	assert.NotEqual(t, recs[0].ID, recs[1].ID)
	assert.Empty(t, report.Build(nil, nil))
}

func TestFingerprint_Stable(t *testing.T) {
	tc := analysis().TestCases[0]
	first := report.Fingerprint(tc)

	tc.Description = "changed"
	tc.Severity = testgen.SeverityMinor
	assert.Equal(t, first, report.Fingerprint(tc))

	tc.TargetSQL += " WHERE 1 = 1"
	assert.NotEqual(t, first, report.Fingerprint(tc))
}

func TestParseFormat(t *testing.T) {
	tests := map[string]report.Format{
		"":         report.FormatTable,
		"TABLE":    report.FormatTable,
		"md":       report.FormatMarkdown,
		"markdown": report.FormatMarkdown,
		"json":     report.FormatJSON,
		"yml":      report.FormatYAML,
	}
	for in, want := range tests {
		got, err := report.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := report.ParseFormat("xml")
	assert.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, report.Build(analysis(), sequentialIDs()), report.FormatJSON))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "id-1", got[0]["id"])
	assert.Equal(t, "Row Count Validation - dw.Customer", got[0]["name"])
	assert.Equal(t, "business_rule", got[1]["category"])
	assert.Contains(t, buf.String(), "\n  {")
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, report.Build(analysis(), sequentialIDs()), report.FormatYAML))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "id-2", got[1]["id"])
	assert.Equal(t, "major", got[1]["severity"])
}

func TestRender_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, report.Build(analysis(), sequentialIDs()), report.FormatTable))

	out := buf.String()
	assert.Contains(t, out, "Row Count Validation - dw.Customer")
	// footers render upper-cased in the light style
	assert.Contains(t, strings.ToLower(out), "2 tests")
	assert.Contains(t, strings.ToLower(out), "general 1, business_rule 1")
	assert.Contains(t, out, "┌")
}

func TestRender_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, nil, report.FormatTable))
	assert.Equal(t, "(0 tests)\n", buf.String())
}

func TestRender_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, report.Build(analysis(), sequentialIDs()), report.FormatMarkdown))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# ETL Test Suite\n"))
	assert.Contains(t, strings.ToLower(out), "| # | name |")
	assert.Contains(t, out, "## 2. Business Rule Validation - dw.Customer.FullName <- dbo.Customer.Name")
	assert.Contains(t, out, "```sql\nSELECT TOP 1000 UPPER(s.[Name]) AS [FullName] FROM [dbo].[Customer] s ORDER BY 1\n```")
}

func TestRender_UnknownFormat(t *testing.T) {
	err := report.Render(&bytes.Buffer{}, nil, report.Format("xml"))
	assert.ErrorIs(t, err, report.ErrUnknownFormat)
}

func parsedSheet() *mapping.Sheet {
	return &mapping.Sheet{
		SourceTables: []string{"dbo.Customer"},
		TargetTables: []string{"dw.Customer"},
		Format:       mapping.FormatStandard,
		Rules:        []string{"UPPER(Name)"},
		Mappings: []mapping.Mapping{
			{SourceTable: "dbo.Customer", SourceColumn: "CustID", TargetTable: "dw.Customer", TargetColumn: "CustomerID",
				TransformationType: classify.DirectMove, Complexity: classify.Simple, IsKey: true},
			{SourceTable: "dbo.Customer", SourceColumn: "Name", TargetTable: "dw.Customer", TargetColumn: "FullName",
				TransformationLogic: "UPPER(Name)", TransformationType: classify.CaseConversion, Complexity: classify.Medium},
		},
		Metadata: mapping.Metadata{TotalRows: 2, FormatConfidence: 0.9},
	}
}

func TestRenderSheet_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.RenderSheet(&buf, parsedSheet(), report.FormatTable))

	out := buf.String()
	assert.Contains(t, out, "Format: standard (confidence 0.90), 2 rows, 2 mappings")
	assert.Contains(t, out, "Source tables: dbo.Customer")
	assert.Contains(t, out, "Case conversion")
	assert.Contains(t, out, "rule: UPPER(Name)")
}

func TestRenderSheet_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.RenderSheet(&buf, parsedSheet(), report.FormatMarkdown))
	assert.Contains(t, buf.String(), "- **Confidence**: 0.90")
	assert.Contains(t, buf.String(), "- `UPPER(Name)`")
}

func TestRenderSheet_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.RenderSheet(&buf, parsedSheet(), report.FormatJSON))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "standard", got["detectedFormat"])
	assert.Len(t, got["mappings"], 2)
}

func TestRenderSheet_UnknownFormat(t *testing.T) {
	assert.ErrorIs(t, report.RenderSheet(&bytes.Buffer{}, nil, "csv"), report.ErrUnknownFormat)
}

func customerDB() *schema.Database {
	n := 50
	tbl := schema.NewTable("dbo", "Orders")
	tbl.Columns = []*schema.Column{
		{Name: "OrderID", DataType: "int"},
		{Name: "CustID", DataType: "int"},
		{Name: "Memo", DataType: "nvarchar", IsNullable: true, MaxLength: &n},
	}
	tbl.PrimaryKey = []string{"OrderID"}
	tbl.ForeignKeys = []*schema.ForeignKey{{Name: "FK_Orders_Customer", Column: "CustID", RefTable: "dbo.Customer", RefColumn: "CustID"}}
	return &schema.Database{Tables: []*schema.Table{tbl}}
}

func TestRenderSchema_Tables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.RenderSchema(&buf, customerDB(), report.FormatTable, false))

	out := buf.String()
	assert.Contains(t, out, "dbo.Orders")
	assert.Contains(t, out, "CustID -> dbo.Customer.CustID")
	assert.Contains(t, strings.ToLower(out), "1 tables")
	assert.Contains(t, strings.ToLower(out), "3 columns")
}

func TestRenderSchema_Columns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.RenderSchema(&buf, customerDB(), report.FormatMarkdown, true))

	out := buf.String()
	assert.Contains(t, out, "| dbo.Orders | OrderID | int | N |  | PK |")
	assert.Contains(t, out, "| dbo.Orders | CustID | int | N |  | FK |")
	assert.Contains(t, out, "| dbo.Orders | Memo | nvarchar | Y | 50 |  |")
}

func TestRenderSchema_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.RenderSchema(&buf, nil, report.FormatYAML, false))
	assert.Equal(t, "tables: []\n", buf.String())
}
