package engine_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"etlcheck/internal/catalog"
	"etlcheck/internal/engine"
	"etlcheck/internal/mapping"
	"etlcheck/internal/schema"
	"etlcheck/internal/sheet"
	"etlcheck/internal/testgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func scenarioRows() []sheet.Row {
	return []sheet.Row{
		sheet.NewRow(
			"Source Table", "dbo.Customer",
			"Source Field", "CustID",
			"Target Table", "dw.Customer",
			"Target Field", "CustomerID",
			"Transformation Logic", "Direct Move",
		),
		sheet.NewRow(
			"Source Table", "dbo.Customer",
			"Source Field", "Name",
			"Target Table", "dw.Customer",
			"Target Field", "FullName",
			"Transformation Logic", "UPPER(Name)",
		),
	}
}

func customerDB() *schema.Database {
	t := schema.NewTable("dbo", "Customer")
	t.Columns = []*schema.Column{{Name: "CustID", DataType: "int"}, {Name: "Name", DataType: "nvarchar"}}
	t.PrimaryKey = []string{"CustID"}
	return &schema.Database{Tables: []*schema.Table{t}}
}

func newEngine(calls *int32) *engine.Engine {
	fetch := catalog.FetcherFunc(func(ctx context.Context, id string) (*schema.Database, error) {
		atomic.AddInt32(calls, 1)
		if id == "src" {
			return customerDB(), nil
		}
		return nil, errors.New("agent unreachable")
	})
	conns := catalog.Connections{
		{Name: "src", Driver: "sqlserver", Dialect: "mssql"},
		{Name: "tgt", Driver: "postgres"},
	}
	return engine.New(catalog.New(fetch), conns, zap.NewNop())
}

func TestRun_NoRows(t *testing.T) {
	var calls int32
	_, err := newEngine(&calls).Run(context.Background(), engine.Request{})
	assert.ErrorIs(t, err, engine.ErrNoRows)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestRun_EmptySheet(t *testing.T) {
	var calls int32
	res, err := newEngine(&calls).Run(context.Background(), engine.Request{Rows: []sheet.Row{}})
	require.NoError(t, err)
	assert.Equal(t, mapping.FormatGeneric, res.Sheet.Format)
	assert.Empty(t, res.Analysis.TestCases)
}

func TestRun_SchemaFailureIsFailOpen(t *testing.T) {
	var calls int32
	var progress []int

	res, err := newEngine(&calls).Run(context.Background(), engine.Request{
		Rows:             scenarioRows(),
		SourceConnection: "src",
		TargetConnection: "tgt",
		PipelineName:     "nightly",
		Suite: testgen.SuiteOptions{
			Audit:    true,
			Progress: func(_ mapping.TablePair, done, total int) { progress = append(progress, done*10+total) },
		},
	})

	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.NotNil(t, res.SourceSchema)
	assert.Nil(t, res.TargetSchema)
	assert.Equal(t, []int{11}, progress)

	require.Len(t, res.Sheet.Mappings, 2)
	assert.True(t, res.Sheet.Mappings[0].IsKey)
	assert.Equal(t, "int", res.Sheet.Mappings[0].SourceDataType)

	var rowCount *testgen.TestCase
	for i, tc := range res.Analysis.TestCases {
		if tc.Name == "Row Count Validation - dw.Customer" {
			rowCount = &res.Analysis.TestCases[i]
		}
	}
	require.NotNil(t, rowCount)
	// source dialect is explicit, target falls back to the driver name
	assert.Equal(t, "SELECT COUNT(*) AS row_count FROM [dbo].[Customer] s", rowCount.SourceSQL)
	assert.Equal(t, `SELECT COUNT(*) AS row_count FROM "dw"."Customer" t`, rowCount.TargetSQL)

	last := res.Analysis.TestCases[len(res.Analysis.TestCases)-1]
	assert.Equal(t, "Reject Count Check - nightly", last.Name)
}

func TestRun_ExplicitDialectWins(t *testing.T) {
	var calls int32
	res, err := newEngine(&calls).Run(context.Background(), engine.Request{
		Rows:             scenarioRows(),
		TargetConnection: "tgt",
		TargetDialect:    "mysql",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Analysis.TestCases)
	assert.Contains(t, res.Analysis.TestCases[1].TargetSQL, "`dw`.`Customer`")
}

func TestRun_WithoutCatalog(t *testing.T) {
	e := engine.New(nil, nil, nil)
	res, err := e.Run(context.Background(), engine.Request{Rows: scenarioRows(), SourceConnection: "src"})
	require.NoError(t, err)
	assert.Nil(t, res.SourceSchema)
	assert.Len(t, res.Analysis.BusinessRules, 1)
}
