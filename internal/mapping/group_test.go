package mapping

import (
	"testing"

	"etlcheck/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableKey(t *testing.T) {
	assert.Equal(t, TableKey("dbo.Customer"), TableKey("DBO.CUSTOMER"))
	assert.Equal(t, TableKey("[dbo].[Customer]"), TableKey("dbo_customer"))
	assert.NotEqual(t, TableKey("dbo.Customer"), TableKey("dbo.Customers"))
}

func TestGroupByTarget(t *testing.T) {
	pairs := GroupByTarget([]Mapping{
		{SourceTable: "crm.Customer", TargetTable: "dbo.Customer", SourceColumn: "a", TargetColumn: "A"},
		{SourceTable: "erp.Kna1", TargetTable: "DBO.CUSTOMER", SourceColumn: "b", TargetColumn: "B"},
		{SourceTable: "crm.Order", TargetTable: "dbo.Order", SourceColumn: "c", TargetColumn: "C"},
		{SourceTable: "stg.Lonely", SourceColumn: "d", TargetColumn: "D"},
		{SourceTable: "CRM.CUSTOMER", TargetTable: "dbo.customer", SourceColumn: "e", TargetColumn: "E"},
	})

	require.Len(t, pairs, 3)
	assert.Equal(t, "dbo.Customer", pairs[0].TargetTable)
	assert.Equal(t, []string{"crm.Customer", "erp.Kna1"}, pairs[0].SourceTables)
	assert.Equal(t, "crm.Customer", pairs[0].SourceTable())
	assert.Len(t, pairs[0].Mappings, 3)
	assert.Equal(t, "dbo.Order", pairs[1].TargetTable)
	assert.Equal(t, "", pairs[2].TargetTable)
	assert.Equal(t, "stg.Lonely", pairs[2].SourceTable())
}

func TestGroupByTarget_Empty(t *testing.T) {
	assert.Empty(t, GroupByTarget(nil))
	assert.Equal(t, "", TablePair{}.SourceTable())
}

func TestOrderByDependencies(t *testing.T) {
	customer := schema.NewTable("dbo", "Customer")
	orders := schema.NewTable("dbo", "Orders")
	orders.Dependencies = []string{"Customer"}
	db := &schema.Database{Tables: []*schema.Table{orders, customer}}

	pairs := []TablePair{
		{TargetTable: "dbo.Unknown"},
		{TargetTable: "dbo.Orders"},
		{TargetTable: "dbo.Customer"},
	}

	got := OrderByDependencies(pairs, db)

	require.Len(t, got, 3)
	assert.Equal(t, "dbo.Customer", got[0].TargetTable)
	assert.Equal(t, "dbo.Orders", got[1].TargetTable)
	assert.Equal(t, "dbo.Unknown", got[2].TargetTable)
	assert.Equal(t, pairs, OrderByDependencies(pairs, nil))
}
