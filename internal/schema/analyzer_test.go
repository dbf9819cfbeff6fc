package schema_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"etlcheck/internal/dialect"
	"etlcheck/internal/schema"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestSortTablesByFKCount_ComplexCircular(t *testing.T) {
	// A -> B -> C -> D -> E -> A (순환)
	// F -> E (단순 참조)
	// G (독립)
	tables := []*schema.Table{
		{Name: "A", Dependencies: []string{"B"}},
		{Name: "B", Dependencies: []string{"C"}},
		{Name: "C", Dependencies: []string{"D"}},
		{Name: "D", Dependencies: []string{"E"}},
		{Name: "E", Dependencies: []string{"A"}},
		{Name: "F", Dependencies: []string{"E"}},
		{Name: "G", Dependencies: []string{}},
	}

	sorted := schema.SortTablesByFKCount(tables)
	require.Len(t, sorted, len(tables))

	visited := make(map[string]bool)
	for _, tbl := range sorted {
		visited[tbl.Name] = true
	}
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		assert.True(t, visited[name], "missing %s", name)
	}
	assert.Equal(t, "G", sorted[0].Name)
}

func TestSortTablesByFKCount_Simple(t *testing.T) {
	// Users -> Orders -> OrderItems
	tables := []*schema.Table{
		{Name: "OrderItems", Dependencies: []string{"Orders"}},
		{Name: "Orders", Dependencies: []string{"Users"}},
		{Name: "Users", Dependencies: []string{}},
	}

	sorted := schema.SortTablesByFKCount(tables)

	require.Len(t, sorted, 3)
	assert.Equal(t, "Users", sorted[0].Name)
	assert.Equal(t, "Orders", sorted[1].Name)
	assert.Equal(t, "OrderItems", sorted[2].Name)
}

func TestSortTablesByFKCount_Empty(t *testing.T) {
	sorted := schema.SortTablesByFKCount(nil)
	assert.NotNil(t, sorted)
	assert.Empty(t, sorted)
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestAnalyze_MSSQL(t *testing.T) {
	db, mock := newMock(t)
	d := dialect.GetDialect("mssql")

	mock.ExpectQuery(d.GetTablesQuery("dbo")).WithArgs("dbo").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_SCHEMA", "TABLE_NAME"}).
			AddRow("dbo", "Orders").
			AddRow("dbo", "Customer"))
	mock.ExpectQuery(d.GetColumnsQuery("dbo")).WithArgs("dbo").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_SCHEMA", "TABLE_NAME", "COLUMN_NAME", "DATA_TYPE", "CHARACTER_MAXIMUM_LENGTH", "IS_NULLABLE"}).
			AddRow("dbo", "Customer", "Id", "int", nil, "NO").
			AddRow("dbo", "Customer", "Name", "nvarchar", "100", "YES").
			AddRow("dbo", "Customer", "Notes", "nvarchar", "-1", "YES").
			AddRow("dbo", "Orders", "Id", "int", nil, "NO").
			AddRow("dbo", "Orders", "CustomerId", "int", nil, "NO").
			AddRow("dbo", "Ghost", "X", "int", nil, "NO"))
	mock.ExpectQuery(d.GetPrimaryKeysQuery("dbo")).WithArgs("dbo").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_SCHEMA", "TABLE_NAME", "COLUMN_NAME"}).
			AddRow("dbo", "Customer", "Id").
			AddRow("dbo", "Orders", "Id"))
	mock.ExpectQuery(d.GetForeignKeysQuery("dbo")).WithArgs("dbo").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME", "CONSTRAINT_NAME", "COLUMN_NAME", "REF_TABLE", "REF_COLUMN"}).
			AddRow("Orders", "FK_Orders_Customer", "CustomerId", "Customer", "Id").
			AddRow("Orders", "FK_Orders_External", "RegionId", "Region", "Id"))

	got, err := schema.Analyze(context.Background(), db, d, "")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Equal(t, 2, got.TableCount())
	assert.Equal(t, 5, got.ColumnCount())

	customer, orders := got.Tables[0], got.Tables[1]
	assert.Equal(t, "Customer", customer.Name)
	assert.Equal(t, "dbo.Customer", customer.FullName)
	assert.Equal(t, []string{"Id"}, customer.PrimaryKey)
	require.Len(t, customer.Columns, 3)
	assert.False(t, customer.Columns[0].IsNullable)
	require.NotNil(t, customer.Columns[1].MaxLength)
	assert.Equal(t, 100, *customer.Columns[1].MaxLength)
	assert.Nil(t, customer.Columns[2].MaxLength)

	assert.Equal(t, "Orders", orders.Name)
	assert.Equal(t, []string{"Customer"}, orders.Dependencies)
	require.Len(t, orders.ForeignKeys, 1)
	assert.Equal(t, "FK_Orders_Customer", orders.ForeignKeys[0].Name)
}

func TestAnalyze_ForeignKeyFailureTolerated(t *testing.T) {
	db, mock := newMock(t)
	d := dialect.GetDialect("postgres")

	mock.ExpectQuery(d.GetTablesQuery("public")).WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"table_schema", "table_name"}).AddRow("public", "users"))
	mock.ExpectQuery(d.GetColumnsQuery("public")).WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"table_schema", "table_name", "column_name", "data_type", "character_maximum_length", "is_nullable"}).
			AddRow("public", "users", "id", "integer", nil, "NO"))
	mock.ExpectQuery(d.GetPrimaryKeysQuery("public")).WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"table_schema", "table_name", "column_name"}).AddRow("public", "users", "id"))
	mock.ExpectQuery(d.GetForeignKeysQuery("public")).WithArgs("public").
		WillReturnError(errors.New("permission denied for information_schema"))

	got, err := schema.Analyze(context.Background(), db, d, "")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, got.Tables, 1)
	assert.Empty(t, got.Tables[0].Dependencies)
	assert.Equal(t, []string{"id"}, got.Tables[0].PrimaryKey)
}

func TestAnalyze_ColumnQueryError(t *testing.T) {
	db, mock := newMock(t)
	d := dialect.GetDialect("mysql")

	mock.ExpectQuery(d.GetTablesQuery("shop")).WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_SCHEMA", "TABLE_NAME"}).AddRow("shop", "orders"))
	mock.ExpectQuery(d.GetColumnsQuery("shop")).WithArgs("shop").
		WillReturnError(errors.New("connection reset"))

	got, err := schema.Analyze(context.Background(), db, d, "shop")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "failed to query columns")
}

func TestAnalyze_EmptySchema(t *testing.T) {
	db, mock := newMock(t)
	d := dialect.GetDialect("mssql")

	mock.ExpectQuery(d.GetTablesQuery("stage")).WithArgs("stage").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_SCHEMA", "TABLE_NAME"}))
	mock.ExpectQuery(d.GetColumnsQuery("stage")).WithArgs("stage").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d", "e", "f"}))
	mock.ExpectQuery(d.GetPrimaryKeysQuery("stage")).WithArgs("stage").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c"}))
	mock.ExpectQuery(d.GetForeignKeysQuery("stage")).WithArgs("stage").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d", "e"}))

	got, err := schema.Analyze(context.Background(), db, d, "stage")
	require.NoError(t, err)
	assert.NotNil(t, got.Tables)
	assert.Equal(t, 0, got.TableCount())
}

func TestAnalyze_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, stmt := range []string{
		`CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT NOT NULL, name VARCHAR(50))`,
		`CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER REFERENCES users(id), total NUMERIC)`,
	} {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	got, err := schema.Analyze(ctx, db, dialect.GetDialect("sqlite"), "")
	require.NoError(t, err)
	require.Equal(t, 2, got.TableCount())
	assert.Equal(t, 6, got.ColumnCount())

	users, orders := got.Tables[0], got.Tables[1]
	assert.Equal(t, "users", users.Name)
	assert.Equal(t, "main.users", users.FullName)
	assert.Equal(t, []string{"id"}, users.PrimaryKey)
	email := schema.FindColumn(users, "email")
	require.NotNil(t, email)
	assert.False(t, email.IsNullable)
	assert.Equal(t, "TEXT", email.DataType)

	assert.Equal(t, "orders", orders.Name)
	assert.Equal(t, []string{"users"}, orders.Dependencies)
	require.Len(t, orders.ForeignKeys, 1)
	assert.Equal(t, "user_id", orders.ForeignKeys[0].Column)
}
