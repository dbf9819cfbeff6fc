package dialect

// Dialect abstracts database-specific SQL text. Nothing in this package
// talks to a database; every method returns SQL for someone else to run.
type Dialect interface {
	// Name is the canonical dialect tag (mssql, mysql, postgresql, ...).
	Name() string

	// Identifiers
	QuoteIdent(name string) string

	// Metadata Queries (Schema Introspection). Each binds the schema name
	// as its single parameter.
	GetTablesQuery(schema string) string
	GetColumnsQuery(schema string) string
	GetPrimaryKeysQuery(schema string) string
	GetForeignKeysQuery(schema string) string

	// Test Fragments (literal SQL, nothing bound)
	ColumnMetadataQuery(schema, table string, columns []string) string
	TableExistsQuery(schema, table string) string
	ConstraintsQuery(schema, table string) string
	PrimaryKeyColumnsQuery(schema, table string) string
	ChecksumQuery(table string, exprs []string) string
	ComparableExpr(expr, dataType string) string
	NullDefault(expr, def string) string
	LengthExpr(expr string) string
	TrimExpr(expr string) string
	RecentRowsPredicate(column string, days int) string
	CurrentTimestamp() string
	FromDual() string

	// Helpers
	Placeholder(index int) string // Returns ?, $1, @p1, :1
	NormalizeType(sqlType string) string
	GetSchemaName(input string) string
	GetLimitRowQuery(query string, limit int) string
}
