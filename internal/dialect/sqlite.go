package dialect

import (
	"fmt"
	"strings"
)

// SQLiteDialect reads metadata through the pragma table-valued functions.
// The schema bind is only consumed by a dummy predicate; SQLite has one "main".
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string { return "sqlite" }

func (d *SQLiteDialect) QuoteIdent(name string) string { return quoteWith(`"`, `"`, name) }

func (d *SQLiteDialect) GetTablesQuery(schema string) string {
	return `SELECT 'main', m.name FROM sqlite_master m WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%' AND ? IS NOT NULL ORDER BY m.name`
}

func (d *SQLiteDialect) GetColumnsQuery(schema string) string {
	return `SELECT 'main', m.name, p.name, p.type, NULL, CASE WHEN p."notnull" = 0 THEN 'YES' ELSE 'NO' END
FROM sqlite_master AS m, pragma_table_info(m.name) AS p
WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%' AND ? IS NOT NULL
ORDER BY m.name, p.cid`
}

func (d *SQLiteDialect) GetPrimaryKeysQuery(schema string) string {
	return `SELECT 'main', m.name, p.name
FROM sqlite_master AS m, pragma_table_info(m.name) AS p
WHERE m.type = 'table' AND p.pk > 0 AND ? IS NOT NULL
ORDER BY m.name, p.pk`
}

func (d *SQLiteDialect) GetForeignKeysQuery(schema string) string {
	return `SELECT m.name, 'fk_' || m.name || '_' || f.id, f."from", f."table", f."to"
FROM sqlite_master AS m, pragma_foreign_key_list(m.name) AS f
WHERE m.type = 'table' AND ? IS NOT NULL`
}

func (d *SQLiteDialect) ColumnMetadataQuery(schema, table string, columns []string) string {
	q := fmt.Sprintf(`SELECT name AS COLUMN_NAME, type AS DATA_TYPE, CASE WHEN "notnull" = 0 THEN 'YES' ELSE 'NO' END AS IS_NULLABLE FROM pragma_table_info(%s)`, Literal(table))
	if len(columns) > 0 {
		q += " WHERE name IN (" + LiteralList(columns) + ")"
	}
	return q + " ORDER BY cid"
}

func (d *SQLiteDialect) TableExistsQuery(schema, table string) string {
	return fmt.Sprintf("SELECT COUNT(*) AS table_count FROM sqlite_master WHERE type = 'table' AND name = %s", Literal(table))
}

func (d *SQLiteDialect) ConstraintsQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT name AS CONSTRAINT_NAME, CASE WHEN origin = 'pk' THEN 'PRIMARY KEY' ELSE 'UNIQUE' END AS CONSTRAINT_TYPE FROM pragma_index_list(%s) ORDER BY name`, Literal(table))
}

func (d *SQLiteDialect) PrimaryKeyColumnsQuery(schema, table string) string {
	return fmt.Sprintf("SELECT name AS COLUMN_NAME FROM pragma_table_info(%s) WHERE pk > 0 ORDER BY pk", Literal(table))
}

// ChecksumQuery has no hash function to lean on; total text length per row is a weak fingerprint.
func (d *SQLiteDialect) ChecksumQuery(table string, exprs []string) string {
	asText := func(e string) string { return "CAST(" + e + " AS TEXT)" }
	return fmt.Sprintf("SELECT COUNT(*) AS row_count, TOTAL(LENGTH(%s)) AS table_checksum FROM %s", pipeConcat(exprs, asText), table)
}

func (d *SQLiteDialect) ComparableExpr(expr, dataType string) string { return expr }

func (d *SQLiteDialect) NullDefault(expr, def string) string {
	return fmt.Sprintf("COALESCE(%s, %s)", expr, def)
}

func (d *SQLiteDialect) LengthExpr(expr string) string { return "LENGTH(" + expr + ")" }

func (d *SQLiteDialect) TrimExpr(expr string) string { return "TRIM(" + expr + ")" }

func (d *SQLiteDialect) RecentRowsPredicate(column string, days int) string {
	return fmt.Sprintf("%s >= datetime('now', '-%d days')", column, days)
}

func (d *SQLiteDialect) CurrentTimestamp() string { return "datetime('now')" }

func (d *SQLiteDialect) FromDual() string { return "" }

func (d *SQLiteDialect) Placeholder(index int) string { return "?" }

func (d *SQLiteDialect) NormalizeType(sqlType string) string {
	// SQLite affinity: anything containing INT is integer
	t := strings.ToLower(sqlType)
	if strings.Contains(t, "int") {
		return "integer"
	}
	return DefaultNormalizeType(t)
}

func (d *SQLiteDialect) GetSchemaName(input string) string {
	if input == "" {
		return "main"
	}
	return input
}

func (d *SQLiteDialect) GetLimitRowQuery(query string, limit int) string {
	return limitSuffix(query, limit)
}
