package dialect

import (
	"fmt"
	"strings"
)

// DatabricksDialect targets Databricks SQL over Unity Catalog information_schema.
// Identifiers are double-quoted, which requires ANSI mode on the warehouse.
type DatabricksDialect struct{}

var databricksInfo = infoSchema{currentSchema: "current_schema()"}

func (d *DatabricksDialect) Name() string { return "databricks" }

func (d *DatabricksDialect) QuoteIdent(name string) string { return quoteWith(`"`, `"`, name) }

func (d *DatabricksDialect) GetTablesQuery(schema string) string {
	return `SELECT table_schema, table_name FROM information_schema.tables WHERE table_schema = ? AND table_type IN ('MANAGED', 'EXTERNAL', 'BASE TABLE') ORDER BY table_name`
}

func (d *DatabricksDialect) GetColumnsQuery(schema string) string {
	return `SELECT table_schema, table_name, column_name, data_type, character_maximum_length, is_nullable FROM information_schema.columns WHERE table_schema = ? ORDER BY table_name, ordinal_position`
}

func (d *DatabricksDialect) GetPrimaryKeysQuery(schema string) string {
	return `SELECT kcu.table_schema, kcu.table_name, kcu.column_name FROM information_schema.table_constraints tc JOIN information_schema.key_column_usage kcu ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = ? ORDER BY kcu.table_name, kcu.ordinal_position`
}

func (d *DatabricksDialect) GetForeignKeysQuery(schema string) string {
	return `SELECT kcu.table_name, kcu.constraint_name, kcu.column_name, ccu.table_name, ccu.column_name FROM information_schema.referential_constraints rc JOIN information_schema.key_column_usage kcu ON rc.constraint_name = kcu.constraint_name JOIN information_schema.constraint_column_usage ccu ON rc.unique_constraint_name = ccu.constraint_name WHERE kcu.table_schema = ?`
}

func (d *DatabricksDialect) ColumnMetadataQuery(schema, table string, columns []string) string {
	return databricksInfo.ColumnMetadataQuery(schema, table, columns)
}

func (d *DatabricksDialect) TableExistsQuery(schema, table string) string {
	return databricksInfo.TableExistsQuery(schema, table)
}

func (d *DatabricksDialect) ConstraintsQuery(schema, table string) string {
	return databricksInfo.ConstraintsQuery(schema, table)
}

func (d *DatabricksDialect) PrimaryKeyColumnsQuery(schema, table string) string {
	return databricksInfo.PrimaryKeyColumnsQuery(schema, table)
}

func (d *DatabricksDialect) ChecksumQuery(table string, exprs []string) string {
	return fmt.Sprintf("SELECT COUNT(*) AS row_count, BIT_XOR(XXHASH64(%s)) AS table_checksum FROM %s", strings.Join(exprs, ", "), table)
}

func (d *DatabricksDialect) ComparableExpr(expr, dataType string) string {
	t := strings.ToLower(strings.TrimSpace(dataType))
	if strings.HasPrefix(t, "map") || strings.HasPrefix(t, "struct") || strings.HasPrefix(t, "array") {
		return "TO_JSON(" + expr + ")"
	}
	return expr
}

func (d *DatabricksDialect) NullDefault(expr, def string) string {
	return fmt.Sprintf("COALESCE(%s, %s)", expr, def)
}

func (d *DatabricksDialect) LengthExpr(expr string) string { return "LENGTH(" + expr + ")" }

func (d *DatabricksDialect) TrimExpr(expr string) string { return "TRIM(" + expr + ")" }

func (d *DatabricksDialect) RecentRowsPredicate(column string, days int) string {
	return fmt.Sprintf("%s >= current_timestamp() - INTERVAL %d DAYS", column, days)
}

func (d *DatabricksDialect) CurrentTimestamp() string { return "current_timestamp()" }

func (d *DatabricksDialect) FromDual() string { return "" }

func (d *DatabricksDialect) Placeholder(index int) string { return "?" }

func (d *DatabricksDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *DatabricksDialect) GetSchemaName(input string) string {
	if input == "" {
		return "default"
	}
	return input
}

func (d *DatabricksDialect) GetLimitRowQuery(query string, limit int) string {
	return limitSuffix(query, limit)
}
