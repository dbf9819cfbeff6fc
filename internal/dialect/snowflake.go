package dialect

import (
	"fmt"
	"strings"
)

// SnowflakeDialect covers Snowflake. Metadata lives in INFORMATION_SCHEMA of
// the current database; primary keys are only reachable through SHOW.
type SnowflakeDialect struct{}

var snowflakeInfo = infoSchema{currentSchema: "CURRENT_SCHEMA()"}

func (d *SnowflakeDialect) Name() string { return "snowflake" }

func (d *SnowflakeDialect) QuoteIdent(name string) string { return quoteWith(`"`, `"`, name) }

func (d *SnowflakeDialect) GetTablesQuery(schema string) string {
	return `SELECT TABLE_SCHEMA, TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *SnowflakeDialect) GetColumnsQuery(schema string) string {
	return `SELECT c.TABLE_SCHEMA, c.TABLE_NAME, c.COLUMN_NAME, c.DATA_TYPE, c.CHARACTER_MAXIMUM_LENGTH, c.IS_NULLABLE FROM INFORMATION_SCHEMA.COLUMNS c JOIN INFORMATION_SCHEMA.TABLES t ON c.TABLE_SCHEMA = t.TABLE_SCHEMA AND c.TABLE_NAME = t.TABLE_NAME WHERE c.TABLE_SCHEMA = ? AND t.TABLE_TYPE = 'BASE TABLE' ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`
}

func (d *SnowflakeDialect) GetPrimaryKeysQuery(schema string) string {
	// SHOW output cannot be filtered with a bind; keep the shape and return nothing.
	return `SELECT TABLE_SCHEMA, TABLE_NAME, NULL AS COLUMN_NAME FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS WHERE TABLE_SCHEMA = ? AND 1 = 0`
}

func (d *SnowflakeDialect) GetForeignKeysQuery(schema string) string {
	return `SELECT TABLE_NAME, CONSTRAINT_NAME, NULL, NULL, NULL FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS WHERE TABLE_SCHEMA = ? AND 1 = 0`
}

func (d *SnowflakeDialect) ColumnMetadataQuery(schema, table string, columns []string) string {
	return snowflakeInfo.ColumnMetadataQuery(schema, table, columns)
}

func (d *SnowflakeDialect) TableExistsQuery(schema, table string) string {
	return snowflakeInfo.TableExistsQuery(schema, table)
}

func (d *SnowflakeDialect) ConstraintsQuery(schema, table string) string {
	return snowflakeInfo.ConstraintsQuery(schema, table)
}

func (d *SnowflakeDialect) PrimaryKeyColumnsQuery(schema, table string) string {
	if schema == "" {
		return "SHOW PRIMARY KEYS IN TABLE " + d.QuoteIdent(table)
	}
	return "SHOW PRIMARY KEYS IN TABLE " + d.QuoteIdent(schema) + "." + d.QuoteIdent(table)
}

func (d *SnowflakeDialect) ChecksumQuery(table string, exprs []string) string {
	return fmt.Sprintf("SELECT COUNT(*) AS row_count, HASH_AGG(%s) AS table_checksum FROM %s", strings.Join(exprs, ", "), table)
}

func (d *SnowflakeDialect) ComparableExpr(expr, dataType string) string {
	switch strings.ToUpper(strings.TrimSpace(dataType)) {
	case "VARIANT", "OBJECT", "ARRAY":
		return "TO_JSON(" + expr + ")"
	default:
		return expr
	}
}

func (d *SnowflakeDialect) NullDefault(expr, def string) string {
	return fmt.Sprintf("COALESCE(%s, %s)", expr, def)
}

func (d *SnowflakeDialect) LengthExpr(expr string) string { return "LENGTH(" + expr + ")" }

func (d *SnowflakeDialect) TrimExpr(expr string) string { return "TRIM(" + expr + ")" }

func (d *SnowflakeDialect) RecentRowsPredicate(column string, days int) string {
	return fmt.Sprintf("%s >= DATEADD(day, -%d, CURRENT_TIMESTAMP())", column, days)
}

func (d *SnowflakeDialect) CurrentTimestamp() string { return "CURRENT_TIMESTAMP()" }

func (d *SnowflakeDialect) FromDual() string { return "" }

func (d *SnowflakeDialect) Placeholder(index int) string { return "?" }

func (d *SnowflakeDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if t == "number" || strings.HasPrefix(t, "number(") {
		return "decimal"
	}
	if t == "timestamp_ntz" || t == "timestamp_ltz" || t == "timestamp_tz" {
		return "datetime"
	}
	return DefaultNormalizeType(t)
}

func (d *SnowflakeDialect) GetSchemaName(input string) string {
	if input == "" {
		return "PUBLIC"
	}
	return strings.ToUpper(input)
}

func (d *SnowflakeDialect) GetLimitRowQuery(query string, limit int) string {
	return limitSuffix(query, limit)
}
