package dialect

import (
	"fmt"
	"strconv"
	"strings"
)

func itoa(n int) string { return strconv.Itoa(n) }

// infoSchema renders test fragments against INFORMATION_SCHEMA. Engines that
// expose it (MSSQL, MySQL, Postgres, Redshift, Snowflake, Databricks) embed it.
type infoSchema struct {
	// currentSchema is the expression used when no schema is known.
	currentSchema string
}

func (i infoSchema) schemaPredicate(prefix, schema string) string {
	if schema == "" {
		return prefix + "TABLE_SCHEMA = " + i.currentSchema
	}
	return prefix + "TABLE_SCHEMA = " + Literal(schema)
}

func (i infoSchema) ColumnMetadataQuery(schema, table string, columns []string) string {
	q := fmt.Sprintf("SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE, CHARACTER_MAXIMUM_LENGTH FROM INFORMATION_SCHEMA.COLUMNS WHERE %s AND TABLE_NAME = %s",
		i.schemaPredicate("", schema), Literal(table))
	if len(columns) > 0 {
		q += " AND COLUMN_NAME IN (" + LiteralList(columns) + ")"
	}
	return q + " ORDER BY ORDINAL_POSITION"
}

func (i infoSchema) TableExistsQuery(schema, table string) string {
	return fmt.Sprintf("SELECT COUNT(*) AS table_count FROM INFORMATION_SCHEMA.TABLES WHERE %s AND TABLE_NAME = %s",
		i.schemaPredicate("", schema), Literal(table))
}

func (i infoSchema) ConstraintsQuery(schema, table string) string {
	return fmt.Sprintf("SELECT CONSTRAINT_NAME, CONSTRAINT_TYPE FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS WHERE %s AND TABLE_NAME = %s ORDER BY CONSTRAINT_TYPE, CONSTRAINT_NAME",
		i.schemaPredicate("", schema), Literal(table))
}

func (i infoSchema) PrimaryKeyColumnsQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT kcu.COLUMN_NAME FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA AND tc.TABLE_NAME = kcu.TABLE_NAME WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND %s AND tc.TABLE_NAME = %s ORDER BY kcu.ORDINAL_POSITION`,
		i.schemaPredicate("tc.", schema), Literal(table))
}

func (i infoSchema) FromDual() string { return "" }

// concatWS joins expressions with a '|' separator, for engines with CONCAT_WS.
func concatWS(exprs []string) string {
	return "CONCAT_WS('|', " + strings.Join(exprs, ", ") + ")"
}

// pipeConcat joins expressions as e1 || '|' || e2, each cast to text by asText
// and defaulted to '' so NULLs do not collapse the whole row.
func pipeConcat(exprs []string, asText func(string) string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = "COALESCE(" + asText(e) + ", '')"
	}
	return strings.Join(parts, " || '|' || ")
}
