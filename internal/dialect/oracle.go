package dialect

import (
	"fmt"
	"strings"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

func (d *OracleDialect) QuoteIdent(name string) string { return quoteWith(`"`, `"`, name) }

// Oracle has no INFORMATION_SCHEMA; the ALL_* views filtered by OWNER take its place.

func (d *OracleDialect) GetTablesQuery(schema string) string {
	return `SELECT OWNER, TABLE_NAME FROM ALL_TABLES WHERE OWNER = :1 ORDER BY TABLE_NAME`
}

func (d *OracleDialect) GetColumnsQuery(schema string) string {
	return `
SELECT
    t.OWNER,
    t.TABLE_NAME,
    t.COLUMN_NAME,
    t.DATA_TYPE,
    t.CHAR_LENGTH,
    CASE WHEN t.NULLABLE = 'Y' THEN 'YES' ELSE 'NO' END
FROM ALL_TAB_COLUMNS t
JOIN ALL_TABLES a ON a.OWNER = t.OWNER AND a.TABLE_NAME = t.TABLE_NAME
WHERE t.OWNER = :1
ORDER BY t.TABLE_NAME, t.COLUMN_ID`
}

func (d *OracleDialect) GetPrimaryKeysQuery(schema string) string {
	return `
SELECT cc.OWNER, cc.TABLE_NAME, cc.COLUMN_NAME
FROM ALL_CONS_COLUMNS cc
JOIN ALL_CONSTRAINTS uc ON cc.CONSTRAINT_NAME = uc.CONSTRAINT_NAME AND cc.OWNER = uc.OWNER
WHERE uc.CONSTRAINT_TYPE = 'P' AND uc.OWNER = :1
ORDER BY cc.TABLE_NAME, cc.POSITION`
}

func (d *OracleDialect) GetForeignKeysQuery(schema string) string {
	return `
SELECT
    c.TABLE_NAME,
    c.CONSTRAINT_NAME,
    cc.COLUMN_NAME,
    r.TABLE_NAME AS REF_TABLE,
    rcc.COLUMN_NAME AS REF_COLUMN
FROM ALL_CONSTRAINTS c
JOIN ALL_CONS_COLUMNS cc
    ON c.CONSTRAINT_NAME = cc.CONSTRAINT_NAME
    AND c.OWNER = cc.OWNER
JOIN ALL_CONSTRAINTS r
    ON c.R_CONSTRAINT_NAME = r.CONSTRAINT_NAME
    AND c.R_OWNER = r.OWNER
JOIN ALL_CONS_COLUMNS rcc
    ON r.CONSTRAINT_NAME = rcc.CONSTRAINT_NAME
    AND r.OWNER = rcc.OWNER
    AND cc.POSITION = rcc.POSITION
WHERE c.CONSTRAINT_TYPE = 'R'
AND c.OWNER = :1`
}

func (d *OracleDialect) ownerPredicate(prefix, schema string) string {
	if schema == "" {
		return prefix + "OWNER = USER"
	}
	return prefix + "OWNER = " + Literal(strings.ToUpper(schema))
}

func (d *OracleDialect) ColumnMetadataQuery(schema, table string, columns []string) string {
	q := fmt.Sprintf("SELECT COLUMN_NAME, DATA_TYPE, CASE WHEN NULLABLE = 'Y' THEN 'YES' ELSE 'NO' END AS IS_NULLABLE, CHAR_LENGTH FROM ALL_TAB_COLUMNS WHERE %s AND TABLE_NAME = %s",
		d.ownerPredicate("", schema), Literal(table))
	if len(columns) > 0 {
		q += " AND COLUMN_NAME IN (" + LiteralList(columns) + ")"
	}
	return q + " ORDER BY COLUMN_ID"
}

func (d *OracleDialect) TableExistsQuery(schema, table string) string {
	return fmt.Sprintf("SELECT COUNT(*) AS table_count FROM ALL_TABLES WHERE %s AND TABLE_NAME = %s",
		d.ownerPredicate("", schema), Literal(table))
}

func (d *OracleDialect) ConstraintsQuery(schema, table string) string {
	return fmt.Sprintf("SELECT CONSTRAINT_NAME, CONSTRAINT_TYPE FROM ALL_CONSTRAINTS WHERE %s AND TABLE_NAME = %s ORDER BY CONSTRAINT_TYPE, CONSTRAINT_NAME",
		d.ownerPredicate("", schema), Literal(table))
}

func (d *OracleDialect) PrimaryKeyColumnsQuery(schema, table string) string {
	return fmt.Sprintf("SELECT cc.COLUMN_NAME FROM ALL_CONS_COLUMNS cc JOIN ALL_CONSTRAINTS c ON cc.CONSTRAINT_NAME = c.CONSTRAINT_NAME AND cc.OWNER = c.OWNER WHERE c.CONSTRAINT_TYPE = 'P' AND %s AND c.TABLE_NAME = %s ORDER BY cc.POSITION",
		d.ownerPredicate("c.", schema), Literal(table))
}

func (d *OracleDialect) ChecksumQuery(table string, exprs []string) string {
	asText := func(e string) string { return "TO_CHAR(" + e + ")" }
	return fmt.Sprintf("SELECT COUNT(*) AS row_count, SUM(ORA_HASH(%s)) AS table_checksum FROM %s", pipeConcat(exprs, asText), table)
}

func (d *OracleDialect) ComparableExpr(expr, dataType string) string {
	switch strings.ToUpper(strings.TrimSpace(dataType)) {
	case "CLOB", "NCLOB":
		return "DBMS_LOB.SUBSTR(" + expr + ", 4000, 1)"
	default:
		return expr
	}
}

func (d *OracleDialect) NullDefault(expr, def string) string {
	return fmt.Sprintf("NVL(%s, %s)", expr, def)
}

func (d *OracleDialect) LengthExpr(expr string) string { return "LENGTH(" + expr + ")" }

func (d *OracleDialect) TrimExpr(expr string) string { return "TRIM(" + expr + ")" }

func (d *OracleDialect) RecentRowsPredicate(column string, days int) string {
	return fmt.Sprintf("%s >= SYSDATE - %d", column, days)
}

func (d *OracleDialect) CurrentTimestamp() string { return "SYSTIMESTAMP" }

func (d *OracleDialect) FromDual() string { return " FROM DUAL" }

func (d *OracleDialect) Placeholder(index int) string {
	// Oracle uses :1, :2, etc. (1-based index)
	return fmt.Sprintf(":%d", index+1)
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	s := strings.ToLower(sqlType)
	if strings.HasPrefix(s, "number") {
		// NUMBER(p) and NUMBER(p,0) are integers, anything with a scale is decimal
		m := typeParams.FindString(s)
		if m == "" {
			return "decimal"
		}
		if i := strings.Index(m, ","); i >= 0 && strings.Trim(m[i+1:], " )") != "0" {
			return "decimal"
		}
		return "integer"
	}
	if strings.Contains(s, "varchar2") || strings.Contains(s, "clob") {
		return "string"
	}
	return DefaultNormalizeType(s)
}

func (d *OracleDialect) GetSchemaName(input string) string {
	return strings.ToUpper(input)
}

func (d *OracleDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("SELECT * FROM (%s) WHERE ROWNUM <= %d", query, limit)
}
