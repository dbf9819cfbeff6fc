package dialect

import (
	"fmt"
	"strings"
)

type MSSQLDialect struct{}

var mssqlInfo = infoSchema{currentSchema: "SCHEMA_NAME()"}

func (d *MSSQLDialect) Name() string { return "mssql" }

func (d *MSSQLDialect) QuoteIdent(name string) string { return quoteWith("[", "]", name) }

// Helper: MSSQL Driver (go-mssqldb) binds @p1, @p2 named parameters.

func (d *MSSQLDialect) GetTablesQuery(schema string) string {
	return `SELECT TABLE_SCHEMA, TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = @p1 AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *MSSQLDialect) GetColumnsQuery(schema string) string {
	return `
		SELECT
			c.TABLE_SCHEMA,
			c.TABLE_NAME,
			c.COLUMN_NAME,
			c.DATA_TYPE,
			c.CHARACTER_MAXIMUM_LENGTH,
			c.IS_NULLABLE
		FROM INFORMATION_SCHEMA.COLUMNS c
		JOIN INFORMATION_SCHEMA.TABLES t
			ON c.TABLE_SCHEMA = t.TABLE_SCHEMA AND c.TABLE_NAME = t.TABLE_NAME
		WHERE c.TABLE_SCHEMA = @p1 AND t.TABLE_TYPE = 'BASE TABLE'
		ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION
	`
}

func (d *MSSQLDialect) GetPrimaryKeysQuery(schema string) string {
	return `SELECT kcu.TABLE_SCHEMA, kcu.TABLE_NAME, kcu.COLUMN_NAME FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND tc.TABLE_SCHEMA = @p1 ORDER BY kcu.TABLE_NAME, kcu.ORDINAL_POSITION`
}

func (d *MSSQLDialect) GetForeignKeysQuery(schema string) string {
	return `SELECT KCU1.TABLE_NAME, KCU1.CONSTRAINT_NAME, KCU1.COLUMN_NAME, KCU2.TABLE_NAME AS REF_TABLE, KCU2.COLUMN_NAME AS REF_COLUMN FROM INFORMATION_SCHEMA.REFERENTIAL_CONSTRAINTS RC JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE KCU1 ON RC.CONSTRAINT_NAME = KCU1.CONSTRAINT_NAME JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE KCU2 ON RC.UNIQUE_CONSTRAINT_NAME = KCU2.CONSTRAINT_NAME AND KCU1.ORDINAL_POSITION = KCU2.ORDINAL_POSITION WHERE KCU1.TABLE_SCHEMA = @p1`
}

func (d *MSSQLDialect) ColumnMetadataQuery(schema, table string, columns []string) string {
	return mssqlInfo.ColumnMetadataQuery(schema, table, columns)
}

func (d *MSSQLDialect) TableExistsQuery(schema, table string) string {
	return mssqlInfo.TableExistsQuery(schema, table)
}

func (d *MSSQLDialect) ConstraintsQuery(schema, table string) string {
	return mssqlInfo.ConstraintsQuery(schema, table)
}

func (d *MSSQLDialect) PrimaryKeyColumnsQuery(schema, table string) string {
	return mssqlInfo.PrimaryKeyColumnsQuery(schema, table)
}

func (d *MSSQLDialect) ChecksumQuery(table string, exprs []string) string {
	return fmt.Sprintf("SELECT COUNT(*) AS row_count, CHECKSUM_AGG(BINARY_CHECKSUM(%s)) AS table_checksum FROM %s",
		strings.Join(exprs, ", "), table)
}

// ComparableExpr casts types that BINARY_CHECKSUM rejects.
func (d *MSSQLDialect) ComparableExpr(expr, dataType string) string {
	switch strings.ToLower(typeParams.ReplaceAllString(strings.TrimSpace(dataType), "")) {
	case "xml", "text", "ntext":
		return fmt.Sprintf("CAST(%s AS NVARCHAR(MAX))", expr)
	case "image":
		return fmt.Sprintf("CAST(%s AS VARBINARY(MAX))", expr)
	case "geography", "geometry":
		return expr + ".STAsBinary()"
	default:
		return expr
	}
}

func (d *MSSQLDialect) NullDefault(expr, def string) string {
	return fmt.Sprintf("ISNULL(%s, %s)", expr, def)
}

func (d *MSSQLDialect) LengthExpr(expr string) string { return "LEN(" + expr + ")" }

func (d *MSSQLDialect) TrimExpr(expr string) string { return "LTRIM(RTRIM(" + expr + "))" }

func (d *MSSQLDialect) RecentRowsPredicate(column string, days int) string {
	return fmt.Sprintf("%s >= DATEADD(day, -%d, GETDATE())", column, days)
}

func (d *MSSQLDialect) CurrentTimestamp() string { return "GETDATE()" }

func (d *MSSQLDialect) FromDual() string { return "" }

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	switch t {
	case "bit":
		return "boolean"
	case "money", "smallmoney":
		return "decimal"
	case "smalldatetime", "datetimeoffset":
		return "datetime"
	case "image", "varbinary", "binary", "timestamp", "rowversion":
		return "binary"
	default:
		return DefaultNormalizeType(t)
	}
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}

func (d *MSSQLDialect) GetLimitRowQuery(query string, limit int) string {
	// Simple T-SQL TOP injection
	trimmed := strings.TrimSpace(query)
	if strings.HasPrefix(strings.ToUpper(trimmed), "SELECT DISTINCT") {
		return fmt.Sprintf("SELECT DISTINCT TOP %d%s", limit, trimmed[len("SELECT DISTINCT"):])
	}
	if strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return fmt.Sprintf("SELECT TOP %d%s", limit, trimmed[len("SELECT"):])
	}
	return query
}
