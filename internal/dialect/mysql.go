package dialect

import (
	"fmt"
	"strings"
)

type MysqlDialect struct{}

var mysqlInfo = infoSchema{currentSchema: "DATABASE()"}

func (d *MysqlDialect) Name() string { return "mysql" }

func (d *MysqlDialect) QuoteIdent(name string) string { return quoteWith("`", "`", name) }

func (d *MysqlDialect) GetTablesQuery(schema string) string {
	return `SELECT TABLE_SCHEMA, TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *MysqlDialect) GetColumnsQuery(schema string) string {
	return `SELECT c.TABLE_SCHEMA, c.TABLE_NAME, c.COLUMN_NAME, c.DATA_TYPE, c.CHARACTER_MAXIMUM_LENGTH, c.IS_NULLABLE FROM information_schema.COLUMNS c JOIN information_schema.TABLES t ON c.TABLE_SCHEMA = t.TABLE_SCHEMA AND c.TABLE_NAME = t.TABLE_NAME WHERE c.TABLE_SCHEMA = ? AND t.TABLE_TYPE = 'BASE TABLE' ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`
}

func (d *MysqlDialect) GetPrimaryKeysQuery(schema string) string {
	return `SELECT TABLE_SCHEMA, TABLE_NAME, COLUMN_NAME FROM information_schema.KEY_COLUMN_USAGE WHERE TABLE_SCHEMA = ? AND CONSTRAINT_NAME = 'PRIMARY' ORDER BY TABLE_NAME, ORDINAL_POSITION`
}

func (d *MysqlDialect) GetForeignKeysQuery(schema string) string {
	return `SELECT TABLE_NAME, CONSTRAINT_NAME, COLUMN_NAME, REFERENCED_TABLE_NAME, REFERENCED_COLUMN_NAME FROM information_schema.KEY_COLUMN_USAGE WHERE TABLE_SCHEMA = ? AND REFERENCED_TABLE_NAME IS NOT NULL`
}

func (d *MysqlDialect) ColumnMetadataQuery(schema, table string, columns []string) string {
	return mysqlInfo.ColumnMetadataQuery(schema, table, columns)
}

func (d *MysqlDialect) TableExistsQuery(schema, table string) string {
	return mysqlInfo.TableExistsQuery(schema, table)
}

func (d *MysqlDialect) ConstraintsQuery(schema, table string) string {
	return mysqlInfo.ConstraintsQuery(schema, table)
}

func (d *MysqlDialect) PrimaryKeyColumnsQuery(schema, table string) string {
	return mysqlInfo.PrimaryKeyColumnsQuery(schema, table)
}

func (d *MysqlDialect) ChecksumQuery(table string, exprs []string) string {
	return fmt.Sprintf("SELECT COUNT(*) AS row_count, BIT_XOR(CRC32(%s)) AS table_checksum FROM %s", concatWS(exprs), table)
}

func (d *MysqlDialect) ComparableExpr(expr, dataType string) string { return expr }

func (d *MysqlDialect) NullDefault(expr, def string) string {
	return fmt.Sprintf("COALESCE(%s, %s)", expr, def)
}

func (d *MysqlDialect) LengthExpr(expr string) string { return "CHAR_LENGTH(" + expr + ")" }

func (d *MysqlDialect) TrimExpr(expr string) string { return "TRIM(" + expr + ")" }

func (d *MysqlDialect) RecentRowsPredicate(column string, days int) string {
	return fmt.Sprintf("%s >= DATE_SUB(NOW(), INTERVAL %d DAY)", column, days)
}

func (d *MysqlDialect) CurrentTimestamp() string { return "NOW()" }

func (d *MysqlDialect) FromDual() string { return "" }

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if t == "tinyint(1)" {
		return "boolean"
	}
	if t == "year" {
		return "integer"
	}
	return DefaultNormalizeType(t)
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}

func (d *MysqlDialect) GetLimitRowQuery(query string, limit int) string {
	return limitSuffix(query, limit)
}

// MariaDBDialect shares MySQL syntax and quoting.
type MariaDBDialect struct {
	MysqlDialect
}

func (d *MariaDBDialect) Name() string { return "mariadb" }
