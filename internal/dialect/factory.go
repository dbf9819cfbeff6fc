package dialect

import "strings"

// GetDialect returns the Dialect for a dialect tag or driver name.
// Unrecognized tags fall back to MSSQL bracket quoting.
func GetDialect(tag string) Dialect {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "mysql":
		return &MysqlDialect{}
	case "mariadb":
		return &MariaDBDialect{}
	case "postgres", "postgresql", "pg":
		return &PostgresDialect{}
	case "redshift":
		return &RedshiftDialect{}
	case "oracle", "ora":
		return &OracleDialect{}
	case "snowflake":
		return &SnowflakeDialect{}
	case "databricks", "spark":
		return &DatabricksDialect{}
	case "sqlite", "sqlite3":
		return &SQLiteDialect{}
	default: // mssql, sqlserver, azuresql
		return &MSSQLDialect{}
	}
}

// DriverFor returns the database/sql driver name registered for a dialect,
// or "" when no driver ships with this binary.
func DriverFor(d Dialect) string {
	switch d.Name() {
	case "mssql":
		return "sqlserver"
	case "mysql", "mariadb":
		return "mysql"
	case "postgresql", "redshift":
		return "postgres"
	case "oracle":
		return "oracle"
	case "sqlite":
		return "sqlite"
	default:
		return ""
	}
}

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*MariaDBDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*RedshiftDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
var _ Dialect = (*SnowflakeDialect)(nil)
var _ Dialect = (*DatabricksDialect)(nil)
var _ Dialect = (*SQLiteDialect)(nil)
