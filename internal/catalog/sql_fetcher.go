package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"etlcheck/internal/dialect"
	"etlcheck/internal/schema"

	"go.uber.org/zap"
)

// SQLFetcher introspects a connection directly over database/sql. The
// drivers themselves are registered by main.
type SQLFetcher struct {
	Connections Connections
	// Open defaults to sql.Open.
	Open func(driver, dsn string) (*sql.DB, error)
	Log  *zap.Logger
}

func (f *SQLFetcher) Fetch(ctx context.Context, connectionID string) (*schema.Database, error) {
	conn, err := f.Connections.Get(connectionID)
	if err != nil {
		return nil, err
	}
	log := f.Log
	if log == nil {
		log = zap.NewNop()
	}

	d := dialect.GetDialect(conn.DialectTag())
	driver := conn.Driver
	if driver == "" {
		driver = dialect.DriverFor(d)
	}
	if driver == "" {
		return nil, fmt.Errorf("no database/sql driver for dialect %s", d.Name())
	}

	open := f.Open
	if open == nil {
		open = sql.Open
	}
	db, err := open(driver, conn.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	schemaName := conn.Schema
	if schemaName == "" {
		if schemaName, err = currentSchema(ctx, db, d); err != nil {
			return nil, err
		}
	}

	log.Debug("analyzing schema",
		zap.String("connection", conn.Name),
		zap.String("dialect", d.Name()),
		zap.String("schema", d.GetSchemaName(schemaName)))
	return schema.Analyze(ctx, db, d, schemaName, schema.WithLogger(log))
}

// currentSchema asks engines whose default schema is per-session. Others
// rely on the dialect's GetSchemaName default.
func currentSchema(ctx context.Context, db *sql.DB, d dialect.Dialect) (string, error) {
	var q string
	switch d.Name() {
	case "mysql", "mariadb":
		q = "SELECT DATABASE()"
	case "oracle":
		q = "SELECT USER FROM DUAL"
	default:
		return "", nil
	}
	var name sql.NullString
	if err := db.QueryRowContext(ctx, q).Scan(&name); err != nil {
		return "", fmt.Errorf("failed to get database name: %w", err)
	}
	if name.String == "" {
		return "", fmt.Errorf("no database selected in DSN")
	}
	return name.String, nil
}
