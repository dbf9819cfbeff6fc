package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"etlcheck/internal/dialect"

	"go.uber.org/zap"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type analyzeConfig struct {
	log *zap.Logger
}

// Option configures Analyze.
type Option func(*analyzeConfig)

// WithLogger sets the logger used for tolerated metadata failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *analyzeConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// ---------------------------------------------------------------------
// Schema Analysis Logic
// ---------------------------------------------------------------------

// Analyze reads tables, columns, primary keys and foreign keys of one schema
// and returns the tables in dependency order (referenced tables first).
// Key metadata is best-effort: a failing PK or FK query is logged and the
// tables come back without keys.
func Analyze(ctx context.Context, db Querier, d dialect.Dialect, schemaName string, opts ...Option) (*Database, error) {
	cfg := analyzeConfig{log: zap.NewNop()}
	for _, o := range opts {
		o(&cfg)
	}

	// [Interface-First]: Delegate schema resolution to the dialect
	target := d.GetSchemaName(schemaName)

	// normalized keys (UPPERCASE) keep lookups case-insensitive for Oracle
	tableMap := make(map[string]*Table)
	tables := make([]*Table, 0)

	// --- Step 1: Fetch Tables ---
	err := queryEach(ctx, db, d.GetTablesQuery(target), target, func(rows *sql.Rows) error {
		var sName, tName sql.NullString
		if err := rows.Scan(&sName, &tName); err != nil {
			return fmt.Errorf("failed to scan table name: %w", err)
		}
		if !tName.Valid || tName.String == "" {
			return nil
		}
		t := NewTable(sName.String, tName.String)
		tableMap[strings.ToUpper(t.Name)] = t
		tables = append(tables, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}

	// --- Step 2: Fetch Columns ---
	err = queryEach(ctx, db, d.GetColumnsQuery(target), target, func(rows *sql.Rows) error {
		var sName, tName, cName, dType, cLen, isNull sql.NullString
		if err := rows.Scan(&sName, &tName, &cName, &dType, &cLen, &isNull); err != nil {
			return fmt.Errorf("failed to scan column (table: %s): %w", tName.String, err)
		}
		if !tName.Valid || !cName.Valid {
			return nil
		}
		t, ok := tableMap[strings.ToUpper(tName.String)]
		if !ok {
			return nil
		}
		t.Columns = append(t.Columns, &Column{
			Name:       cName.String,
			DataType:   dType.String,
			IsNullable: strings.EqualFold(strings.TrimSpace(isNull.String), "YES"),
			MaxLength:  parseLength(cLen),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}

	// --- Step 3: Fetch Primary Keys ---
	err = queryEach(ctx, db, d.GetPrimaryKeysQuery(target), target, func(rows *sql.Rows) error {
		var sName, tName, cName sql.NullString
		if err := rows.Scan(&sName, &tName, &cName); err != nil {
			return fmt.Errorf("failed to scan primary key: %w", err)
		}
		if t, ok := tableMap[strings.ToUpper(tName.String)]; ok && cName.Valid {
			t.PrimaryKey = append(t.PrimaryKey, cName.String)
		}
		return nil
	})
	if err != nil {
		cfg.log.Warn("primary key metadata unavailable", zap.String("schema", target), zap.Error(err))
		for _, t := range tables {
			t.PrimaryKey = nil
		}
	}

	// --- Step 4: Fetch Foreign Keys ---
	// FK query might fail on some DBs if permissions are missing.
	err = queryEach(ctx, db, d.GetForeignKeysQuery(target), target, func(rows *sql.Rows) error {
		var tName, cConst, cName, rTable, rCol sql.NullString
		if err := rows.Scan(&tName, &cConst, &cName, &rTable, &rCol); err != nil {
			return fmt.Errorf("failed to scan foreign key: %w", err)
		}
		if !tName.Valid || !rTable.Valid || strings.EqualFold(tName.String, rTable.String) {
			return nil
		}
		t, ok := tableMap[strings.ToUpper(tName.String)]
		ref, exists := tableMap[strings.ToUpper(rTable.String)]
		// external refs we can't order against are skipped
		if !ok || !exists {
			return nil
		}
		if !contains(t.Dependencies, ref.Name) {
			t.Dependencies = append(t.Dependencies, ref.Name)
		}
		t.ForeignKeys = append(t.ForeignKeys, &ForeignKey{
			Name:      cConst.String,
			Column:    cName.String,
			RefTable:  ref.Name,
			RefColumn: rCol.String,
		})
		return nil
	})
	if err != nil {
		cfg.log.Warn("foreign key metadata unavailable", zap.String("schema", target), zap.Error(err))
		for _, t := range tables {
			t.Dependencies = []string{}
			t.ForeignKeys = nil
		}
	}

	sorted := sortTables(tables, func(name string, score int) {
		cfg.log.Debug("breaking circular dependency", zap.String("table", name), zap.Int("score", score))
	})
	return &Database{Tables: sorted}, nil
}

func queryEach(ctx context.Context, db Querier, query, arg string, scan func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query, arg)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// parseLength handles integer and float renderings. Zero and negative values
// (MSSQL reports -1 for MAX) mean "no declared length".
func parseLength(v sql.NullString) *int {
	if !v.Valid || v.String == "" {
		return nil
	}
	var length int
	if _, err := fmt.Sscanf(v.String, "%d", &length); err != nil {
		var fLength float64
		if _, err := fmt.Sscanf(v.String, "%f", &fLength); err != nil {
			return nil
		}
		length = int(fLength)
	}
	if length <= 0 {
		return nil
	}
	return &length
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------
// Sorting Algorithm (Topological / Greedy)
// ---------------------------------------------------------------------

// SortTablesByFKCount sorts tables by dependency order.
// It handles circular dependencies by using a scoring system.
func SortTablesByFKCount(tables []*Table) []*Table {
	return sortTables(tables, nil)
}

func sortTables(tables []*Table, onBreak func(name string, score int)) []*Table {
	sorted := make([]*Table, 0, len(tables))
	processed := make(map[string]bool)
	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}

	// Keep looping until all tables are processed
	for len(sorted) < len(tables) {
		added := false

		// Pass 1: Add tables whose dependencies are fully satisfied
		for _, t := range tables {
			if processed[t.Name] {
				continue
			}

			allDepsProcessed := true
			for _, depName := range t.Dependencies {
				// deps outside the set never block
				if _, known := byName[depName]; known && !processed[depName] {
					allDepsProcessed = false
					break
				}
			}

			if allDepsProcessed {
				sorted = append(sorted, t)
				processed[t.Name] = true
				added = true
			}
		}

		// Pass 2: If no table added, we have a cycle. Break it using heuristic score.
		if !added {
			var bestTable *Table
			bestScore := -999999

			for _, t := range tables {
				if processed[t.Name] {
					continue
				}

				// Penalty: unprocessed FKs. Bonus: table sits on a two-way cycle.
				score := 0
				isCircular := false
				for _, dep := range t.Dependencies {
					if processed[dep] {
						continue
					}
					score -= 100
					if cand, ok := byName[dep]; ok && !isCircular && contains(cand.Dependencies, t.Name) {
						isCircular = true
					}
				}
				if isCircular {
					score += 500 // Priority boost
				}

				// Tie-breaker: Name (Deterministic)
				if score > bestScore || (score == bestScore && (bestTable == nil || t.Name > bestTable.Name)) {
					bestScore = score
					bestTable = t
				}
			}

			if bestTable == nil {
				break
			}
			sorted = append(sorted, bestTable)
			processed[bestTable.Name] = true
			if onBreak != nil {
				onBreak(bestTable.Name, bestScore)
			}
		}
	}

	return sorted
}
