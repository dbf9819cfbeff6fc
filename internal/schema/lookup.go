package schema

import (
	"strings"

	"etlcheck/internal/dialect"
)

// FindTable resolves a sheet-supplied table name against db:
// exact (full or bare name), then substring either way, then the trailing
// segment of a dotted name. Returns nil when nothing matches.
func FindTable(db *Database, name string) *Table {
	if db == nil {
		return nil
	}
	q := strings.ToLower(dialect.StripDecoration(name))
	if q == "" {
		return nil
	}

	for _, t := range db.Tables {
		if strings.ToLower(t.FullName) == q || strings.ToLower(t.Name) == q {
			return t
		}
	}

	for _, t := range db.Tables {
		bare := strings.ToLower(t.Name)
		if bare == "" {
			continue
		}
		if strings.Contains(strings.ToLower(t.FullName), q) || strings.Contains(q, bare) {
			return t
		}
	}

	if i := strings.LastIndex(q, "."); i >= 0 && i < len(q)-1 {
		last := q[i+1:]
		for _, t := range db.Tables {
			if strings.ToLower(t.Name) == last {
				return t
			}
		}
	}
	return nil
}

// FindColumn resolves a column name exact-then-substring, case-insensitive.
func FindColumn(t *Table, name string) *Column {
	if t == nil {
		return nil
	}
	q := strings.ToLower(dialect.StripDecoration(name))
	if q == "" {
		return nil
	}

	for _, c := range t.Columns {
		if strings.ToLower(c.Name) == q {
			return c
		}
	}
	for _, c := range t.Columns {
		n := strings.ToLower(c.Name)
		if n == "" {
			continue
		}
		if strings.Contains(n, q) || strings.Contains(q, n) {
			return c
		}
	}
	return nil
}
