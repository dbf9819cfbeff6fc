package mapping

import (
	"strings"

	"etlcheck/internal/dialect"
	"etlcheck/internal/schema"

	"golang.org/x/text/cases"
)

// TablePair is every mapping that lands in one target table, with the
// source tables that feed it in first-seen order.
type TablePair struct {
	Key          string
	TargetTable  string
	SourceTables []string
	Mappings     []Mapping
}

// SourceTable is the pair's primary source table.
func (p TablePair) SourceTable() string {
	if len(p.SourceTables) == 0 {
		return ""
	}
	return p.SourceTables[0]
}

// TableKey folds case, strips identifier decoration and drops separators:
// "[dbo].[Customer]", "DBO.CUSTOMER" and "dbo_customer" share a key.
func TableKey(name string) string {
	s := cases.Fold().String(dialect.StripDecoration(name))
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '_', '-', ' ', '\t':
			return -1
		}
		return r
	}, s)
}

// GroupByTarget groups mappings by target table. Mappings without a target
// table group under their source table.
func GroupByTarget(mappings []Mapping) []TablePair {
	var pairs []TablePair
	index := make(map[string]int)
	for _, m := range mappings {
		name := m.TargetTable
		if strings.TrimSpace(name) == "" {
			name = m.SourceTable
		}
		key := TableKey(name)

		i, ok := index[key]
		if !ok {
			i = len(pairs)
			index[key] = i
			pairs = append(pairs, TablePair{Key: key, TargetTable: m.TargetTable})
		}
		p := &pairs[i]
		if p.TargetTable == "" {
			p.TargetTable = m.TargetTable
		}
		if m.SourceTable != "" && !hasKey(p.SourceTables, m.SourceTable) {
			p.SourceTables = append(p.SourceTables, m.SourceTable)
		}
		p.Mappings = append(p.Mappings, m)
	}
	return pairs
}

func hasKey(names []string, name string) bool {
	k := TableKey(name)
	for _, n := range names {
		if TableKey(n) == k {
			return true
		}
	}
	return false
}

// OrderByDependencies puts pairs whose target table is known to db in
// foreign-key order (referenced tables first). Unresolved pairs follow in
// their original order.
func OrderByDependencies(pairs []TablePair, db *schema.Database) []TablePair {
	if db == nil || len(pairs) < 2 {
		return pairs
	}

	byTable := make(map[*schema.Table][]int)
	var tables []*schema.Table
	var rest []int
	for i, p := range pairs {
		t := schema.FindTable(db, p.TargetTable)
		if t == nil {
			rest = append(rest, i)
			continue
		}
		if _, ok := byTable[t]; !ok {
			tables = append(tables, t)
		}
		byTable[t] = append(byTable[t], i)
	}

	out := make([]TablePair, 0, len(pairs))
	for _, t := range schema.SortTablesByFKCount(tables) {
		for _, i := range byTable[t] {
			out = append(out, pairs[i])
		}
	}
	for _, i := range rest {
		out = append(out, pairs[i])
	}
	return out
}
