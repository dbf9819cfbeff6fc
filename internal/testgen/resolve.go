package testgen

import (
	"fmt"
	"strings"

	"etlcheck/internal/dialect"
	"etlcheck/internal/mapping"
	"etlcheck/internal/schema"
)

// side is one end of a pipeline: its dialect, optional schema and alias.
type side struct {
	d     dialect.Dialect
	db    *schema.Database
	alias string
}

func sides(o Options) (src, tgt side) {
	return side{d: dialect.GetDialect(o.SourceDialect), db: o.SourceSchema, alias: "s"},
		side{d: dialect.GetDialect(o.TargetDialect), db: o.TargetSchema, alias: "t"}
}

// tableRef is a sheet table name resolved for one side.
type tableRef struct {
	display string
	schema  string
	name    string
	quoted  string
	info    *schema.Table
}

func (sd side) table(raw, placeholder string) tableRef {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = placeholder
	}
	ref := tableRef{display: dialect.StripDecoration(raw), quoted: dialect.QuoteQualified(sd.d, raw)}

	parts := dialect.SplitQualified(raw)
	if n := len(parts); n > 0 {
		ref.name = parts[n-1]
		if n > 1 {
			ref.schema = parts[n-2]
		}
	}
	if t := schema.FindTable(sd.db, raw); t != nil {
		ref.info = t
		ref.name = t.Name
		if t.Schema != "" {
			ref.schema = t.Schema
		}
	}
	return ref
}

// from renders "<table> <alias>".
func (sd side) from(t tableRef) string { return t.quoted + " " + sd.alias }

// col renders alias.[column].
func (sd side) col(name string) string { return sd.alias + "." + sd.d.QuoteIdent(name) }

func (sd side) ident(name string) string { return sd.d.QuoteIdent(name) }

func (sd side) limit(q string, n int) string { return sd.d.GetLimitRowQuery(q, n) }

// constant renders a one-row literal select, "SELECT 0 AS x" plus FROM DUAL where needed.
func (sd side) constant(value, alias string) string {
	return fmt.Sprintf("SELECT %s AS %s%s", value, alias, sd.d.FromDual())
}

func (sd side) count(t tableRef, alias, where string) string {
	q := fmt.Sprintf("SELECT COUNT(*) AS %s FROM %s", alias, sd.from(t))
	if where != "" {
		q += " WHERE " + where
	}
	return q
}

// columnType is the live type when the schema knows the column, else declared.
func columnType(t tableRef, column, declared string) string {
	if c := schema.FindColumn(t.info, column); c != nil && c.DataType != "" {
		return c.DataType
	}
	return declared
}

// colPair is one source column compared against one target column.
type colPair struct {
	src, tgt         string
	srcType, tgtType string
	m                *mapping.Mapping
}

// transformed reports a mapping whose values are expected to differ.
func (p colPair) transformed() bool { return p.m != nil && !p.m.IsDirect() }

func pairsFromMappings(ms []mapping.Mapping, src, tgt tableRef) []colPair {
	out := make([]colPair, 0, len(ms))
	for i := range ms {
		m := &ms[i]
		out = append(out, colPair{
			src:     m.SourceColumn,
			tgt:     m.TargetColumn,
			srcType: columnType(src, m.SourceColumn, m.SourceDataType),
			tgtType: columnType(tgt, m.TargetColumn, m.TargetDataType),
			m:       m,
		})
	}
	return out
}

// pairsFromSchema pairs same-named columns when no mappings were given.
// Without any schema there is nothing to pair.
func pairsFromSchema(src, tgt tableRef) []colPair {
	base := src.info
	other := tgt
	if base == nil {
		base = tgt.info
		other = src
	}
	if base == nil {
		return nil
	}
	var out []colPair
	for _, c := range base.Columns {
		if other.info != nil && schema.FindColumn(other.info, c.Name) == nil {
			continue
		}
		out = append(out, colPair{
			src:     c.Name,
			tgt:     c.Name,
			srcType: columnType(src, c.Name, c.DataType),
			tgtType: columnType(tgt, c.Name, c.DataType),
		})
	}
	return out
}

// keyPair picks the comparison key: the source primary key when all of its
// columns are mapped, else the first pair.
func keyPair(pairs []colPair, src tableRef) ([]colPair, bool) {
	if len(pairs) == 0 {
		return nil, false
	}
	if src.info != nil && len(src.info.PrimaryKey) > 0 {
		var keys []colPair
		for _, pk := range src.info.PrimaryKey {
			found := false
			for _, p := range pairs {
				if strings.EqualFold(p.src, pk) {
					keys = append(keys, p)
					found = true
					break
				}
			}
			if !found {
				keys = nil
				break
			}
		}
		if len(keys) > 0 {
			return keys, true
		}
	}
	return pairs[:1], false
}

func (sd side) cols(pairs []colPair, target bool) []string {
	out := make([]string, len(pairs))
	for i, p := range pairs {
		if target {
			out[i] = sd.col(p.tgt)
		} else {
			out[i] = sd.col(p.src)
		}
	}
	return out
}

func columnNames(pairs []colPair, target bool) []string {
	out := make([]string, len(pairs))
	for i, p := range pairs {
		if target {
			out[i] = p.tgt
		} else {
			out[i] = p.src
		}
	}
	return out
}
