package sheet

import (
	"fmt"
	"sort"
	"strings"
)

// Row is one spreadsheet row: header keys in column order plus their cells.
type Row struct {
	keys  []string
	cells map[string]Cell
}

// NewRow builds a row from alternating key, value pairs.
func NewRow(kv ...any) Row {
	var r Row
	for i := 0; i+1 < len(kv); i += 2 {
		k, _ := kv[i].(string)
		r.Set(k, FromValue(kv[i+1]))
	}
	return r
}

// Set assigns a cell; new keys are appended to the column order.
func (r *Row) Set(key string, c Cell) {
	if r.cells == nil {
		r.cells = make(map[string]Cell)
	}
	if _, ok := r.cells[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.cells[key] = c
}

// Get returns the cell for key, blank when the key is unknown.
func (r Row) Get(key string) Cell { return r.cells[key] }

func (r Row) Has(key string) bool {
	_, ok := r.cells[key]
	return ok
}

// Value is Get(key).String().
func (r Row) Value(key string) string { return r.cells[key].String() }

func (r Row) Keys() []string { return append([]string(nil), r.keys...) }

func (r Row) Len() int { return len(r.keys) }

// At returns the cell in column position i.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r.keys) {
		return Cell{}
	}
	return r.cells[r.keys[i]]
}

// Values returns cell texts in column order.
func (r Row) Values() []string {
	out := make([]string, len(r.keys))
	for i, k := range r.keys {
		out[i] = r.cells[k].String()
	}
	return out
}

// IsEmpty reports whether every cell is blank.
func (r Row) IsEmpty() bool {
	for _, c := range r.cells {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}

// FromMap builds a row from an unordered map. order fixes the column order
// of known keys; remaining keys follow sorted.
func FromMap(m map[string]any, order []string) Row {
	var r Row
	for _, k := range order {
		if v, ok := m[k]; ok {
			r.Set(k, FromValue(v))
		}
	}
	rest := make([]string, 0, len(m))
	for k := range m {
		if !r.Has(k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		r.Set(k, FromValue(m[k]))
	}
	return r
}

// Headers cleans a header record: blank names become column_<n>, repeated
// names get a _<n> suffix.
func Headers(record []string) []string {
	out := make([]string, len(record))
	seen := make(map[string]int, len(record))
	for i, h := range record {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[strings.ToLower(h)]; n > 0 {
			seen[strings.ToLower(h)] = n + 1
			h = fmt.Sprintf("%s_%d", h, n+1)
		} else {
			seen[strings.ToLower(h)] = 1
		}
		out[i] = h
	}
	return out
}

// FromRecords turns a header record plus data records into rows. Short
// records pad with blanks, long ones get column_<n> keys. Fully blank data
// records are skipped.
func FromRecords(header []string, records [][]string) []Row {
	keys := Headers(header)
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		var r Row
		for i := 0; i < len(keys) || i < len(rec); i++ {
			key := fmt.Sprintf("column_%d", i+1)
			if i < len(keys) {
				key = keys[i]
			}
			c := Cell{}
			if i < len(rec) {
				c = ParseCell(rec[i])
			}
			r.Set(key, c)
		}
		if r.IsEmpty() {
			continue
		}
		rows = append(rows, r)
	}
	return rows
}
