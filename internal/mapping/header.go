package mapping

import (
	"strings"

	"etlcheck/internal/sheet"
)

const headerScanRows = 15

var headerKeywords = []string{
	"source", "target", "transformation", "mapping", "rule", "field", "column",
	"src", "tgt", "business", "extraction", "loading", "metadata", "comment",
}

func keywordHits(s string) int {
	l := strings.ToLower(s)
	n := 0
	for _, kw := range headerKeywords {
		if strings.Contains(l, kw) {
			n++
		}
	}
	return n
}

// labelLike reports whether a cell reads like a column label rather than data.
func labelLike(s string) bool {
	return s != "" && len(s) <= 60 && !strings.ContainsAny(s, "()=+*|<>'") && len(strings.Fields(s)) <= 5
}

// headerScore returns key hits (weight 1) and value hits (weight 2 when
// applied). Auto-generated keys never score. Values only score when at least
// half of the row's non-blank cells are keyword-bearing labels and they
// outscore the row's own keys, so a data row whose cells say "src_cust_id" or
// "lookup from source" does not pass for a header.
func headerScore(r sheet.Row) (keyHits, valueHits int) {
	for _, k := range r.Keys() {
		if !isPlaceholder(k) {
			keyHits += keywordHits(k)
		}
	}
	nonBlank, labels := 0, 0
	for _, v := range r.Values() {
		if isPlaceholder(v) {
			continue
		}
		nonBlank++
		if labelLike(v) {
			if n := keywordHits(v); n > 0 {
				labels++
				valueHits += n
			}
		}
	}
	if nonBlank == 0 || labels*2 < nonBlank {
		valueHits = 0
	}
	// values must read more like a header than the keys the row already has
	if 2*valueHits <= keyHits {
		valueHits = 0
	}
	return keyHits, valueHits
}

// discoverHeader finds the effective header within the first rows and
// returns the rows that follow it keyed by that header. When the header sits
// in a row's values, later rows are re-keyed positionally with those labels.
func discoverHeader(rows []sheet.Row) []sheet.Row {
	if len(rows) == 0 {
		return rows
	}
	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}

	best, bestScore, bestValues := 0, -1, 0
	for i := 0; i < limit; i++ {
		k, v := headerScore(rows[i])
		if score := k + 2*v; score > bestScore {
			best, bestScore, bestValues = i, score, v
		}
	}

	if bestValues == 0 {
		return rows[best:]
	}

	hdr := rows[best]
	keys := hdr.Keys()
	labels := make([]string, len(keys))
	for i, k := range keys {
		if v := hdr.Value(k); v != "" {
			labels[i] = v
		} else {
			labels[i] = k
		}
	}
	labels = sheet.Headers(labels)

	out := make([]sheet.Row, 0, len(rows)-best-1)
	for _, r := range rows[best+1:] {
		var nr sheet.Row
		for i, k := range keys {
			nr.Set(labels[i], r.Get(k))
		}
		for _, k := range r.Keys() {
			if !hdr.Has(k) {
				nr.Set(k, r.Get(k))
			}
		}
		if !nr.IsEmpty() {
			out = append(out, nr)
		}
	}
	return out
}

// columnsOf is the union of row keys in first-seen order.
func columnsOf(rows []sheet.Row) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, r := range rows {
		for _, k := range r.Keys() {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}
