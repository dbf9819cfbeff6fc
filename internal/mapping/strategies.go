package mapping

import (
	"strings"

	"etlcheck/internal/sheet"
)

const (
	multiSourceBase    = 0.6
	multiSourceStep    = 0.05
	multiSourceMax     = 0.8
	rulesFull          = 0.7
	rulesPartial       = 0.6
	verticalScale      = 0.9
	genericConfidence  = 0.05
	minVerticalHeaders = 2
)

// UnnamedTargetTable stands in for the target of a fan-in sheet that never
// names it, so all of its source systems stay in one table pair.
const UnnamedTargetTable = "target_table"

// annotation and structural headers never count as source systems
var nonSourceHeaderTokens = []string{
	"comment", "note", "remark", "description", "desc", "logic", "transformation", "rule", "owner",
	"table", "schema", "database", "type", "length", "size", "nullable", "key", "sequence",
}

var rowNumberHeaders = map[string]bool{
	"id": true, "no": true, "num": true, "number": true, "seq": true, "sno": true, "srno": true,
	"slno": true, "line": true, "row": true, "order": true,
}

func isSourceSystemHeader(h string) bool {
	n := normalizeHeader(h)
	if n == "" || isPlaceholder(h) || rowNumberHeaders[n] {
		return false
	}
	for _, tok := range nonSourceHeaderTokens {
		if strings.Contains(n, tok) {
			return false
		}
	}
	return true
}

// parseMultiSource reads fan-in sheets: one target column and a column per
// source system whose cells name the source field.
func parseMultiSource(rows []sheet.Row, headers []string) *result {
	roles := assignRoles(headers)
	target, ok := roles[roleTargetColumn]
	if !ok {
		return nil
	}

	var sources []string
	for _, h := range headers {
		if h != target && isSourceSystemHeader(h) {
			sources = append(sources, h)
		}
	}
	if len(sources) < 2 {
		return nil
	}

	logicHeader := roles[roleTransformation]
	tableHeader := roles[roleTargetTable]
	fill := fillDown{}
	seen := dedupe{}
	var out []Mapping
	for _, r := range rows {
		tgtTable := ""
		if tableHeader != "" {
			tgtTable = fill.value(roleTargetTable, r.Value(tableHeader))
		}
		// every source system feeds one target, named or not
		if tgtTable == "" {
			tgtTable = UnnamedTargetTable
		}
		tgt := cleanValue(r.Value(target))
		if isPlaceholder(tgt) {
			continue
		}
		logic := ""
		if logicHeader != "" {
			logic = r.Value(logicHeader)
		}
		for _, h := range sources {
			src := cleanValue(r.Value(h))
			if isPlaceholder(src) {
				continue
			}
			m := newMapping(src, tgt, cleanValue(h), tgtTable, logic, "")
			if seen.add(m) {
				out = append(out, m)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}

	confidence := multiSourceBase + multiSourceStep*float64(len(sources))
	if confidence > multiSourceMax {
		confidence = multiSourceMax
	}
	return &result{format: FormatMultiSource, confidence: confidence, mappings: out}
}

func findHeader(headers []string, match func(n string) bool) string {
	for _, h := range headers {
		if n := normalizeHeader(h); n != "" && match(n) {
			return h
		}
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// parseRules extracts a rule catalog: "<id>: <description> (<syntax>)".
func parseRules(rows []sheet.Row, headers []string) *result {
	idHeader := findHeader(headers, func(n string) bool {
		return containsAny(n, "ruleid", "ruleno", "rulenumber", "rulecode")
	})
	if idHeader == "" {
		return nil
	}
	descHeader := findHeader(headers, func(n string) bool {
		return n == "desc" || containsAny(n, "description", "ruledesc")
	})
	syntaxHeader := findHeader(headers, func(n string) bool {
		return containsAny(n, "syntax", "expression", "sql", "formula", "logic")
	})
	if descHeader == "" && syntaxHeader == "" {
		return nil
	}

	var rules []string
	seen := make(map[string]bool)
	for _, r := range rows {
		id := r.Value(idHeader)
		if isPlaceholder(id) {
			continue
		}
		var desc, syntax string
		if descHeader != "" {
			desc = r.Value(descHeader)
		}
		if syntaxHeader != "" {
			syntax = r.Value(syntaxHeader)
		}
		var text string
		switch {
		case desc != "" && syntax != "":
			text = id + ": " + desc + " (" + syntax + ")"
		case desc != "":
			text = id + ": " + desc
		case syntax != "":
			text = id + ": " + syntax
		default:
			continue
		}
		if !seen[text] {
			seen[text] = true
			rules = append(rules, text)
		}
	}
	if len(rules) == 0 {
		return nil
	}

	confidence := rulesPartial
	if descHeader != "" && syntaxHeader != "" {
		confidence = rulesFull
	}
	return &result{format: FormatTransformationRules, confidence: confidence, rules: rules}
}

// parseVertical re-dispatches to the standard reader when several headers
// mention a source or target side.
func parseVertical(rows []sheet.Row, headers []string) *result {
	n := 0
	for _, h := range headers {
		if containsAny(normalizeHeader(h), "source", "target", "src", "tgt") {
			n++
		}
	}
	if n < minVerticalHeaders {
		return nil
	}
	r := parseStandard(rows, headers)
	if r == nil {
		return nil
	}
	return &result{
		format:     FormatVertical,
		confidence: r.confidence * verticalScale,
		mappings:   r.mappings,
		rules:      r.rules,
	}
}

func parseGeneric([]sheet.Row, []string) *result {
	return &result{format: FormatGeneric, confidence: genericConfidence}
}
