package testgen

import (
	"regexp"
	"strings"

	"etlcheck/internal/dialect"
)

// The recognized forms are deliberately few. Anything else compares the
// bare source column.
var (
	callExpr     = regexp.MustCompile(`(?s)^\s*([A-Za-z_][A-Za-z0-9_]*)\s*\((.*)\)\s*$`)
	identExpr    = regexp.MustCompile(`^` + identPart + `(\.` + identPart + `)*$`)
	literalExpr  = regexp.MustCompile(`^('(?:[^']|'')*'|-?\d+(?:\.\d+)?)$`)
	intExpr      = regexp.MustCompile(`^-?\d+$`)
	castTypeExpr = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_ ]*(\(\s*(\d+|MAX|max)(\s*,\s*\d+)?\s*\))?$`)
	castAsSplit  = regexp.MustCompile(`(?i)^(.*)\s+AS\s+(.+)$`)
)

const (
	identPart     = `(\[[^\]]+\]|"[^"]+"|` + "`[^`]+`" + `|[A-Za-z_#$][A-Za-z0-9_$#]*)`
	maxSynthDepth = 4
)

// synthesize rewrites logic onto column: "UPPER(Name)" with column s.[Name]
// gives UPPER(s.[Name]). Unrecognized logic gives column.
func synthesize(logic, column string, d dialect.Dialect) string {
	if expr, ok := synth(strings.TrimSpace(logic), column, d, 0); ok {
		return expr
	}
	return column
}

func synth(logic, column string, d dialect.Dialect, depth int) (string, bool) {
	if depth > maxSynthDepth {
		return "", false
	}
	if identExpr.MatchString(logic) {
		return column, true
	}
	m := callExpr.FindStringSubmatch(logic)
	if m == nil {
		return "", false
	}
	fn := strings.ToUpper(m[1])
	args := splitArgs(m[2])
	if len(args) == 0 {
		return "", false
	}

	switch fn {
	case "UPPER", "LOWER", "LTRIM", "RTRIM":
		if len(args) != 1 {
			return "", false
		}
		inner, ok := synth(args[0], column, d, depth+1)
		if !ok {
			return "", false
		}
		return fn + "(" + inner + ")", true

	case "TRIM":
		if len(args) != 1 {
			return "", false
		}
		inner, ok := synth(args[0], column, d, depth+1)
		if !ok {
			return "", false
		}
		return d.TrimExpr(inner), true

	case "COALESCE", "ISNULL", "NVL", "IFNULL":
		if len(args) != 2 || !literalExpr.MatchString(args[1]) {
			return "", false
		}
		inner, ok := synth(args[0], column, d, depth+1)
		if !ok {
			return "", false
		}
		return d.NullDefault(inner, args[1]), true

	case "CAST":
		if len(args) != 1 {
			return "", false
		}
		parts := castAsSplit.FindStringSubmatch(args[0])
		if parts == nil {
			return "", false
		}
		typ := strings.TrimSpace(parts[2])
		if !castTypeExpr.MatchString(typ) {
			return "", false
		}
		inner, ok := synth(strings.TrimSpace(parts[1]), column, d, depth+1)
		if !ok {
			return "", false
		}
		return "CAST(" + inner + " AS " + strings.ToUpper(typ) + ")", true

	case "ROUND":
		if len(args) != 2 || !intExpr.MatchString(args[1]) {
			return "", false
		}
		inner, ok := synth(args[0], column, d, depth+1)
		if !ok {
			return "", false
		}
		return "ROUND(" + inner + ", " + args[1] + ")", true
	}
	return "", false
}

// splitArgs splits on top-level commas, outside parentheses and quotes.
func splitArgs(s string) []string {
	var (
		out   []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ',' && depth == 0:
			out = append(out, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if last := strings.TrimSpace(s[start:]); last != "" || len(out) > 0 {
		out = append(out, last)
	}
	return out
}
