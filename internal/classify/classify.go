package classify

import (
	"regexp"
	"strings"

	"etlcheck/internal/dialect"
)

var (
	spaces      = regexp.MustCompile(`\s+`)
	operators   = regexp.MustCompile(`[()+*/%=<>|']`)
	identifier  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$#]*(\.[A-Za-z_][A-Za-z0-9_$#]*)*$`)
	caseMarker  = regexp.MustCompile(`\bCASE\b`)
	whenMarker  = regexp.MustCompile(`\bWHEN\b`)
	joinMarker  = regexp.MustCompile(`\bJOIN\b`)
	queryMarker = regexp.MustCompile(`\bSELECT\b`)
)

func normalize(logic string) string {
	return spaces.ReplaceAllString(strings.ToUpper(strings.TrimSpace(logic)), " ")
}

// IsDirectMove recognizes texts that describe no real transformation: a
// known phrase (optionally followed by words that name no transformation),
// blank, or a bare column
// reference such as "CUST_ID" or "[dbo].[Customer].[Name]".
func IsDirectMove(logic string) bool {
	u := strings.TrimRight(normalize(logic), ".;")
	if u == "" {
		return true
	}
	for _, p := range directPhrases {
		if u == p {
			return true
		}
	}
	// "Straight move from source" is direct, "Copy and trim spaces" is not
	if !operators.MatchString(u) && matchRule(u) == "" {
		for _, p := range directPhrases {
			if len(p) > 2 && strings.HasPrefix(u, p+" ") {
				return true
			}
		}
	}

	bare := dialect.StripDecoration(u)
	if !identifier.MatchString(bare) {
		return false
	}
	for _, part := range strings.Split(bare, ".") {
		if sqlKeywords[part] {
			return false
		}
	}
	// a single word like TRIM or UPPERCASE names a transformation
	return matchRule(bare) == ""
}

func matchRule(u string) Type {
	for _, r := range rules {
		for _, p := range r.patterns {
			if p.MatchString(u) {
				return r.typ
			}
		}
	}
	return ""
}

// Classify assigns the most specific category to transformation text.
func Classify(logic string) Type {
	if IsDirectMove(logic) {
		return DirectMove
	}
	if t := matchRule(normalize(logic)); t != "" {
		return t
	}
	return Unknown
}

// AssessComplexity counts CASE, WHEN, JOIN, SELECT and parenthesis groups:
// none is simple, one or two medium, more complex.
func AssessComplexity(logic string) Complexity {
	u := normalize(logic)
	n := len(caseMarker.FindAllStringIndex(u, -1)) +
		len(whenMarker.FindAllStringIndex(u, -1)) +
		len(joinMarker.FindAllStringIndex(u, -1)) +
		len(queryMarker.FindAllStringIndex(u, -1)) +
		strings.Count(u, "(")
	switch {
	case n == 0:
		return Simple
	case n <= 2:
		return Medium
	default:
		return Complex
	}
}
