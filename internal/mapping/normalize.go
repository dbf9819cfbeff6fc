package mapping

import (
	"regexp"
	"strings"
	"unicode"

	"etlcheck/internal/dialect"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizeHeader lowercases, strips accents (NFD -> remove Mn -> NFC) and
// drops everything but [a-z0-9]: "Código Fuente" -> "codigofuente".
func normalizeHeader(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		ascii = strings.ToLower(s)
	}

	var b strings.Builder
	for _, r := range ascii {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var placeholderTokens = map[string]bool{
	"":          true,
	"n/a":       true,
	"na":        true,
	"none":      true,
	"null":      true,
	"nil":       true,
	"-":         true,
	"--":        true,
	"?":         true,
	"tbd":       true,
	"unknown":   true,
	"undefined": true,
}

var generatedName = regexp.MustCompile(`^(column|field|col)[ _-]?\d+$|^__empty(_\d+)?$|^unnamed:?\s*\d+$`)

// isPlaceholder rejects blanks, filler tokens and auto-generated header names.
func isPlaceholder(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return placeholderTokens[s] || generatedName.MatchString(s)
}

// cleanValue trims a column or table cell and strips identifier decoration.
func cleanValue(v string) string {
	return dialect.StripDecoration(v)
}

// qualify joins the non-empty parts of db.schema.table. Without a table
// there is nothing to qualify.
func qualify(db, schemaName, table string) string {
	if table == "" {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{db, schemaName, table} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
