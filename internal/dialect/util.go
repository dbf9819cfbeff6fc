package dialect

import (
	"regexp"
	"strings"
)

// quoteWith wraps name in open/close and doubles any embedded closer.
func quoteWith(open, close, name string) string {
	return open + strings.ReplaceAll(name, close, close+close) + close
}

// Unquote reverses QuoteIdent for any dialect: [a]]b] -> a]b, `a` -> a, "a""b" -> a"b.
// Undecorated input is returned as is.
func Unquote(ident string) string {
	if len(ident) < 2 {
		return ident
	}
	first, last := ident[0], ident[len(ident)-1]
	switch {
	case first == '[' && last == ']':
		return strings.ReplaceAll(ident[1:len(ident)-1], "]]", "]")
	case first == '`' && last == '`':
		return strings.ReplaceAll(ident[1:len(ident)-1], "``", "`")
	case first == '"' && last == '"':
		return strings.ReplaceAll(ident[1:len(ident)-1], `""`, `"`)
	}
	return ident
}

var decoration = strings.NewReplacer("[", "", "]", "", "`", "", `"`, "")

// StripDecoration removes every bracket, backtick and double quote from s.
// Sheet cells such as "[dbo].[Customer]" or `"Name"` become plain text.
func StripDecoration(s string) string {
	return strings.TrimSpace(decoration.Replace(s))
}

// SplitQualified splits db.schema.table on dots that are not inside quotes
// and unquotes each segment. Empty segments are dropped.
func SplitQualified(name string) []string {
	var (
		parts  []string
		cur    strings.Builder
		closer byte
	)
	flush := func() {
		seg := Unquote(strings.TrimSpace(cur.String()))
		if seg != "" {
			parts = append(parts, seg)
		}
		cur.Reset()
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case closer != 0:
			cur.WriteByte(c)
			if c == closer {
				// doubled closer stays inside the quoted segment
				if i+1 < len(name) && name[i+1] == closer {
					cur.WriteByte(name[i+1])
					i++
					continue
				}
				closer = 0
			}
		case c == '[':
			closer = ']'
			cur.WriteByte(c)
		case c == '`' || c == '"':
			closer = c
			cur.WriteByte(c)
		case c == '.':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return parts
}

// QuoteQualified quotes every segment of a multi-part identifier for d.
func QuoteQualified(d Dialect, name string) string {
	parts := SplitQualified(name)
	for i, p := range parts {
		parts[i] = d.QuoteIdent(p)
	}
	return strings.Join(parts, ".")
}

// Literal renders s as a single-quoted SQL string literal.
func Literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// LiteralList renders a comma-separated list of string literals.
func LiteralList(values []string) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Literal(v)
	}
	return strings.Join(out, ", ")
}

var typeParams = regexp.MustCompile(`\s*\(.*\)\s*$`)

// DefaultNormalizeType maps an engine type onto a small family vocabulary:
// string, integer, decimal, float, datetime, boolean, binary. Unknown types
// come back lower-cased without parameters.
func DefaultNormalizeType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(typeParams.ReplaceAllString(sqlType, "")))
	switch {
	case t == "":
		return ""
	case strings.Contains(t, "char") || strings.Contains(t, "text") || strings.Contains(t, "clob") ||
		t == "string" || t == "uuid" || t == "uniqueidentifier" || t == "xml" || t == "json" || t == "jsonb":
		return "string"
	case strings.Contains(t, "bool") || t == "bit":
		return "boolean"
	case strings.HasPrefix(t, "int") || strings.HasSuffix(t, "int") || t == "serial" || t == "bigserial":
		return "integer"
	case strings.Contains(t, "decimal") || strings.Contains(t, "numeric") || strings.Contains(t, "money") || t == "number":
		return "decimal"
	case strings.Contains(t, "float") || strings.Contains(t, "double") || t == "real":
		return "float"
	case strings.Contains(t, "date") || strings.Contains(t, "time"):
		return "datetime"
	case strings.Contains(t, "binary") || strings.Contains(t, "blob") || t == "bytea" || t == "image" || t == "raw":
		return "binary"
	default:
		return t
	}
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}

// limitSuffix is the LIMIT form shared by most engines.
func limitSuffix(query string, limit int) string {
	return strings.TrimRight(query, " ;\n") + " LIMIT " + itoa(limit)
}
