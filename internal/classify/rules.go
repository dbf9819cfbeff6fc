package classify

import "regexp"

type rule struct {
	typ      Type
	patterns []*regexp.Regexp
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// rules run against upper-cased text, most specific first.
var rules = []rule{
	{Lookup, patterns(
		`\b(LOOKUP|LKP|JOIN|XREF|CROSSWALK)\b`,
		`\bLKP_`,
		`REFERENCE\s+TABLE`,
		`\bMAP(PED)?\s+(TO|FROM|USING)\b`,
	)},
	{DateFormat, patterns(
		`\b(TO_DATE|TO_TIMESTAMP|DATE_FORMAT|FORMAT_DATE|STR_TO_DATE|DATE_TRUNC|DATEADD|DATEDIFF|DATEPART|TRUNC_DATE)\b`,
		`\bCONVERT\s*\(\s*(DATE|DATETIME2?|SMALLDATETIME)\b`,
		`\bTO_CHAR\s*\([^)]*'(YYYY|DD|MM|HH)`,
		`\b(YYYY|YY)[-/]?MM[-/]?DD\b`,
		`\b(MM|DD)/(DD|MM)/(YYYY|YY)\b`,
		`\bDATE\s+FORMAT`,
		`\bFORMAT\s+(AS\s+)?DATE\b`,
	)},
	{Trim, patterns(
		`\b(TRIM|LTRIM|RTRIM|BTRIM)\b`,
		`\b(REMOVE|STRIP)\s+(LEADING\s+|TRAILING\s+)?(WHITE\s*)?SPACES?\b`,
	)},
	{Concatenation, patterns(
		`\b(CONCAT|CONCAT_WS|CONCATENATE|CONCATENATION)\b`,
		`\|\|`,
		`'\s*\+|\+\s*'`,
		`\bCOMBINE\b`,
	)},
	{CaseConversion, patterns(
		`\b(UPPER|LOWER|UCASE|LCASE|INITCAP|PROPER)\b`,
		`\b(UPPER|LOWER|TITLE)\s*-?\s*CASE\b`,
		`\b(UPPERCASE|LOWERCASE|CAPITALI[SZ]E)\b`,
	)},
	{StringReplace, patterns(
		`\b(REPLACE|REGEXP_REPLACE|TRANSLATE|STUFF|SUBSTR|SUBSTRING|LEFT|RIGHT|LPAD|RPAD|SPLIT_PART)\b`,
		`\b(REMOVE|REMOVED|REMOVING|STRIP|STRIPPED|STRIPPING|MASK|MASKED|MASKING|PAD|PADDED|PADDING)\b`,
		`\bLEADING\s+ZEROS?\b`,
	)},
	{NullHandling, patterns(
		`\b(COALESCE|ISNULL|NVL|NVL2|IFNULL|NULLIF|ZEROIFNULL)\b`,
		`\bIS\s+(NOT\s+)?NULL\b`,
		`\bNULL\b`,
		`\bDEFAULT\b`,
	)},
	{Aggregation, patterns(
		`\b(SUM|COUNT|AVG|MIN|MAX|LISTAGG|STRING_AGG|GROUP_CONCAT)\s*\(`,
		`\bGROUP\s+BY\b`,
		`\b(AGGREGATE|AGGREGATED|AGGREGATION|TOTAL\s+OF)\b`,
	)},
	{TypeCast, patterns(
		`\b(CAST|TRY_CAST|CONVERT|TRY_CONVERT|TO_NUMBER|TO_DECIMAL|PARSE)\b`,
		`::\s*\w`,
		`\bCONVERT(ED)?\s+TO\b`,
	)},
	{BusinessRule, patterns(
		`\b(CASE|WHEN|THEN|IIF|DECODE)\b`,
		`\bIF\b`,
		`\b(DERIVE|DERIVED|CALCULATE|CALCULATED|COMPUTE|COMPUTED)\b`,
		`\bBUSINESS\s+RULE\b`,
		`\bBASED\s+ON\b`,
	)},
	// arithmetic is reported as a business rule
	{BusinessRule, patterns(
		`[\w)\]]\s*[-+*/%]\s*[\w(\[]`,
		`\b(ROUND|FLOOR|CEILING|CEIL|ABS|MOD|POWER)\s*\(`,
	)},
}

// directPhrases are exact "no transformation" texts, compared upper-cased
// with collapsed whitespace.
var directPhrases = []string{
	"DIRECT",
	"DIRECT MOVE",
	"DIRECT MAPPING",
	"DIRECT MAP",
	"STRAIGHT MOVE",
	"STRAIGHT MAP",
	"SAME",
	"SAME AS SOURCE",
	"AS IS",
	"AS-IS",
	"1:1",
	"ONE TO ONE",
	"ONE-TO-ONE",
	"COPY",
	"MOVE",
	"PASS THROUGH",
	"PASS-THROUGH",
	"PASSTHROUGH",
	"NO TRANSFORMATION",
	"NO CHANGE",
	"NONE",
	"N/A",
	"NA",
	"-",
	"--",
	"BLANK",
}

// sqlKeywords never count as a bare column reference.
var sqlKeywords = map[string]bool{
	"CASE": true, "WHEN": true, "THEN": true, "ELSE": true, "END": true,
	"NULL": true, "SELECT": true, "FROM": true, "WHERE": true, "AND": true, "OR": true, "NOT": true,
}
