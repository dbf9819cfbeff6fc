package classify

// Type is the semantic category of a transformation.
type Type string

const (
	DirectMove     Type = "direct_move"
	Lookup         Type = "lookup"
	DateFormat     Type = "date_format"
	Trim           Type = "trim"
	Concatenation  Type = "concatenation"
	NullHandling   Type = "null_handling"
	Aggregation    Type = "aggregation"
	CaseConversion Type = "case_conversion"
	StringReplace  Type = "string_replace"
	TypeCast       Type = "type_cast"
	BusinessRule   Type = "business_rule"
	Unknown        Type = "unknown"
)

var labels = map[Type]string{
	DirectMove:     "Direct move",
	Lookup:         "Lookup",
	DateFormat:     "Date formatting",
	Trim:           "Trim",
	Concatenation:  "Concatenation",
	NullHandling:   "Null handling",
	Aggregation:    "Aggregation",
	CaseConversion: "Case conversion",
	StringReplace:  "String manipulation",
	TypeCast:       "Type cast",
	BusinessRule:   "Business rule",
	Unknown:        "Unclassified",
}

// Label is a human-readable name for t.
func (t Type) Label() string {
	if l, ok := labels[t]; ok {
		return l
	}
	return string(t)
}

type Complexity string

const (
	Simple  Complexity = "simple"
	Medium  Complexity = "medium"
	Complex Complexity = "complex"
)
