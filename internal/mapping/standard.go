package mapping

import (
	"strings"

	"etlcheck/internal/classify"
	"etlcheck/internal/sheet"
)

// result is one strategy's extraction.
type result struct {
	format     Format
	confidence float64
	mappings   []Mapping
	rules      []string
}

const (
	weightSourceColumn = 0.35
	weightTargetColumn = 0.35
	weightTransform    = 0.2
	weightSourceTable  = 0.1

	standardMinConfidence = 0.4
	enterpriseColumns     = 19
	enterpriseConfidence  = 0.95
)

// fillDown remembers the last non-blank value per role.
type fillDown map[role]string

func (f fillDown) value(r role, v string) string {
	v = cleanValue(v)
	if isPlaceholder(v) {
		return f[r]
	}
	f[r] = v
	return v
}

type dedupe map[[4]string]bool

// add reports whether m is new on (source table, target table, source column, target column).
func (d dedupe) add(m Mapping) bool {
	k := [4]string{
		strings.ToLower(m.SourceTable), strings.ToLower(m.TargetTable),
		strings.ToLower(m.SourceColumn), strings.ToLower(m.TargetColumn),
	}
	if d[k] {
		return false
	}
	d[k] = true
	return true
}

// newMapping classifies logic, falling back to the declared type text when
// the logic cell is blank.
func newMapping(src, tgt, srcTable, tgtTable, logic, declaredType string) Mapping {
	text := logic
	if text == "" && !isPlaceholder(declaredType) {
		text = declaredType
	}
	return Mapping{
		SourceColumn:        src,
		TargetColumn:        tgt,
		SourceTable:         srcTable,
		TargetTable:         tgtTable,
		TransformationType:  classify.Classify(text),
		TransformationLogic: logic,
		Complexity:          classify.AssessComplexity(logic),
	}
}

// parseStandard scores headers into roles and reads one mapping per row.
func parseStandard(rows []sheet.Row, headers []string) *result {
	if len(headers) == enterpriseColumns {
		if r := parseEnterprise(rows, headers); r != nil {
			return r
		}
	}

	roles := assignRoles(headers)
	confidence := 0.0
	if _, ok := roles[roleSourceColumn]; ok {
		confidence += weightSourceColumn
	}
	if _, ok := roles[roleTargetColumn]; ok {
		confidence += weightTargetColumn
	}
	if _, ok := roles[roleTransformation]; ok {
		confidence += weightTransform
	}
	if _, ok := roles[roleSourceTable]; ok {
		confidence += weightSourceTable
	}
	if confidence < standardMinConfidence {
		return nil
	}

	get := func(r sheet.Row, rl role) string {
		h, ok := roles[rl]
		if !ok {
			return ""
		}
		return r.Value(h)
	}

	fill := fillDown{}
	seen := dedupe{}
	var out []Mapping
	for _, r := range rows {
		srcTable := qualify(
			fill.value(roleSourceDatabase, get(r, roleSourceDatabase)),
			fill.value(roleSourceSchema, get(r, roleSourceSchema)),
			fill.value(roleSourceTable, get(r, roleSourceTable)),
		)
		tgtTable := qualify(
			fill.value(roleTargetDatabase, get(r, roleTargetDatabase)),
			fill.value(roleTargetSchema, get(r, roleTargetSchema)),
			fill.value(roleTargetTable, get(r, roleTargetTable)),
		)

		src := cleanValue(get(r, roleSourceColumn))
		tgt := cleanValue(get(r, roleTargetColumn))
		if isPlaceholder(src) || isPlaceholder(tgt) {
			continue
		}

		m := newMapping(src, tgt, srcTable, tgtTable, get(r, roleTransformation), get(r, roleTransformationType))
		m.SourceDataType = cleanValue(get(r, roleSourceDataType))
		m.TargetDataType = cleanValue(get(r, roleTargetDataType))
		if seen.add(m) {
			out = append(out, m)
		}
	}

	return &result{format: FormatStandard, confidence: confidence, mappings: out}
}

// enterprise layout positions
const (
	entSourceDB     = 1
	entSourceSchema = 2
	entSourceTable  = 3
	entSourceColumn = 4
	entSourceType   = 5
	entSourceLength = 6
	entLogic        = 8
	entLogicType    = 9
	entTargetDB     = 10
	entTargetSchema = 11
	entTargetTable  = 12
	entTargetColumn = 13
	entTargetType   = 14
	entTargetLength = 15
	entKeyFlag      = 17
)

var keyFlags = map[string]bool{"y": true, "yes": true, "true": true, "1": true, "pk": true, "x": true}

// parseEnterprise reads the fixed 19-column layout positionally. Returns
// nil when no row yields a mapping.
func parseEnterprise(rows []sheet.Row, headers []string) *result {
	fill := fillDown{}
	seen := dedupe{}
	var out []Mapping
	for _, r := range rows {
		at := func(i int) string { return r.Value(headers[i]) }

		srcTable := qualify(
			fill.value(roleSourceDatabase, at(entSourceDB)),
			fill.value(roleSourceSchema, at(entSourceSchema)),
			fill.value(roleSourceTable, at(entSourceTable)),
		)
		tgtTable := qualify(
			fill.value(roleTargetDatabase, at(entTargetDB)),
			fill.value(roleTargetSchema, at(entTargetSchema)),
			fill.value(roleTargetTable, at(entTargetTable)),
		)

		src := cleanValue(at(entSourceColumn))
		tgt := cleanValue(at(entTargetColumn))
		if isPlaceholder(src) || isPlaceholder(tgt) {
			continue
		}

		m := newMapping(src, tgt, srcTable, tgtTable, at(entLogic), at(entLogicType))
		m.SourceDataType = withLength(at(entSourceType), at(entSourceLength))
		m.TargetDataType = withLength(at(entTargetType), at(entTargetLength))
		m.IsKey = keyFlags[strings.ToLower(at(entKeyFlag))]
		if seen.add(m) {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return &result{format: FormatEnterprise, confidence: enterpriseConfidence, mappings: out}
}

// withLength renders "varchar" + "50" as "varchar(50)" unless the type
// already carries its length.
func withLength(typ, length string) string {
	typ = cleanValue(typ)
	length = strings.TrimSpace(length)
	if isPlaceholder(typ) {
		return ""
	}
	if isPlaceholder(length) || strings.Contains(typ, "(") {
		return typ
	}
	return typ + "(" + length + ")"
}
