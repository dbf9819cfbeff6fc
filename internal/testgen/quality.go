package testgen

import (
	"fmt"
	"regexp"
	"strings"

	"etlcheck/internal/mapping"
)

type qualityCheck int

const (
	checkWhitespace qualityCheck = iota
	checkMandatory
	checkRange
	checkCardinality
)

// qualityTriggers fire on the upper-cased transformation text or column names.
var qualityTriggers = []struct {
	check    qualityCheck
	keywords []string
}{
	{checkWhitespace, []string{"TRIM", "WHITESPACE", "SPACE"}},
	{checkMandatory, []string{"NOT NULL", "MANDATORY", "REQUIRED"}},
	{checkRange, []string{"RANGE", "BETWEEN", ">=", "<=", "POSITIVE", "NEGATIVE"}},
	{checkCardinality, []string{"UNIQUE", "DISTINCT", "CARDINALITY", "DEDUP"}},
}

var betweenBounds = regexp.MustCompile(`(?i)\bBETWEEN\s+(-?\d+(?:\.\d+)?)\s+AND\s+(-?\d+(?:\.\d+)?)`)

func triggered(m mapping.Mapping, keywords []string) bool {
	text := strings.ToUpper(m.TransformationLogic + " " + m.SourceColumn + " " + m.TargetColumn)
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// QualityTests returns data-quality checks for the mappings whose text or
// column names ask for them. Nothing triggers, nothing is returned.
func QualityTests(p mapping.TablePair, opts Options) []TestCase {
	opts = opts.withDefaults()
	src, tgt := sides(opts)
	_, tt := pairTables(p, src, tgt)

	var tests []TestCase
	for _, m := range p.Mappings {
		st := src.table(m.SourceTable, "source_table")
		for _, trig := range qualityTriggers {
			if !triggered(m, trig.keywords) {
				continue
			}
			tests = append(tests, qualityTest(trig.check, m, src, tgt, st, tt))
		}
	}
	return tests
}

func qualityTest(check qualityCheck, m mapping.Mapping, src, tgt side, st, tt tableRef) TestCase {
	column := qualifiedColumn(tt.display, m.TargetColumn)
	label := mappingLabel(st, tt, m)
	tc := tgt.col(m.TargetColumn)
	sc := src.col(m.SourceColumn)

	switch check {
	case checkWhitespace:
		return TestCase{
			Name:           "Whitespace Check - " + label,
			Description:    fmt.Sprintf("%s carries no leading or trailing whitespace", column),
			SourceSQL:      tgt.constant("0", "untrimmed_count"),
			TargetSQL:      tgt.count(tt, "untrimmed_count", fmt.Sprintf("%s <> %s", tc, tgt.d.TrimExpr(tc))),
			ExpectedResult: "0 untrimmed values",
			Category:       CategoryQuality,
			Severity:       SeverityMinor,
		}

	case checkMandatory:
		return TestCase{
			Name:           "Mandatory Field Check - " + label,
			Description:    fmt.Sprintf("%s is populated on every row", column),
			SourceSQL:      tgt.constant("0", "null_count"),
			TargetSQL:      tgt.count(tt, "null_count", tc+" IS NULL"),
			ExpectedResult: "0 NULL values",
			Category:       CategoryQuality,
			Severity:       SeverityCritical,
		}

	case checkRange:
		tgtSQL := fmt.Sprintf("SELECT MIN(%s) AS min_value, MAX(%s) AS max_value FROM %s", tc, tc, tgt.from(tt))
		srcSQL := fmt.Sprintf("SELECT MIN(%s) AS min_value, MAX(%s) AS max_value FROM %s", sc, sc, src.from(st))
		expected := "Target range matches the source range"
		upper := strings.ToUpper(m.TransformationLogic + " " + m.TargetColumn)
		switch b := betweenBounds.FindStringSubmatch(m.TransformationLogic); {
		case b != nil:
			srcSQL = tgt.constant("0", "out_of_range_count")
			tgtSQL = tgt.count(tt, "out_of_range_count", fmt.Sprintf("%s NOT BETWEEN %s AND %s", tc, b[1], b[2]))
			expected = fmt.Sprintf("0 values outside [%s, %s]", b[1], b[2])
		case strings.Contains(upper, "POSITIVE"):
			srcSQL = tgt.constant("0", "out_of_range_count")
			tgtSQL = tgt.count(tt, "out_of_range_count", tc+" <= 0")
			expected = "0 non-positive values"
		case strings.Contains(upper, "NEGATIVE"):
			srcSQL = tgt.constant("0", "out_of_range_count")
			tgtSQL = tgt.count(tt, "out_of_range_count", tc+" >= 0")
			expected = "0 non-negative values"
		}
		return TestCase{
			Name:           "Range Check - " + label,
			Description:    fmt.Sprintf("%s stays within its expected range", column),
			SourceSQL:      srcSQL,
			TargetSQL:      tgtSQL,
			ExpectedResult: expected,
			Category:       CategoryQuality,
			Severity:       SeverityMajor,
		}

	default:
		return TestCase{
			Name:           "Cardinality Check - " + label,
			Description:    fmt.Sprintf("Distinct values of %s match %s", column, qualifiedColumn(st.display, m.SourceColumn)),
			SourceSQL:      fmt.Sprintf("SELECT COUNT(DISTINCT %s) AS distinct_count FROM %s", sc, src.from(st)),
			TargetSQL:      fmt.Sprintf("SELECT COUNT(DISTINCT %s) AS distinct_count FROM %s", tc, tgt.from(tt)),
			ExpectedResult: "Distinct counts are equal",
			Category:       CategoryQuality,
			Severity:       SeverityMajor,
		}
	}
}
