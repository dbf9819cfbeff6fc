package testgen

import (
	"fmt"
	"strings"

	"etlcheck/internal/classify"
	"etlcheck/internal/dialect"
	"etlcheck/internal/mapping"
	"etlcheck/internal/schema"
)

const (
	maxSampleColumns = 5
	recentDays       = 1

	placeholderKey    = "key_column"
	placeholderSample = "sample_column"
	placeholderCode   = "code_column"
	placeholderDate   = "date_column"
)

// tablePair holds everything the comprehensive catalog renders from.
type tablePair struct {
	src, tgt side
	st, tt   tableRef
	pairs    []colPair
	keys     []colPair
	opts     Options
}

// GenerateTablePair returns the fixed comprehensive catalog for one table
// pair: metadata, completeness, quality, transformation, regression,
// reference, incremental, integration and performance tests. Columns come
// from mappings when given, else from the schemas, else placeholders.
func GenerateTablePair(sourceTable, targetTable string, opts Options, mappings []mapping.Mapping) []TestCase {
	opts = opts.withDefaults()
	src, tgt := sides(opts)
	if strings.TrimSpace(targetTable) == "" {
		targetTable = sourceTable
	}
	c := &tablePair{
		src:  src,
		tgt:  tgt,
		st:   src.table(sourceTable, "source_table"),
		tt:   tgt.table(targetTable, "target_table"),
		opts: opts,
	}

	var own []mapping.Mapping
	key := mapping.TableKey(sourceTable)
	for _, m := range mappings {
		if m.SourceTable == "" || mapping.TableKey(m.SourceTable) == key {
			own = append(own, m)
		}
	}
	if len(own) > 0 {
		c.pairs = pairsFromMappings(own, c.st, c.tt)
	} else {
		c.pairs = pairsFromSchema(c.st, c.tt)
	}
	if len(c.pairs) == 0 {
		c.pairs = []colPair{{src: placeholderKey, tgt: placeholderKey}, {src: placeholderSample, tgt: placeholderSample}}
	}
	c.keys, _ = keyPair(c.pairs, c.st)

	var tests []TestCase
	tests = append(tests, c.metadataTests()...)
	tests = append(tests, c.completenessTests()...)
	tests = append(tests, c.qualityTests()...)
	tests = append(tests, c.transformationTests()...)
	tests = append(tests, c.regressionTests()...)
	tests = append(tests, c.referenceTests()...)
	tests = append(tests, c.incrementalTests()...)
	tests = append(tests, c.integrationTests()...)
	tests = append(tests, c.performanceTests()...)
	return tests
}

func (c *tablePair) test(name, desc, srcSQL, tgtSQL, expected string, cat Category, sev Severity) TestCase {
	return TestCase{
		Name:           name + " - " + c.tt.display,
		Description:    desc,
		SourceSQL:      srcSQL,
		TargetSQL:      tgtSQL,
		ExpectedResult: expected,
		Category:       cat,
		Severity:       sev,
	}
}

func (c *tablePair) key() colPair { return c.keys[0] }

func (c *tablePair) samples() []colPair {
	if len(c.pairs) > maxSampleColumns {
		return c.pairs[:maxSampleColumns]
	}
	return c.pairs
}

// firstMatch returns the first pair satisfying ok, else a placeholder pair.
func (c *tablePair) firstMatch(placeholder string, ok func(colPair) bool) colPair {
	for _, p := range c.pairs {
		if ok(p) {
			return p
		}
	}
	return colPair{src: placeholder, tgt: placeholder}
}

func (c *tablePair) family(p colPair) string {
	if p.tgtType != "" {
		return c.tgt.d.NormalizeType(p.tgtType)
	}
	return c.src.d.NormalizeType(p.srcType)
}

// --- metadata ---

func (c *tablePair) metadataTests() []TestCase {
	srcCols, tgtCols := columnNames(c.pairs, false), columnNames(c.pairs, true)
	sampleSrc, sampleTgt := columnNames(c.samples(), false), columnNames(c.samples(), true)

	var families []string
	for _, p := range c.samples() {
		if p.srcType == "" && p.tgtType == "" {
			continue
		}
		families = append(families, fmt.Sprintf("%s: %s -> %s", p.tgt,
			orUnknown(c.src.d.NormalizeType(p.srcType)), orUnknown(c.tgt.d.NormalizeType(p.tgtType))))
	}
	typeDesc := "Sample column types are compatible"
	if len(families) > 0 {
		typeDesc += " (" + strings.Join(families, ", ") + ")"
	}

	return []TestCase{
		c.test("Metadata - Table Exists",
			fmt.Sprintf("%s and %s exist", c.st.display, c.tt.display),
			c.src.d.TableExistsQuery(c.st.schema, c.st.name),
			c.tgt.d.TableExistsQuery(c.tt.schema, c.tt.name),
			"table_count = 1 on both sides", CategoryMetadata, SeverityCritical),
		c.test("Metadata - Column Definitions",
			fmt.Sprintf("%d compared columns are defined on both sides", len(c.pairs)),
			c.src.d.ColumnMetadataQuery(c.st.schema, c.st.name, srcCols),
			c.tgt.d.ColumnMetadataQuery(c.tt.schema, c.tt.name, tgtCols),
			"Every compared column is returned", CategoryMetadata, SeverityMajor),
		c.test("Metadata - Primary Key Definition",
			"Primary key columns agree",
			c.src.d.PrimaryKeyColumnsQuery(c.st.schema, c.st.name),
			c.tgt.d.PrimaryKeyColumnsQuery(c.tt.schema, c.tt.name),
			"Same primary key columns in the same order", CategoryMetadata, SeverityMajor),
		c.test("Metadata - Data Type Compatibility",
			typeDesc,
			c.src.d.ColumnMetadataQuery(c.st.schema, c.st.name, sampleSrc),
			c.tgt.d.ColumnMetadataQuery(c.tt.schema, c.tt.name, sampleTgt),
			"Type families match", CategoryMetadata, SeverityMinor),
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// --- completeness ---

func (c *tablePair) completenessTests() []TestCase {
	k := c.key()
	limit := c.opts.SampleLimit

	population := func(sd side, target bool) string {
		parts := make([]string, 0, len(c.samples()))
		for _, p := range c.samples() {
			col := p.src
			if target {
				col = p.tgt
			}
			parts = append(parts, fmt.Sprintf("COUNT(%s) AS %s", sd.col(col), sd.ident(p.tgt+"_count")))
		}
		return strings.Join(parts, ", ")
	}

	return []TestCase{
		c.test("Completeness - Row Count",
			fmt.Sprintf("Row count of %s matches %s", c.tt.display, c.st.display),
			c.src.count(c.st, "row_count", ""),
			c.tgt.count(c.tt, "row_count", ""),
			"Row counts are equal", CategoryGeneral, SeverityCritical),
		c.test("Completeness - Distinct Key Count",
			fmt.Sprintf("Distinct %s values match", k.tgt),
			fmt.Sprintf("SELECT COUNT(DISTINCT %s) AS distinct_keys FROM %s", c.src.col(k.src), c.src.from(c.st)),
			fmt.Sprintf("SELECT COUNT(DISTINCT %s) AS distinct_keys FROM %s", c.tgt.col(k.tgt), c.tgt.from(c.tt)),
			"Distinct key counts are equal", CategoryGeneral, SeverityCritical),
		c.test("Completeness - Column Population",
			"Non-null counts per sample column match",
			fmt.Sprintf("SELECT %s FROM %s", population(c.src, false), c.src.from(c.st)),
			fmt.Sprintf("SELECT %s FROM %s", population(c.tgt, true), c.tgt.from(c.tt)),
			"Per-column counts are equal", CategoryGeneral, SeverityMajor),
		c.test("Completeness - Key Sample",
			fmt.Sprintf("First %d keys exist on both sides", limit),
			c.src.limit(fmt.Sprintf("SELECT %s AS %s FROM %s ORDER BY 1", c.src.col(k.src), c.src.ident(k.tgt), c.src.from(c.st)), limit),
			c.tgt.limit(fmt.Sprintf("SELECT %s FROM %s ORDER BY 1", c.tgt.col(k.tgt), c.tgt.from(c.tt)), limit),
			"Key lists are identical", CategoryGeneral, SeverityMajor),
	}
}

// --- quality ---

func (c *tablePair) qualityTests() []TestCase {
	srcKeys, tgtKeys := strings.Join(c.src.cols(c.keys, false), ", "), strings.Join(c.tgt.cols(c.keys, true), ", ")
	k := c.key()

	text := c.firstMatch(placeholderSample, func(p colPair) bool { return c.family(p) == "string" })
	srcText, tgtText := c.src.col(text.src), c.tgt.col(text.tgt)

	return []TestCase{
		c.test("Quality - Null Key Check",
			fmt.Sprintf("%s is never NULL", k.tgt),
			c.src.count(c.st, "null_key_count", c.src.col(k.src)+" IS NULL"),
			c.tgt.count(c.tt, "null_key_count", c.tgt.col(k.tgt)+" IS NULL"),
			"0 NULL keys on both sides", CategoryQuality, SeverityCritical),
		c.test("Quality - Duplicate Key Check",
			"Key columns are unique",
			fmt.Sprintf("SELECT %s, COUNT(*) AS duplicate_count FROM %s GROUP BY %s HAVING COUNT(*) > 1", srcKeys, c.src.from(c.st), srcKeys),
			fmt.Sprintf("SELECT %s, COUNT(*) AS duplicate_count FROM %s GROUP BY %s HAVING COUNT(*) > 1", tgtKeys, c.tgt.from(c.tt), tgtKeys),
			"No rows returned", CategoryQuality, SeverityCritical),
		c.test("Quality - Whitespace Check",
			fmt.Sprintf("%s carries no leading or trailing whitespace", text.tgt),
			c.tgt.constant("0", "untrimmed_count"),
			c.tgt.count(c.tt, "untrimmed_count", fmt.Sprintf("%s <> %s", tgtText, c.tgt.d.TrimExpr(tgtText))),
			"0 untrimmed values", CategoryQuality, SeverityMinor),
		c.test("Quality - Empty String Check",
			fmt.Sprintf("Empty strings in %s match the source", text.tgt),
			c.src.count(c.st, "empty_count", c.src.d.LengthExpr(c.src.d.TrimExpr(srcText))+" = 0"),
			c.tgt.count(c.tt, "empty_count", c.tgt.d.LengthExpr(c.tgt.d.TrimExpr(tgtText))+" = 0"),
			"Empty-string counts are equal", CategoryQuality, SeverityMinor),
	}
}

// --- transformation ---

// checksumExprs covers the columns expected to be equal; transformed columns
// are left out. Each side casts to a comparable type where its engine needs it.
func (c *tablePair) checksumExprs() (srcExprs, tgtExprs, excluded []string) {
	for _, p := range c.pairs {
		if p.transformed() {
			excluded = append(excluded, p.tgt)
			continue
		}
		srcExprs = append(srcExprs, c.src.d.ComparableExpr(c.src.col(p.src), p.srcType))
		tgtExprs = append(tgtExprs, c.tgt.d.ComparableExpr(c.tgt.col(p.tgt), p.tgtType))
	}
	if len(srcExprs) == 0 {
		for _, k := range c.keys {
			srcExprs = append(srcExprs, c.src.col(k.src))
			tgtExprs = append(tgtExprs, c.tgt.col(k.tgt))
		}
	}
	return srcExprs, tgtExprs, excluded
}

func (c *tablePair) transformationTests() []TestCase {
	limit := c.opts.SampleLimit
	srcExprs, tgtExprs, excluded := c.checksumExprs()
	checksumDesc := fmt.Sprintf("Checksum over %d untransformed columns", len(srcExprs))
	if len(excluded) > 0 {
		checksumDesc += "; excluded: " + strings.Join(excluded, ", ")
	}

	k := c.key()
	var transformed []colPair
	for _, p := range c.pairs {
		if p.transformed() {
			transformed = append(transformed, p)
		}
	}
	sampleDesc := fmt.Sprintf("%d transformed columns recomputed from the source", len(transformed))
	if len(transformed) == 0 {
		transformed = c.samples()
		sampleDesc = "No transformations mapped, sample columns compared as-is"
	}
	srcProj := []string{c.src.col(k.src) + " AS " + c.src.ident(k.tgt)}
	tgtProj := []string{c.tgt.col(k.tgt)}
	for _, p := range transformed {
		if p.tgt == k.tgt {
			continue
		}
		expr := c.src.col(p.src)
		if p.m != nil {
			expr = synthesize(p.m.TransformationLogic, expr, c.src.d)
		}
		srcProj = append(srcProj, expr+" AS "+c.src.ident(p.tgt))
		tgtProj = append(tgtProj, c.tgt.col(p.tgt))
	}

	nulls := c.firstMatch(placeholderSample, func(p colPair) bool {
		return p.m != nil && p.m.TransformationType == classify.NullHandling
	})
	var nullSrc string
	nullExpected := "Null counts are equal"
	if nulls.m != nil {
		nullSrc = c.tgt.constant("0", "null_count")
		nullExpected = "0 NULLs remain after the default is applied"
	} else {
		nulls = c.firstMatch(placeholderSample, func(p colPair) bool { return p.tgt != k.tgt })
		nullSrc = c.src.count(c.st, "null_count", c.src.col(nulls.src)+" IS NULL")
	}

	return []TestCase{
		c.test("Transformation - Checksum Comparison",
			checksumDesc,
			c.src.d.ChecksumQuery(c.src.from(c.st), srcExprs),
			c.tgt.d.ChecksumQuery(c.tgt.from(c.tt), tgtExprs),
			"row_count and table_checksum match", CategoryTransformation, SeverityMajor),
		c.test("Transformation - Transformed Value Sample",
			sampleDesc,
			c.src.limit(fmt.Sprintf("SELECT %s FROM %s ORDER BY 1", strings.Join(srcProj, ", "), c.src.from(c.st)), limit),
			c.tgt.limit(fmt.Sprintf("SELECT %s FROM %s ORDER BY 1", strings.Join(tgtProj, ", "), c.tgt.from(c.tt)), limit),
			"Recomputed values equal target values", CategoryTransformation, SeverityMajor),
		c.test("Transformation - Null Handling",
			fmt.Sprintf("NULL handling on %s", nulls.tgt),
			nullSrc,
			c.tgt.count(c.tt, "null_count", c.tgt.col(nulls.tgt)+" IS NULL"),
			nullExpected, CategoryTransformation, SeverityMinor),
	}
}

// --- regression ---

func (c *tablePair) regressionTests() []TestCase {
	k := c.key()
	limit := c.opts.SampleLimit

	var direct []colPair
	for _, p := range c.samples() {
		if !p.transformed() {
			direct = append(direct, p)
		}
	}
	if len(direct) == 0 {
		direct = c.keys
	}

	distinct := func(sd side, target bool) string {
		parts := make([]string, 0, len(c.samples()))
		for _, p := range c.samples() {
			col := p.src
			if target {
				col = p.tgt
			}
			parts = append(parts, fmt.Sprintf("COUNT(DISTINCT %s) AS %s", sd.col(col), sd.ident(p.tgt+"_distinct")))
		}
		return strings.Join(parts, ", ")
	}
	srcSample := make([]string, len(direct))
	for i, p := range direct {
		srcSample[i] = c.src.col(p.src) + " AS " + c.src.ident(p.tgt)
	}

	return []TestCase{
		c.test("Regression - Key Range Profile",
			fmt.Sprintf("MIN and MAX of %s are unchanged", k.tgt),
			fmt.Sprintf("SELECT MIN(%s) AS min_key, MAX(%s) AS max_key FROM %s", c.src.col(k.src), c.src.col(k.src), c.src.from(c.st)),
			fmt.Sprintf("SELECT MIN(%s) AS min_key, MAX(%s) AS max_key FROM %s", c.tgt.col(k.tgt), c.tgt.col(k.tgt), c.tgt.from(c.tt)),
			"Key ranges are equal", CategoryRegression, SeverityMajor),
		c.test("Regression - Row Sample Comparison",
			fmt.Sprintf("First %d rows of untransformed columns match", limit),
			c.src.limit(fmt.Sprintf("SELECT %s FROM %s ORDER BY 1", strings.Join(srcSample, ", "), c.src.from(c.st)), limit),
			c.tgt.limit(fmt.Sprintf("SELECT %s FROM %s ORDER BY 1", strings.Join(c.tgt.cols(direct, true), ", "), c.tgt.from(c.tt)), limit),
			"Sampled rows are identical", CategoryRegression, SeverityMajor),
		c.test("Regression - Distinct Value Profile",
			"Distinct counts per sample column are unchanged",
			fmt.Sprintf("SELECT %s FROM %s", distinct(c.src, false), c.src.from(c.st)),
			fmt.Sprintf("SELECT %s FROM %s", distinct(c.tgt, true), c.tgt.from(c.tt)),
			"Distinct counts are equal", CategoryRegression, SeverityMinor),
	}
}

// --- reference ---

func (c *tablePair) referenceTests() []TestCase {
	code := c.firstMatch(placeholderCode, func(p colPair) bool {
		return schema.InferMeaning(p.tgt) == "code" || (p.m != nil && p.m.TransformationType == classify.Lookup)
	})

	orphanSrc, orphanTgt := c.orphanQuery(c.src, c.st), c.orphanQuery(c.tgt, c.tt)
	orphanDesc := "Foreign key values resolve to a parent row"
	if orphanSrc == "" {
		orphanSrc = c.src.count(c.st, "orphan_count", c.src.col(code.src)+" IS NULL")
	}
	if orphanTgt == "" {
		orphanTgt = c.tgt.count(c.tt, "orphan_count", c.tgt.col(code.tgt)+" IS NULL")
		orphanDesc = fmt.Sprintf("No foreign key known, unresolved %s values compared", code.tgt)
	}

	return []TestCase{
		c.test("Reference - Code Values",
			fmt.Sprintf("Distinct %s values match", code.tgt),
			fmt.Sprintf("SELECT DISTINCT %s AS %s FROM %s ORDER BY 1", c.src.col(code.src), c.src.ident(code.tgt), c.src.from(c.st)),
			fmt.Sprintf("SELECT DISTINCT %s FROM %s ORDER BY 1", c.tgt.col(code.tgt), c.tgt.from(c.tt)),
			"Code sets are identical", CategoryReference, SeverityMajor),
		c.test("Reference - Orphan Check",
			orphanDesc,
			orphanSrc,
			orphanTgt,
			"Orphan counts are equal", CategoryReference, SeverityMajor),
	}
}

// orphanQuery counts child rows whose first foreign key has no parent.
// Returns "" when the table has no known foreign key.
func (c *tablePair) orphanQuery(sd side, t tableRef) string {
	if t.info == nil || len(t.info.ForeignKeys) == 0 {
		return ""
	}
	fk := t.info.ForeignKeys[0]
	parent := fk.RefTable
	if t.schema != "" {
		parent = t.schema + "." + fk.RefTable
	}
	child := sd.col(fk.Column)
	ref := "r." + sd.ident(fk.RefColumn)
	return fmt.Sprintf("SELECT COUNT(*) AS orphan_count FROM %s LEFT JOIN %s r ON %s = %s WHERE %s IS NOT NULL AND %s IS NULL",
		sd.from(t), dialect.QuoteQualified(sd.d, parent), child, ref, child, ref)
}

// --- incremental ---

func (c *tablePair) incrementalTests() []TestCase {
	dt := c.firstMatch(placeholderDate, func(p colPair) bool {
		return schema.InferMeaning(p.tgt) == "date" || c.family(p) == "datetime"
	})
	ds, dtt := c.src.col(dt.src), c.tgt.col(dt.tgt)

	return []TestCase{
		c.test("Incremental - Recent Rows",
			fmt.Sprintf("Rows changed in the last %d day(s) by %s", recentDays, dt.tgt),
			c.src.count(c.st, "recent_count", c.src.d.RecentRowsPredicate(ds, recentDays)),
			c.tgt.count(c.tt, "recent_count", c.tgt.d.RecentRowsPredicate(dtt, recentDays)),
			"Recent row counts are equal", CategoryIncremental, SeverityMajor),
		c.test("Incremental - Latest Timestamp",
			fmt.Sprintf("Latest %s reached the target", dt.tgt),
			fmt.Sprintf("SELECT MAX(%s) AS latest_value FROM %s", ds, c.src.from(c.st)),
			fmt.Sprintf("SELECT MAX(%s) AS latest_value FROM %s", dtt, c.tgt.from(c.tt)),
			"Latest values are equal", CategoryIncremental, SeverityMinor),
		c.test("Incremental - Future Dated Rows",
			fmt.Sprintf("No %s lies in the future", dt.tgt),
			c.tgt.constant("0", "future_count"),
			c.tgt.count(c.tt, "future_count", fmt.Sprintf("%s > %s", dtt, c.tgt.d.CurrentTimestamp())),
			"0 future-dated rows", CategoryIncremental, SeverityMinor),
	}
}

// --- integration ---

func (c *tablePair) integrationTests() []TestCase {
	audit := dialect.QuoteQualified(c.tgt.d, c.opts.AuditTable)
	reject := dialect.QuoteQualified(c.tgt.d, c.opts.RejectTable)
	where := fmt.Sprintf("pipeline_name = %s AND target_table = %s",
		dialect.Literal(c.opts.PipelineName), dialect.Literal(c.tt.name))

	return []TestCase{
		c.test("Integration - Load Audit Reconciliation",
			fmt.Sprintf("Latest audit entry of %s reports the loaded row count", c.opts.PipelineName),
			c.src.count(c.st, "row_count", ""),
			c.tgt.limit(fmt.Sprintf("SELECT rows_loaded AS row_count FROM %s WHERE %s AND status = 'SUCCESS' ORDER BY end_time DESC", audit, where), 1),
			"Source row count equals audit rows_loaded", CategoryIntegration, SeverityMajor),
		c.test("Integration - Reject Reconciliation",
			"Reject log agrees with the audit entry",
			fmt.Sprintf("SELECT COUNT(*) AS reject_count FROM %s WHERE %s", reject, where),
			c.tgt.limit(fmt.Sprintf("SELECT rows_rejected AS reject_count FROM %s WHERE %s ORDER BY end_time DESC", audit, where), 1),
			"Reject counts are equal", CategoryIntegration, SeverityMajor),
	}
}

// --- performance ---

func (c *tablePair) performanceTests() []TestCase {
	k := c.key()
	lookup := func(sd side, t tableRef, col string) string {
		return fmt.Sprintf("SELECT %s.* FROM %s WHERE %s = (SELECT MIN(x.%s) FROM %s x)",
			sd.alias, sd.from(t), sd.col(col), sd.ident(col), t.quoted)
	}
	return []TestCase{
		c.test("Performance - Full Scan",
			"Full count completes within the load window",
			c.src.count(c.st, "row_count", ""),
			c.tgt.count(c.tt, "row_count", ""),
			"Both scans complete within the agreed SLA", CategoryPerformance, SeverityMinor),
		c.test("Performance - Key Lookup",
			fmt.Sprintf("Single-row lookup by %s", k.tgt),
			lookup(c.src, c.st, k.src),
			lookup(c.tgt, c.tt, k.tgt),
			"Lookup returns one row within the agreed SLA", CategoryPerformance, SeverityMinor),
	}
}
