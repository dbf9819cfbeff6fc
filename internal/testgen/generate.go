package testgen

import (
	"fmt"
	"strings"

	"etlcheck/internal/dialect"
	"etlcheck/internal/mapping"
)

// Generate builds the mapping-driven test catalog: per target table a
// structure check, row and null parity, a duplicate-key check, constraints,
// data accuracy and rule-triggered quality tests, followed by integration
// tests when a target table names a pipeline phase.
func Generate(mappings []mapping.Mapping, opts Options) *Analysis {
	opts = opts.withDefaults()
	a := &Analysis{
		SourceTables:  []string{},
		TargetTables:  []string{},
		BusinessRules: []string{},
		TestCases:     []TestCase{},
		Mappings:      mappings,
	}
	if a.Mappings == nil {
		a.Mappings = []mapping.Mapping{}
	}
	if len(mappings) == 0 {
		return a
	}

	a.SourceTables, a.TargetTables = tableNames(mappings)
	for _, m := range mappings {
		if !m.IsDirect() {
			a.BusinessRules = append(a.BusinessRules, businessRule(m))
		}
	}

	pairs := mapping.OrderByDependencies(mapping.GroupByTarget(mappings), opts.TargetSchema)
	for _, p := range pairs {
		a.TestCases = append(a.TestCases, pairTests(p, opts)...)
	}
	a.TestCases = append(a.TestCases, phaseTests(pairs, opts)...)
	return a
}

func tableNames(ms []mapping.Mapping) (src, tgt []string) {
	src, tgt = []string{}, []string{}
	seenSrc, seenTgt := map[string]bool{}, map[string]bool{}
	for _, m := range ms {
		if k := mapping.TableKey(m.SourceTable); k != "" && !seenSrc[k] {
			seenSrc[k] = true
			src = append(src, m.SourceTable)
		}
		if k := mapping.TableKey(m.TargetTable); k != "" && !seenTgt[k] {
			seenTgt[k] = true
			tgt = append(tgt, m.TargetTable)
		}
	}
	return src, tgt
}

func businessRule(m mapping.Mapping) string {
	src := qualifiedColumn(m.SourceTable, m.SourceColumn)
	tgt := qualifiedColumn(m.TargetTable, m.TargetColumn)
	logic := strings.TrimSpace(m.TransformationLogic)
	if logic == "" {
		return fmt.Sprintf("%s -> %s: %s", src, tgt, m.TransformationType.Label())
	}
	return fmt.Sprintf("%s -> %s: %s (%s)", src, tgt, logic, m.TransformationType.Label())
}

// mappingLabel names a per-mapping test by its target and source column, so
// columns fed from several sources keep one test each.
func mappingLabel(st, tt tableRef, m mapping.Mapping) string {
	return fmt.Sprintf("%s.%s <- %s", tt.display, m.TargetColumn, qualifiedColumn(st.display, m.SourceColumn))
}

func qualifiedColumn(table, column string) string {
	if table == "" {
		return column
	}
	return table + "." + column
}

// pairTables resolves a pair's primary source and its target. A pair
// without a target table compares against a same-named table.
func pairTables(p mapping.TablePair, src, tgt side) (tableRef, tableRef) {
	target := p.TargetTable
	if target == "" {
		target = p.SourceTable()
	}
	return src.table(p.SourceTable(), "source_table"), tgt.table(target, "target_table")
}

func pairTests(p mapping.TablePair, opts Options) []TestCase {
	src, tgt := sides(opts)
	st, tt := pairTables(p, src, tgt)
	// the key must come from the table the duplicate check queries
	var primary []mapping.Mapping
	for _, m := range p.Mappings {
		if mapping.TableKey(m.SourceTable) == mapping.TableKey(p.SourceTable()) {
			primary = append(primary, m)
		}
	}
	pairs := pairsFromMappings(primary, st, tt)
	label := tt.display

	tests := []TestCase{
		structureTest(p, tgt, tt),
		rowCountTest(p, src, tgt, tt),
		nullCountTest(p, src, tgt, tt),
		duplicateKeyTest(pairs, src, tgt, st, tt),
		{
			Name:           "Constraint Check - " + label,
			Description:    fmt.Sprintf("List constraints defined on %s and %s", st.display, tt.display),
			SourceSQL:      src.d.ConstraintsQuery(st.schema, st.name),
			TargetSQL:      tgt.d.ConstraintsQuery(tt.schema, tt.name),
			ExpectedResult: "Target carries the constraints the source defines",
			Category:       CategoryStructure,
			Severity:       SeverityMinor,
		},
	}
	tests = append(tests, accuracyTests(p, src, tgt, tt, opts.SampleLimit)...)
	tests = append(tests, QualityTests(p, opts)...)
	return tests
}

// structureTest renders the sheet's declared target columns as literal rows
// and compares them with live column metadata.
func structureTest(p mapping.TablePair, tgt side, tt tableRef) TestCase {
	var rows, cols []string
	seen := map[string]bool{}
	for _, m := range p.Mappings {
		k := strings.ToLower(m.TargetColumn)
		if seen[k] {
			continue
		}
		seen[k] = true
		cols = append(cols, m.TargetColumn)
		rows = append(rows, fmt.Sprintf("SELECT %s AS column_name, %s AS data_type%s",
			dialect.Literal(m.TargetColumn), dialect.Literal(m.TargetDataType), tgt.d.FromDual()))
	}
	return TestCase{
		Name:           "Structure Validation - " + tt.display,
		Description:    fmt.Sprintf("Mapped columns of %s exist with the declared data types", tt.display),
		SourceSQL:      strings.Join(rows, " UNION ALL "),
		TargetSQL:      tgt.d.ColumnMetadataQuery(tt.schema, tt.name, cols),
		ExpectedResult: fmt.Sprintf("%d mapped columns present with matching data types", len(cols)),
		Category:       CategoryStructure,
		Severity:       SeverityCritical,
	}
}

// rowCountTest sums every source table feeding the target.
func rowCountTest(p mapping.TablePair, src, tgt side, tt tableRef) TestCase {
	sourceSQL := ""
	if len(p.SourceTables) <= 1 {
		sourceSQL = src.count(src.table(p.SourceTable(), "source_table"), "row_count", "")
	} else {
		parts := make([]string, len(p.SourceTables))
		for i, name := range p.SourceTables {
			parts[i] = src.count(src.table(name, "source_table"), "row_count", "")
		}
		sourceSQL = "SELECT SUM(row_count) AS row_count FROM (" + strings.Join(parts, " UNION ALL ") + ") c"
	}
	return TestCase{
		Name:           "Row Count Validation - " + tt.display,
		Description:    fmt.Sprintf("Row count of %s matches %s", tt.display, strings.Join(p.SourceTables, " + ")),
		SourceSQL:      sourceSQL,
		TargetSQL:      tgt.count(tt, "row_count", ""),
		ExpectedResult: "Source and target row counts are equal",
		Category:       CategoryGeneral,
		Severity:       SeverityCritical,
	}
}

// nullCountTest checks one representative column: the first direct move,
// else the first mapping.
func nullCountTest(p mapping.TablePair, src, tgt side, tt tableRef) TestCase {
	m := p.Mappings[0]
	for _, c := range p.Mappings {
		if c.IsDirect() {
			m = c
			break
		}
	}
	st := src.table(m.SourceTable, "source_table")
	return TestCase{
		Name:           fmt.Sprintf("Null Count Validation - %s.%s", tt.display, m.TargetColumn),
		Description:    fmt.Sprintf("NULLs in %s match NULLs in %s", qualifiedColumn(st.display, m.SourceColumn), qualifiedColumn(tt.display, m.TargetColumn)),
		SourceSQL:      src.count(st, "null_count", src.col(m.SourceColumn)+" IS NULL"),
		TargetSQL:      tgt.count(tt, "null_count", tgt.col(m.TargetColumn)+" IS NULL"),
		ExpectedResult: "Null counts are equal",
		Category:       CategoryGeneral,
		Severity:       SeverityMajor,
	}
}

func duplicateKeyTest(pairs []colPair, src, tgt side, st, tt tableRef) TestCase {
	keys, declared := keyPair(pairs, st)
	kind := "synthetic key"
	if declared {
		kind = "primary key"
	}
	dup := func(sd side, t tableRef, cols []string) string {
		list := strings.Join(cols, ", ")
		return fmt.Sprintf("SELECT %s, COUNT(*) AS duplicate_count FROM %s GROUP BY %s HAVING COUNT(*) > 1",
			list, sd.from(t), list)
	}
	return TestCase{
		Name: "Duplicate Key Check - " + tt.display,
		Description: fmt.Sprintf("No duplicate %s (%s) in %s or %s", kind,
			strings.Join(columnNames(keys, true), ", "), st.display, tt.display),
		SourceSQL:      dup(src, st, src.cols(keys, false)),
		TargetSQL:      dup(tgt, tt, tgt.cols(keys, true)),
		ExpectedResult: "No rows returned on either side",
		Category:       CategoryQuality,
		Severity:       SeverityCritical,
	}
}

// accuracyTests emits one consolidated projection per source table for the
// direct moves and one query per transformed mapping.
func accuracyTests(p mapping.TablePair, src, tgt side, tt tableRef, limit int) []TestCase {
	var tests []TestCase

	var order []string
	direct := map[string][]mapping.Mapping{}
	for _, m := range p.Mappings {
		if !m.IsDirect() {
			continue
		}
		k := mapping.TableKey(m.SourceTable)
		if _, ok := direct[k]; !ok {
			order = append(order, k)
		}
		direct[k] = append(direct[k], m)
	}
	for _, k := range order {
		ms := direct[k]
		st := src.table(ms[0].SourceTable, "source_table")
		srcCols := make([]string, len(ms))
		tgtCols := make([]string, len(ms))
		for i, m := range ms {
			srcCols[i] = src.col(m.SourceColumn) + " AS " + src.ident(m.TargetColumn)
			tgtCols[i] = tgt.col(m.TargetColumn)
		}
		tests = append(tests, TestCase{
			Name:        fmt.Sprintf("Direct Move Validation - %s -> %s", st.display, tt.display),
			Description: fmt.Sprintf("%d direct-move columns compared side by side", len(ms)),
			SourceSQL: src.limit(fmt.Sprintf("SELECT %s FROM %s ORDER BY 1",
				strings.Join(srcCols, ", "), src.from(st)), limit),
			TargetSQL: tgt.limit(fmt.Sprintf("SELECT %s FROM %s ORDER BY 1",
				strings.Join(tgtCols, ", "), tgt.from(tt)), limit),
			ExpectedResult: "Values are identical row by row",
			Category:       CategoryDirectMove,
			Severity:       SeverityMajor,
		})
	}

	for _, m := range p.Mappings {
		if m.IsDirect() {
			continue
		}
		st := src.table(m.SourceTable, "source_table")
		expr := synthesize(m.TransformationLogic, src.col(m.SourceColumn), src.d)
		tests = append(tests, TestCase{
			Name: "Business Rule Validation - " + mappingLabel(st, tt, m),
			Description: fmt.Sprintf("%s: %s applied to %s", m.TransformationType.Label(),
				strings.TrimSpace(m.TransformationLogic), qualifiedColumn(st.display, m.SourceColumn)),
			SourceSQL: src.limit(fmt.Sprintf("SELECT %s AS %s FROM %s ORDER BY 1",
				expr, src.ident(m.TargetColumn), src.from(st)), limit),
			TargetSQL: tgt.limit(fmt.Sprintf("SELECT %s FROM %s ORDER BY 1",
				tgt.col(m.TargetColumn), tgt.from(tt)), limit),
			ExpectedResult: "Transformed source values equal target values",
			Category:       CategoryBusinessRule,
			Severity:       SeverityMajor,
		})
	}
	return tests
}

// phaseTests checks the audit and reject tables for the first target table
// that names a pipeline phase.
func phaseTests(pairs []mapping.TablePair, opts Options) []TestCase {
	_, tgt := sides(opts)
	for _, p := range pairs {
		ph, ok := DetectPhase(p.TargetTable)
		if !ok {
			continue
		}
		tt := tgt.table(p.TargetTable, "target_table")
		audit := dialect.QuoteQualified(tgt.d, opts.AuditTable)
		reject := dialect.QuoteQualified(tgt.d, opts.RejectTable)
		pipeline := dialect.Literal(opts.PipelineName)
		where := fmt.Sprintf("pipeline_name = %s AND phase_number = %d", pipeline, ph.Number)

		return []TestCase{
			{
				Name:        fmt.Sprintf("Integration - %s Audit Entry", ph.Name),
				Description: fmt.Sprintf("Phase %d (%s) logged a successful execution for %s", ph.Number, ph.Name, tt.display),
				SourceSQL:   tgt.count(tt, "row_count", ""),
				TargetSQL: tgt.limit(fmt.Sprintf("SELECT rows_loaded AS row_count FROM %s WHERE %s AND status = 'SUCCESS' ORDER BY end_time DESC",
					audit, where), 1),
				ExpectedResult: "Audit rows_loaded equals the target row count",
				Category:       CategoryIntegration,
				Severity:       SeverityMajor,
			},
			{
				Name:        fmt.Sprintf("Integration - %s Reject Reconciliation", ph.Name),
				Description: fmt.Sprintf("Phase %d (%s) reject log agrees with the audit entry", ph.Number, ph.Name),
				SourceSQL:   fmt.Sprintf("SELECT COUNT(*) AS reject_count FROM %s WHERE %s", reject, where),
				TargetSQL: tgt.limit(fmt.Sprintf("SELECT rows_rejected AS reject_count FROM %s WHERE %s ORDER BY end_time DESC",
					audit, where), 1),
				ExpectedResult: "Reject log count equals audit rows_rejected",
				Category:       CategoryIntegration,
				Severity:       SeverityMajor,
			},
		}
	}
	return nil
}
