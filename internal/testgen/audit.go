package testgen

import (
	"fmt"
	"strings"

	"etlcheck/internal/dialect"
	"etlcheck/internal/mapping"
)

// SchemaValidationTests returns the two structure checks every pair gets:
// column presence and the data-type listing of both sides.
func SchemaValidationTests(p mapping.TablePair, opts Options) []TestCase {
	opts = opts.withDefaults()
	src, tgt := sides(opts)
	st, tt := pairTables(p, src, tgt)

	var srcCols, tgtCols, rows []string
	seen := map[string]bool{}
	for _, m := range p.Mappings {
		if k := strings.ToLower(m.TargetColumn); !seen[k] {
			seen[k] = true
			tgtCols = append(tgtCols, m.TargetColumn)
			rows = append(rows, fmt.Sprintf("SELECT %s AS column_name%s", dialect.Literal(m.TargetColumn), tgt.d.FromDual()))
		}
		if mapping.TableKey(m.SourceTable) == mapping.TableKey(p.SourceTable()) {
			srcCols = appendUnique(srcCols, m.SourceColumn)
		}
	}

	return []TestCase{
		{
			Name:           "Schema Validation - Column Presence - " + tt.display,
			Description:    fmt.Sprintf("Every mapped target column exists in %s", tt.display),
			SourceSQL:      strings.Join(rows, " UNION ALL "),
			TargetSQL:      tgt.d.ColumnMetadataQuery(tt.schema, tt.name, tgtCols),
			ExpectedResult: fmt.Sprintf("All %d mapped columns are returned", len(tgtCols)),
			Category:       CategoryStructure,
			Severity:       SeverityCritical,
		},
		{
			Name:           "Schema Validation - Data Types - " + tt.display,
			Description:    fmt.Sprintf("Data types of %s are compatible with %s", tt.display, st.display),
			SourceSQL:      src.d.ColumnMetadataQuery(st.schema, st.name, srcCols),
			TargetSQL:      tgt.d.ColumnMetadataQuery(tt.schema, tt.name, tgtCols),
			ExpectedResult: "Source and target column types are compatible",
			Category:       CategoryStructure,
			Severity:       SeverityMajor,
		},
	}
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return list
		}
	}
	return append(list, v)
}

// AuditTests checks the pipeline audit trail: the audit table exists, the
// pipeline logged a successful run and its reject log agrees with it.
func AuditTests(opts Options) []TestCase {
	opts = opts.withDefaults()
	_, tgt := sides(opts)

	auditRef := tgt.table(opts.AuditTable, DefaultAuditTable)
	audit := auditRef.quoted
	reject := dialect.QuoteQualified(tgt.d, opts.RejectTable)
	pipeline := dialect.Literal(opts.PipelineName)

	return []TestCase{
		{
			Name:           "Audit Table Exists - " + auditRef.display,
			Description:    fmt.Sprintf("Audit table %s is deployed", auditRef.display),
			SourceSQL:      tgt.constant("1", "table_count"),
			TargetSQL:      tgt.d.TableExistsQuery(auditRef.schema, auditRef.name),
			ExpectedResult: "Audit table exists",
			Category:       CategoryIntegration,
			Severity:       SeverityCritical,
		},
		{
			Name:           "Pipeline Execution Logged - " + opts.PipelineName,
			Description:    fmt.Sprintf("Pipeline %s recorded at least one successful execution", opts.PipelineName),
			SourceSQL:      tgt.constant("1", "execution_count"),
			TargetSQL:      fmt.Sprintf("SELECT COUNT(*) AS execution_count FROM %s WHERE pipeline_name = %s AND status = 'SUCCESS'", audit, pipeline),
			ExpectedResult: "At least 1 successful execution",
			Category:       CategoryIntegration,
			Severity:       SeverityMajor,
		},
		{
			Name:        "Reject Count Check - " + opts.PipelineName,
			Description: fmt.Sprintf("Rejects logged for %s match the latest audit entry", opts.PipelineName),
			SourceSQL:   fmt.Sprintf("SELECT COUNT(*) AS reject_count FROM %s WHERE pipeline_name = %s", reject, pipeline),
			TargetSQL: tgt.limit(fmt.Sprintf("SELECT rows_rejected AS reject_count FROM %s WHERE pipeline_name = %s ORDER BY end_time DESC",
				audit, pipeline), 1),
			ExpectedResult: "Reject log count equals audit rows_rejected",
			Category:       CategoryIntegration,
			Severity:       SeverityMajor,
		},
	}
}
