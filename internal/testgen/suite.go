package testgen

import "etlcheck/internal/mapping"

// BuildSuite runs Generate and adds the selected per-pair generators and the
// audit checks. Tests are de-duplicated by name, first one wins.
func BuildSuite(mappings []mapping.Mapping, opts Options, so SuiteOptions) *Analysis {
	opts = opts.withDefaults()
	a := Generate(mappings, opts)

	pairs := mapping.OrderByDependencies(mapping.GroupByTarget(mappings), opts.TargetSchema)
	for i, p := range pairs {
		if so.Comprehensive {
			a.TestCases = append(a.TestCases, GenerateTablePair(p.SourceTable(), p.TargetTable, opts, p.Mappings)...)
		}
		if so.SchemaValidation {
			a.TestCases = append(a.TestCases, SchemaValidationTests(p, opts)...)
		}
		if so.Progress != nil {
			so.Progress(p, i+1, len(pairs))
		}
	}
	if so.Audit {
		a.TestCases = append(a.TestCases, AuditTests(opts)...)
	}

	a.TestCases = dedupeByName(a.TestCases)
	return a
}

func dedupeByName(tests []TestCase) []TestCase {
	seen := make(map[string]bool, len(tests))
	out := tests[:0]
	for _, t := range tests {
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		out = append(out, t)
	}
	return out
}
