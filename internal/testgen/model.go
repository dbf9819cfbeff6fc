package testgen

import (
	"etlcheck/internal/mapping"
	"etlcheck/internal/schema"
)

type Category string

const (
	CategoryStructure      Category = "structure"
	CategoryGeneral        Category = "general" // completeness
	CategoryBusinessRule   Category = "business_rule"
	CategoryDirectMove     Category = "direct_move"
	CategoryMetadata       Category = "metadata"
	CategoryQuality        Category = "quality"
	CategoryTransformation Category = "transformation"
	CategoryRegression     Category = "regression"
	CategoryReference      Category = "reference"
	CategoryIncremental    Category = "incremental"
	CategoryIntegration    Category = "integration"
	CategoryPerformance    Category = "performance"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// TestCase is a pair of queries whose results the caller runs and compares.
type TestCase struct {
	Name           string   `json:"name" yaml:"name"`
	Description    string   `json:"description" yaml:"description"`
	SourceSQL      string   `json:"sourceSQL" yaml:"sourceSQL"`
	TargetSQL      string   `json:"targetSQL" yaml:"targetSQL"`
	ExpectedResult string   `json:"expectedResult" yaml:"expectedResult"`
	Category       Category `json:"category" yaml:"category"`
	Severity       Severity `json:"severity" yaml:"severity"`
}

// Analysis is the output of one generation run.
type Analysis struct {
	SourceTables  []string          `json:"sourceTables" yaml:"sourceTables"`
	TargetTables  []string          `json:"targetTables" yaml:"targetTables"`
	BusinessRules []string          `json:"businessRules" yaml:"businessRules"`
	TestCases     []TestCase        `json:"testCases" yaml:"testCases"`
	Mappings      []mapping.Mapping `json:"mappings" yaml:"mappings"`
}

const (
	DefaultAuditTable   = "etl_pipeline_execution"
	DefaultRejectTable  = "etl_reject_log"
	DefaultSampleLimit  = 1000
	DefaultPipelineName = "etl_pipeline"
)

// Options carries the optional schemas and the per-side dialect tags.
// Zero values fall back to the defaults above.
type Options struct {
	SourceSchema *schema.Database
	TargetSchema *schema.Database

	PipelineName  string
	SourceDialect string
	TargetDialect string

	AuditTable  string
	RejectTable string
	SampleLimit int
}

func (o Options) withDefaults() Options {
	if o.PipelineName == "" {
		o.PipelineName = DefaultPipelineName
	}
	if o.AuditTable == "" {
		o.AuditTable = DefaultAuditTable
	}
	if o.RejectTable == "" {
		o.RejectTable = DefaultRejectTable
	}
	if o.SampleLimit <= 0 {
		o.SampleLimit = DefaultSampleLimit
	}
	return o
}

// SuiteOptions selects the generators BuildSuite runs on top of Generate.
type SuiteOptions struct {
	Comprehensive    bool
	Audit            bool
	SchemaValidation bool

	// Progress is called once per table pair.
	Progress func(pair mapping.TablePair, done, total int)
}
