package mapping

import "etlcheck/internal/classify"

type Format string

const (
	FormatStandard            Format = "standard"
	FormatEnterprise          Format = "enterprise"
	FormatMultiSource         Format = "multi_source"
	FormatTransformationRules Format = "transformation_rules"
	FormatVertical            Format = "vertical"
	FormatGeneric             Format = "generic"
)

// Mapping is one source column -> target column correspondence.
type Mapping struct {
	SourceColumn        string              `json:"sourceColumn" yaml:"sourceColumn"`
	TargetColumn        string              `json:"targetColumn" yaml:"targetColumn"`
	SourceTable         string              `json:"sourceTable,omitempty" yaml:"sourceTable,omitempty"`
	TargetTable         string              `json:"targetTable,omitempty" yaml:"targetTable,omitempty"`
	TransformationType  classify.Type       `json:"transformationType" yaml:"transformationType"`
	TransformationLogic string              `json:"transformationLogic,omitempty" yaml:"transformationLogic,omitempty"`
	Complexity          classify.Complexity `json:"complexity" yaml:"complexity"`
	SourceDataType      string              `json:"sourceDataType,omitempty" yaml:"sourceDataType,omitempty"`
	TargetDataType      string              `json:"targetDataType,omitempty" yaml:"targetDataType,omitempty"`
	IsKey               bool                `json:"isKey,omitempty" yaml:"isKey,omitempty"`
}

// IsDirect reports whether the mapping copies the value unchanged.
func (m Mapping) IsDirect() bool { return m.TransformationType == classify.DirectMove }

type Metadata struct {
	TotalRows        int      `json:"totalRows" yaml:"totalRows"`
	DetectedColumns  []string `json:"detectedColumns" yaml:"detectedColumns"`
	FormatConfidence float64  `json:"formatConfidence" yaml:"formatConfidence"`
}

// Sheet is the parse result for one mapping sheet.
type Sheet struct {
	SourceTables []string  `json:"sourceTables" yaml:"sourceTables"`
	TargetTables []string  `json:"targetTables" yaml:"targetTables"`
	Mappings     []Mapping `json:"mappings" yaml:"mappings"`
	Format       Format    `json:"detectedFormat" yaml:"detectedFormat"`
	Rules        []string  `json:"transformationRules" yaml:"transformationRules"`
	Metadata     Metadata  `json:"metadata" yaml:"metadata"`
}
