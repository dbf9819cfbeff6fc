package schema

import "strings"

// Column is one column as reported by the database catalog.
type Column struct {
	Name       string `json:"name" yaml:"name"`
	DataType   string `json:"dataType" yaml:"dataType"`
	IsNullable bool   `json:"isNullable" yaml:"isNullable"`
	MaxLength  *int   `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
}

type ForeignKey struct {
	Name      string `json:"name" yaml:"name"`
	Column    string `json:"column" yaml:"column"`
	RefTable  string `json:"refTable" yaml:"refTable"`
	RefColumn string `json:"refColumn" yaml:"refColumn"`
}

// Table is one physical table. Columns are in ordinal order and PrimaryKey
// in key position order.
type Table struct {
	Schema       string        `json:"schema" yaml:"schema"`
	Name         string        `json:"tableName" yaml:"tableName"`
	FullName     string        `json:"fullName" yaml:"fullName"`
	Columns      []*Column     `json:"columns" yaml:"columns"`
	PrimaryKey   []string      `json:"primaryKey,omitempty" yaml:"primaryKey,omitempty"`
	ForeignKeys  []*ForeignKey `json:"foreignKeys,omitempty" yaml:"foreignKeys,omitempty"`
	Dependencies []string      `json:"-" yaml:"-"` // 의존성 분석용
}

// NewTable builds a Table with FullName derived as schema.name.
func NewTable(schemaName, name string) *Table {
	full := name
	if schemaName != "" {
		full = schemaName + "." + name
	}
	return &Table{Schema: schemaName, Name: name, FullName: full, Dependencies: []string{}}
}

// Database is the schema of one connection.
type Database struct {
	Tables []*Table `json:"tables" yaml:"tables"`
}

func (d *Database) TableCount() int {
	if d == nil {
		return 0
	}
	return len(d.Tables)
}

// ColumnCount is the sum of every table's column count.
func (d *Database) ColumnCount() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, t := range d.Tables {
		n += len(t.Columns)
	}
	return n
}

// IsKeyColumn reports whether name is part of the table's primary key.
func (t *Table) IsKeyColumn(name string) bool {
	for _, k := range t.PrimaryKey {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
