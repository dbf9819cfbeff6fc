package sheet

import (
	"strconv"
	"strings"
)

type Kind int

const (
	Blank Kind = iota
	Text
	Number
	Bool
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	case Bool:
		return "bool"
	default:
		return "blank"
	}
}

// Cell is one scalar spreadsheet value. Number cells keep the text they were
// read from so identifiers like "007" survive.
type Cell struct {
	kind Kind
	text string
	num  float64
	b    bool
}

func BlankCell() Cell { return Cell{} }

func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{kind: Text, text: s}
}

func NumberCell(f float64) Cell {
	return Cell{kind: Number, num: f, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

func BoolCell(b bool) Cell {
	return Cell{kind: Bool, b: b, text: strconv.FormatBool(b)}
}

// ParseCell infers a cell from raw file text: blank, number, bool or text.
func ParseCell(raw string) Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Cell{}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Cell{kind: Number, num: f, text: s}
	}
	switch strings.ToLower(s) {
	case "true":
		return Cell{kind: Bool, b: true, text: s}
	case "false":
		return Cell{kind: Bool, b: false, text: s}
	}
	return Cell{kind: Text, text: raw}
}

// FromValue converts a decoded scalar (JSON, map rows) into a Cell.
func FromValue(v any) Cell {
	switch x := v.(type) {
	case nil:
		return Cell{}
	case Cell:
		return x
	case string:
		return TextCell(x)
	case bool:
		return BoolCell(x)
	case float64:
		return NumberCell(x)
	case float32:
		return NumberCell(float64(x))
	case int:
		return NumberCell(float64(x))
	case int64:
		return NumberCell(float64(x))
	case int32:
		return NumberCell(float64(x))
	default:
		return Cell{}
	}
}

func (c Cell) Kind() Kind { return c.kind }

func (c Cell) IsBlank() bool { return c.kind == Blank }

// String is the trimmed display text; "" for blank cells.
func (c Cell) String() string { return strings.TrimSpace(c.text) }

func (c Cell) Float() (float64, bool) { return c.num, c.kind == Number }

func (c Cell) Bool() (bool, bool) { return c.b, c.kind == Bool }
