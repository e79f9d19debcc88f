package record

import (
	"encoding/json"
	"strconv"
)

// CellKind discriminates the cell variant
type CellKind int

const (
	KindNull CellKind = iota
	KindNumber
	KindString
)

// Cell is a single tabular value: null, a finite float64, or a string.
// The zero value is the null cell.
type Cell struct {
	kind CellKind
	num  float64
	str  string
}

// Null returns the null cell
func Null() Cell {
	return Cell{kind: KindNull}
}

// Number creates a numeric cell
func Number(v float64) Cell {
	return Cell{kind: KindNumber, num: v}
}

// String creates a string cell
func String(v string) Cell {
	return Cell{kind: KindString, str: v}
}

// Kind returns the cell variant
func (c Cell) Kind() CellKind {
	return c.kind
}

// IsNull reports whether the cell is the null variant
func (c Cell) IsNull() bool {
	return c.kind == KindNull
}

// IsMissing reports whether the cell counts as missing for profiling:
// the null variant or an empty string
func (c Cell) IsMissing() bool {
	return c.kind == KindNull || (c.kind == KindString && c.str == "")
}

// IsNumber reports whether the cell holds a numeric value
func (c Cell) IsNumber() bool {
	return c.kind == KindNumber
}

// Number returns the numeric value; valid only when IsNumber
func (c Cell) Number() float64 {
	return c.num
}

// Text returns the stringified value used for categorical frequency
// counting. Null cells stringify to the sentinel "null".
func (c Cell) Text() string {
	switch c.kind {
	case KindNumber:
		return strconv.FormatFloat(c.num, 'g', -1, 64)
	case KindString:
		return c.str
	default:
		return "null"
	}
}

// MarshalJSON emits null, a JSON number, or a JSON string
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case KindNumber:
		return json.Marshal(c.num)
	case KindString:
		return json.Marshal(c.str)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, numbers, and strings; anything else is
// stringified through its raw form
func (c *Cell) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Null()
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*c = Number(num)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*c = String(str)
		return nil
	}
	*c = String(string(data))
	return nil
}
