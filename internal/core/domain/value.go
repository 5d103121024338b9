package domain

import (
	"fmt"
	"strings"
	"time"
)

// ValueKind discriminates the closed set of cell value types.
type ValueKind int

const (
	// KindEmpty is an unpopulated cell.
	KindEmpty ValueKind = iota

	// KindString is a text cell.
	KindString

	// KindNumber is a numeric cell (integers and floats share this kind).
	KindNumber

	// KindBool is a boolean cell.
	KindBool

	// KindDate is a date or datetime cell.
	KindDate
)

// CellValue is a single evaluated cell value.
// Exactly one of the payload fields is meaningful, selected by Kind.
// Formula cells arrive already evaluated; the engine never sees formulas.
type CellValue struct {
	// Kind selects which payload field holds the value.
	Kind ValueKind

	// Str holds the value when Kind is KindString.
	Str string

	// Num holds the value when Kind is KindNumber.
	Num float64

	// Bool holds the value when Kind is KindBool.
	Bool bool

	// Time holds the value when Kind is KindDate.
	Time time.Time
}

// EmptyValue returns the empty cell value.
func EmptyValue() CellValue {
	return CellValue{Kind: KindEmpty}
}

// StringValue returns a string cell value.
func StringValue(s string) CellValue {
	return CellValue{Kind: KindString, Str: s}
}

// NumberValue returns a numeric cell value.
func NumberValue(f float64) CellValue {
	return CellValue{Kind: KindNumber, Num: f}
}

// BoolValue returns a boolean cell value.
func BoolValue(b bool) CellValue {
	return CellValue{Kind: KindBool, Bool: b}
}

// DateValue returns a date cell value.
func DateValue(t time.Time) CellValue {
	return CellValue{Kind: KindDate, Time: t}
}

// IsBlank reports whether the cell carries no usable content.
// Empty cells and whitespace-only strings both count as blank.
func (v CellValue) IsBlank() bool {
	switch v.Kind {
	case KindEmpty:
		return true
	case KindString:
		return strings.TrimSpace(v.Str) == ""
	default:
		return false
	}
}

// IsString reports whether the cell holds a non-blank string.
func (v CellValue) IsString() bool {
	return v.Kind == KindString && strings.TrimSpace(v.Str) != ""
}

// Serialize converts the cell value to its JSON-ready form.
// This is the single normalisation table for the whole system:
// blank cells become nil, dates become ISO-8601 strings, numbers and
// booleans pass through, strings are trimmed.
func (v CellValue) Serialize() any {
	switch v.Kind {
	case KindEmpty:
		return nil
	case KindString:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return nil
		}
		return s
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	case KindDate:
		return v.Time.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
