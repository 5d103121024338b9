package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestCellValue_IsBlank tests blank detection across kinds
func TestCellValue_IsBlank(t *testing.T) {
	tests := []struct {
		name  string
		value CellValue
		blank bool
	}{
		{"empty", EmptyValue(), true},
		{"whitespace string", StringValue("   \t "), true},
		{"empty string", StringValue(""), true},
		{"text", StringValue("hello"), false},
		{"zero number", NumberValue(0), false},
		{"false bool", BoolValue(false), false},
		{"date", DateValue(time.Now()), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.blank, tt.value.IsBlank())
		})
	}
}

// TestCellValue_IsString tests non-blank string detection
func TestCellValue_IsString(t *testing.T) {
	assert.True(t, StringValue("Name").IsString())
	assert.False(t, StringValue("  ").IsString())
	assert.False(t, NumberValue(42).IsString())
	assert.False(t, EmptyValue().IsString())
}

// TestCellValue_Serialize tests the value normalisation table
func TestCellValue_Serialize(t *testing.T) {
	stamp := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value CellValue
		want  any
	}{
		{"empty becomes nil", EmptyValue(), nil},
		{"blank string becomes nil", StringValue("  "), nil},
		{"string is trimmed", StringValue("  Acme Corp  "), "Acme Corp"},
		{"number passes through", NumberValue(123.5), 123.5},
		{"bool passes through", BoolValue(true), true},
		{"date becomes ISO-8601", DateValue(stamp), "2024-03-15T10:30:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Serialize())
		})
	}
}

// TestGrid_Value tests that unset coordinates resolve to empty
func TestGrid_Value(t *testing.T) {
	g := NewGrid(3, 3)
	g.Set(1, 1, StringValue("a"))

	assert.Equal(t, StringValue("a"), g.Value(1, 1))
	assert.Equal(t, KindEmpty, g.Value(2, 2).Kind)
	assert.Equal(t, KindEmpty, g.Value(99, 99).Kind)
}

// TestGrid_RowIsBlank tests row blankness over the full column span
func TestGrid_RowIsBlank(t *testing.T) {
	g := NewGrid(2, 3)
	g.Set(1, 3, StringValue("x"))
	g.Set(2, 1, StringValue("   "))

	assert.False(t, g.RowIsBlank(1))
	assert.True(t, g.RowIsBlank(2))
}

// TestMergeRange_Contains tests range membership
func TestMergeRange_Contains(t *testing.T) {
	m := MergeRange{MinRow: 2, MaxRow: 3, MinCol: 1, MaxCol: 4}

	assert.True(t, m.Contains(2, 1))
	assert.True(t, m.Contains(3, 4))
	assert.False(t, m.Contains(1, 1))
	assert.False(t, m.Contains(4, 2))
}

// TestMergeRange_SpansMultiple tests the structural-signal check
func TestMergeRange_SpansMultiple(t *testing.T) {
	assert.True(t, MergeRange{MinRow: 1, MaxRow: 1, MinCol: 2, MaxCol: 3}.SpansMultiple())
	assert.True(t, MergeRange{MinRow: 1, MaxRow: 2, MinCol: 2, MaxCol: 2}.SpansMultiple())
	assert.False(t, MergeRange{MinRow: 5, MaxRow: 5, MinCol: 5, MaxCol: 5}.SpansMultiple())
}
