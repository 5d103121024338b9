package extractor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// materializeRows classifies and materializes a single-region sheet.
func materializeRows(t *testing.T, sheet *fakeSheet) domain.Section {
	t.Helper()
	merges, err := sheet.MergeRanges()
	require.NoError(t, err)
	grid := buildGrid(sheet, merges)
	regions := segment(grid)
	require.Len(t, regions, 1)
	verdict := classify(regions[0], grid, merges, newStyleCache(sheet), DefaultWeights())
	return materialize(verdict, regions[0], grid)
}

// TestNormalizeKey tests key canonicalisation
func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Client Name:", "Client_Name"},
		{" Total (USD) ", "Total_USD"},
		{"a__--__b", "a_b"},
		{"already_clean", "already_clean"},
		{"2024 Revenue", "2024_Revenue"},
		{"Line\nBreak\tTab", "Line_Break_Tab"},
		{"Réunion été", "Réunion_été"},
		{"###", ""},
		{"", ""},
		{"_wrapped_", "wrapped"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeKey(tt.in))
		})
	}
}

// TestMaterialize_KeyValueNormalisesKeys tests key cleanup on the way in
func TestMaterialize_KeyValueNormalisesKeys(t *testing.T) {
	section := materializeRows(t, sheetFromRows([][]any{
		{"Client Name:", "Acme Corp"},
		{"Account (Primary)", 99},
	}))

	require.Equal(t, domain.SectionKeyValue, section.Type)
	assert.Equal(t, []string{"Client_Name", "Account_Primary"}, section.KeyValue.Data.Keys())
}

// TestMaterialize_KeyValueLastWins tests duplicate key overwrite
func TestMaterialize_KeyValueLastWins(t *testing.T) {
	section := materializeRows(t, sheetFromRows([][]any{
		{"Name", "First"},
		{"ID", "123"},
		{"Name", "Second"},
	}))

	require.Equal(t, domain.SectionKeyValue, section.Type)
	assert.Equal(t, []string{"Name", "ID"}, section.KeyValue.Data.Keys())

	v, ok := section.KeyValue.Data.Get("Name")
	require.True(t, ok)
	assert.Equal(t, "Second", v)
}

// TestMaterialize_KeyValueNumericKey tests non-string key cells
func TestMaterialize_KeyValueNumericKey(t *testing.T) {
	section := materializeRows(t, sheetFromRows([][]any{
		{"Name", "Acme"},
		{"Code", "X"},
		{42, "meaning"},
	}))

	require.Equal(t, domain.SectionKeyValue, section.Type)
	v, ok := section.KeyValue.Data.Get("42")
	require.True(t, ok)
	assert.Equal(t, "meaning", v)
}

// TestMaterialize_KeyValueBlankValueKept tests that a key with an empty
// value cell still lands in the map as nil
func TestMaterialize_KeyValueBlankValueKept(t *testing.T) {
	section := materializeRows(t, sheetFromRows([][]any{
		{"Name", "Acme"},
		{"Fax", nil},
	}))

	require.Equal(t, domain.SectionKeyValue, section.Type)
	v, ok := section.KeyValue.Data.Get("Fax")
	require.True(t, ok)
	assert.Nil(t, v)
}

// TestMaterialize_KeyValueExcludesLabelRow tests that a lifted label
// never becomes a data key
func TestMaterialize_KeyValueExcludesLabelRow(t *testing.T) {
	section := materializeRows(t, sheetFromRows([][]any{
		{"Client Details", nil},
		{"Name", "Acme"},
		{"ID", "123"},
	}))

	require.Equal(t, domain.SectionKeyValue, section.Type)
	assert.Equal(t, "Client Details", section.Header)
	_, ok := section.KeyValue.Data.Get("Client_Details")
	assert.False(t, ok)
	assert.Equal(t, []string{"Name", "ID"}, section.KeyValue.Data.Keys())
}

// TestMaterialize_TableHeaderFallbacks tests positional names for
// headerless columns
func TestMaterialize_TableHeaderFallbacks(t *testing.T) {
	section := materializeRows(t, sheetFromRows([][]any{
		{"Name", nil, "###", "City"},
		{"Alice", 1, 2, "Berlin"},
		{"Bob", 3, 4, "Paris"},
	}))

	require.Equal(t, domain.SectionTable, section.Type)
	assert.Equal(t, []string{"Name", "column_1", "column_2", "City"}, section.Table.Headers)
}

// TestMaterialize_TableDropsEmptyRows tests that blank rows inside a
// region produce no records and row numbers stay grid-accurate
func TestMaterialize_TableDropsEmptyRows(t *testing.T) {
	section := materializeRows(t, sheetFromRows([][]any{
		{"Name", "Age", "City"},
		{"Alice", 30, "Berlin"},
		{nil, nil, nil},
		{"Bob", 25, "Paris"},
	}))

	require.Equal(t, domain.SectionTable, section.Type)
	require.Len(t, section.Table.Rows, 2)
	assert.Equal(t, 2, section.Table.Rows[0][domain.RowNumberField])
	assert.Equal(t, 4, section.Table.Rows[1][domain.RowNumberField])
}

// TestMaterialize_TableAfterLabelRow tests that headers come from the
// body, not the lifted label
func TestMaterialize_TableAfterLabelRow(t *testing.T) {
	section := materializeRows(t, sheetFromRows([][]any{
		{"Products", nil, nil},
		{"Name", "Qty", "Price"},
		{"Ball", 2, 3},
		{"Bat", 1, 5},
	}))

	require.Equal(t, domain.SectionTable, section.Type)
	assert.Equal(t, "Products", section.Header)
	assert.Equal(t, []string{"Name", "Qty", "Price"}, section.Table.Headers)
	require.Len(t, section.Table.Rows, 2)
	assert.Equal(t, 3, section.Table.Rows[0][domain.RowNumberField])
	assert.Equal(t, 4, section.Table.Rows[1][domain.RowNumberField])
}

// TestMaterialize_ComplexTokenDedup tests that merge-propagated header
// values collapse to one token per column
func TestMaterialize_ComplexTokenDedup(t *testing.T) {
	sheet := sheetFromRows([][]any{
		{"Region", "Q1", "Q1"},
		{"Region", "Jan", "Feb"},
		{"North", 1, 2},
		{"South", 3, 4},
	})
	sheet.merges = []domain.MergeRange{
		{MinRow: 1, MaxRow: 2, MinCol: 1, MaxCol: 1},
		{MinRow: 1, MaxRow: 1, MinCol: 2, MaxCol: 3},
	}

	section := materializeRows(t, sheet)

	require.Equal(t, domain.SectionComplexHeader, section.Type)
	assert.Equal(t, 3, section.ComplexHeader.HeaderLevels)
	assert.Equal(t, []string{"Region_North", "Q1_Jan_1", "Q1_Feb_2"}, section.ComplexHeader.FinalColumns)
}

// TestMaterialize_ComplexConsumesThreeLevels tests the header-level cap
func TestMaterialize_ComplexConsumesThreeLevels(t *testing.T) {
	sheet := sheetFromRows([][]any{
		{"Book", "FY", "FY"},
		{"Book", "H1", "H2"},
		{"Book", "Jan", "Jul"},
		{"Ledger", 1, 2},
		{"Journal", 3, 4},
	})
	sheet.merges = []domain.MergeRange{
		{MinRow: 1, MaxRow: 3, MinCol: 1, MaxCol: 1},
		{MinRow: 1, MaxRow: 1, MinCol: 2, MaxCol: 3},
	}

	section := materializeRows(t, sheet)

	require.Equal(t, domain.SectionComplexHeader, section.Type)
	assert.Equal(t, 3, section.ComplexHeader.HeaderLevels)
	assert.Equal(t, []string{"Book", "FY_H1_Jan", "FY_H2_Jul"}, section.ComplexHeader.FinalColumns)

	require.Len(t, section.ComplexHeader.Rows, 2)
	assert.Equal(t, "Ledger", section.ComplexHeader.Rows[0]["Book"])
	assert.Equal(t, 4, section.ComplexHeader.Rows[0][domain.RowNumberField])
}

// TestMaterialize_ComplexShortBodyFallsBackToTable tests the flat-table
// downgrade for regions too short to stack headers
func TestMaterialize_ComplexShortBodyFallsBackToTable(t *testing.T) {
	sheet := sheetFromRows([][]any{
		{"A", "B"},
		{1, 2},
	})
	sheet.merges = []domain.MergeRange{{MinRow: 1, MaxRow: 1, MinCol: 1, MaxCol: 2}}

	grid := buildGrid(sheet, sheet.merges)
	regions := segment(grid)
	require.Len(t, regions, 1)

	verdict := classify(regions[0], grid, sheet.merges, newStyleCache(sheet), DefaultWeights())
	require.Equal(t, domain.SectionComplexHeader, verdict.sectionType)

	section := materialize(verdict, regions[0], grid)

	assert.Equal(t, domain.SectionTable, section.Type)
	assert.Nil(t, section.ComplexHeader)
	require.NotNil(t, section.Table)
	assert.Equal(t, verdict.confidence, section.Confidence)
}

// TestMaterialize_RawPreservesEverything tests lossless fallback
func TestMaterialize_RawPreservesEverything(t *testing.T) {
	when := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	sheet := sheetFromRows([][]any{
		{1, 100},
		{2, when},
	})

	section := materializeRows(t, sheet)

	require.Equal(t, domain.SectionRaw, section.Type)
	require.NotNil(t, section.Raw)
	assert.Equal(t, [][]any{
		{1.0, 100.0},
		{2.0, "2024-01-15T00:00:00Z"},
	}, section.Raw.Matrix)
}

// TestMaterialize_DateCellsSerializeISO tests date handling in records
func TestMaterialize_DateCellsSerializeISO(t *testing.T) {
	when := time.Date(2024, 3, 31, 12, 30, 0, 0, time.UTC)
	section := materializeRows(t, sheetFromRows([][]any{
		{"Name", "Updated", "Score"},
		{"Acme", when, 7},
		{"Globex", when, 9},
	}))

	require.Equal(t, domain.SectionTable, section.Type)
	assert.Equal(t, "2024-03-31T12:30:00Z", section.Table.Rows[0]["Updated"])
}
