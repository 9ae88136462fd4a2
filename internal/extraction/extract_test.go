package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"apucli/internal/grid"
	"apucli/pkg/contracts/domain"
)

// sheetFromCells builds an in-memory sheet from sparse cell addresses
// ("B9" -> value), everything else blank.
func sheetFromCells(t *testing.T, cells map[string]string) *grid.Sheet {
	t.Helper()

	maxRow, maxCol := 0, 0
	coords := make(map[[2]int]string, len(cells))
	for addr, v := range cells {
		col, row, err := excelize.CellNameToCoordinates(addr)
		require.NoError(t, err)
		coords[[2]int{row, col}] = v
		if row > maxRow {
			maxRow = row
		}
		if col > maxCol {
			maxCol = col
		}
	}

	rows := make([][]string, maxRow)
	for i := range rows {
		rows[i] = make([]string, maxCol)
	}
	for rc, v := range coords {
		rows[rc[0]-1][rc[1]-1] = v
	}
	return grid.NewSheetFromRows("Sheet1", rows)
}

func TestExtractSheetAnchored(t *testing.T) {
	// Anchor at F10, sub-header row 11, code 7.2 labeled at B8/B9,
	// one detail row at 12.
	s := sheetFromCells(t, map[string]string{
		"F10": "UBICACIÓN / ELEMENTO",
		"F11": "ALTO",
		"B8":  "CODIGO",
		"B9":  "7.2",
		"F12": "Room 1",
		"S12": "100.004",
	})

	cats := ExtractSheet(s, DefaultParams())

	require.Len(t, cats, 1)
	assert.Equal(t, "7", cats[0].Codigo)
	require.Len(t, cats[0].Subcategories, 1)

	sub := cats[0].Subcategories[0]
	assert.Equal(t, "7.2", sub.ID)
	require.NotNil(t, sub.TotalQuantity)
	assert.Equal(t, 100.0, *sub.TotalQuantity)
	require.Len(t, sub.QuantityDetails, 1)

	d := sub.QuantityDetails[0]
	assert.Equal(t, "Room 1", d.Location)
	assert.Equal(t, 100.0, d.Total.Total)
	assert.Equal(t, 0.0, d.Height, "blank fields are zeroed")
	assert.Nil(t, d.Discounts, "blank discount columns are pruned")
}

func TestExtractSheetAnchoredKeepsPositiveDiscount(t *testing.T) {
	s := sheetFromCells(t, map[string]string{
		"F10": "UBICACIÓN / ELEMENTO",
		"B8":  "CODIGO",
		"B9":  "7.2",
		"F12": "Room 1",
		"M12": "2.5", // discount height
		"S12": "100",
	})

	cats := ExtractSheet(s, DefaultParams())

	require.Len(t, cats, 1)
	d := cats[0].Subcategories[0].QuantityDetails[0]
	require.Len(t, d.Discounts, 1)
	assert.Equal(t, 2.5, d.Discounts[0].Height)
	assert.Equal(t, "", d.Discounts[0].Element)
	assert.Equal(t, 0.0, d.Discounts[0].Width, "blank discount fields are zeroed")
}

func TestExtractSheetAnchorNormalization(t *testing.T) {
	// Anchor comparison trims and upcases.
	s := sheetFromCells(t, map[string]string{
		"F10": "  ubicación / elemento  ",
		"B8":  "CÓDIGO",
		"B9":  "3.1",
		"F12": "Muro",
		"S12": "1",
	})

	cats := ExtractSheet(s, DefaultParams())
	require.Len(t, cats, 1)
	assert.Equal(t, "3", cats[0].Codigo)
}

func TestExtractSheetAnchoredSkipsUnlabeledCode(t *testing.T) {
	// Code candidate exists but nothing above it is the CODIGO label.
	s := sheetFromCells(t, map[string]string{
		"F10": "UBICACIÓN / ELEMENTO",
		"B9":  "7.2",
		"F12": "Room 1",
		"S12": "100",
	})

	cats := ExtractSheet(s, DefaultParams())
	assert.Empty(t, cats)
}

func TestExtractSheetAnchoredFallbackCodeColumn(t *testing.T) {
	// No candidate in column B; code sits two columns left of the anchor (D).
	s := sheetFromCells(t, map[string]string{
		"F10": "UBICACIÓN / ELEMENTO",
		"D8":  "CODIGO",
		"D9":  "12.4",
		"F12": "Room 1",
		"S12": "50",
	})

	cats := ExtractSheet(s, DefaultParams())

	require.Len(t, cats, 1)
	assert.Equal(t, "12", cats[0].Codigo)
	assert.Equal(t, "12.4", cats[0].Subcategories[0].ID)
}

func TestExtractSheetAnchoredBlockBoundedByNextAnchor(t *testing.T) {
	s := sheetFromCells(t, map[string]string{
		"B8":  "CODIGO",
		"B9":  "1.1",
		"F10": "UBICACIÓN / ELEMENTO",
		"F12": "Piso 1",
		"S12": "10",
		"F13": "Piso 2",
		"S13": "20",

		"B20": "CODIGO",
		"B21": "2.1",
		"F22": "UBICACIÓN / ELEMENTO",
		"F24": "Techo",
		"S24": "5",
	})

	cats := ExtractSheet(s, DefaultParams())

	require.Len(t, cats, 2)
	assert.Equal(t, "1", cats[0].Codigo)
	require.Len(t, cats[0].Subcategories, 1)
	assert.Len(t, cats[0].Subcategories[0].QuantityDetails, 2)
	require.NotNil(t, cats[0].Subcategories[0].TotalQuantity)
	assert.Equal(t, 30.0, *cats[0].Subcategories[0].TotalQuantity)

	assert.Equal(t, "2", cats[1].Codigo)
	assert.Len(t, cats[1].Subcategories[0].QuantityDetails, 1)
}

func TestExtractSheetAnchoredSkipsRowsWithoutLocation(t *testing.T) {
	s := sheetFromCells(t, map[string]string{
		"F10": "UBICACIÓN / ELEMENTO",
		"B8":  "CODIGO",
		"B9":  "4.1",
		"F12": "Room 1",
		"S12": "10",
		"S13": "99", // total without a location: the row is not emitted
		"F14": "Room 2",
		"S14": "15",
	})

	cats := ExtractSheet(s, DefaultParams())

	require.Len(t, cats, 1)
	sub := cats[0].Subcategories[0]
	require.Len(t, sub.QuantityDetails, 2)
	require.NotNil(t, sub.TotalQuantity)
	assert.Equal(t, 25.0, *sub.TotalQuantity, "skipped rows do not contribute to the total")
}

func TestExtractSheetEmptyBlockDropped(t *testing.T) {
	// Valid anchor and code, but no detail rows at all.
	s := sheetFromCells(t, map[string]string{
		"F10": "UBICACIÓN / ELEMENTO",
		"B8":  "CODIGO",
		"B9":  "4.1",
	})

	cats := ExtractSheet(s, DefaultParams())
	assert.Empty(t, cats)
}

func TestExtractSheetStepwise(t *testing.T) {
	// No anchor text anywhere: fixed-step fallback at B9, rows 12-27, F..S.
	s := sheetFromCells(t, map[string]string{
		"B8":  "CODIGO",
		"B9":  "3.1",
		"F12": "loc1",
		"S12": "10",
		"F13": "loc2",
		"S13": "20.5",
	})

	cats := ExtractSheet(s, DefaultParams())

	require.Len(t, cats, 1)
	assert.Equal(t, "3", cats[0].Codigo)
	require.Len(t, cats[0].Subcategories, 1)

	sub := cats[0].Subcategories[0]
	assert.Len(t, sub.QuantityDetails, 2)
	require.NotNil(t, sub.TotalQuantity)
	assert.Equal(t, 30.5, *sub.TotalQuantity)
}

func TestExtractSheetStepwiseSkipsUnlabeledBlock(t *testing.T) {
	// B9 holds a code but B8 carries no label: block skipped, walk continues
	// to the next stride and stops at its blank code cell.
	s := sheetFromCells(t, map[string]string{
		"B9":  "3.1",
		"F12": "loc1",
		"S12": "10",
	})

	cats := ExtractSheet(s, DefaultParams())
	assert.Empty(t, cats)
}

func TestExtractSheetStepwiseWithoutLabelRequirement(t *testing.T) {
	p := DefaultParams()
	p.RequireCodeLabel = false

	s := sheetFromCells(t, map[string]string{
		"B9":  "PRELIMINARES",
		"F12": "loc1",
		"S12": "10",
	})

	cats := ExtractSheet(s, p)

	require.Len(t, cats, 1)
	assert.Equal(t, "PRELIMINARES", cats[0].Codigo)
	sub := cats[0].Subcategories[0]
	assert.Equal(t, "PRELIMINARES", sub.ID)
	assert.Nil(t, sub.TotalQuantity, "digit-less ids carry no total_quantity")
}

func TestExtractSheetStepwiseMultipleBlocks(t *testing.T) {
	s := sheetFromCells(t, map[string]string{
		"B8":  "CODIGO",
		"B9":  "3.1",
		"F12": "a",
		"S12": "1",

		// Second block one stride (33 rows) down.
		"B41": "CODIGO",
		"B42": "3.2",
		"F45": "b",
		"S45": "2",
	})

	cats := ExtractSheet(s, DefaultParams())

	// Same derived code prefix: both subcategories under one category.
	require.Len(t, cats, 1)
	assert.Equal(t, "3", cats[0].Codigo)
	require.Len(t, cats[0].Subcategories, 2)
	assert.Equal(t, "3.1", cats[0].Subcategories[0].ID)
	assert.Equal(t, "3.2", cats[0].Subcategories[1].ID)
}

func TestExtractSheetStepwiseStopsAtBlankCode(t *testing.T) {
	// A block beyond a blank code cell is never reached.
	s := sheetFromCells(t, map[string]string{
		"B8":  "CODIGO",
		"B9":  "3.1",
		"F12": "a",
		"S12": "1",

		// B42 blank; B75 would be the third stride.
		"B74": "CODIGO",
		"B75": "9.9",
		"F78": "c",
		"S78": "7",
	})

	cats := ExtractSheet(s, DefaultParams())

	require.Len(t, cats, 1)
	require.Len(t, cats[0].Subcategories, 1)
	assert.Equal(t, "3.1", cats[0].Subcategories[0].ID)
}

func TestExtractSheetEmptySheet(t *testing.T) {
	s := grid.NewSheetFromRows("Sheet1", nil)
	cats := ExtractSheet(s, DefaultParams())
	assert.Empty(t, cats)
}

func TestGroupingPreservesFirstSeenOrder(t *testing.T) {
	blocks := []block{
		{id: "7.2", details: []domain.QuantityDetail{{Location: "a"}}},
		{id: "3.1", details: []domain.QuantityDetail{{Location: "b"}}},
		{id: "7.5", details: []domain.QuantityDetail{{Location: "c"}}},
	}

	cats := groupBlocks(blocks)

	require.Len(t, cats, 2)
	assert.Equal(t, "7", cats[0].Codigo)
	assert.Equal(t, "3", cats[1].Codigo)
	require.Len(t, cats[0].Subcategories, 2)
	assert.Equal(t, "7.2", cats[0].Subcategories[0].ID)
	assert.Equal(t, "7.5", cats[0].Subcategories[1].ID)
}

func TestAggregateIgnoresNonNumericTotals(t *testing.T) {
	details := []domain.QuantityDetail{
		{Total: domain.Total{Total: 10.5}},
		{Total: domain.Total{Total: "pendiente"}},
		{Total: domain.Total{Total: nil}},
		{Total: domain.Total{Total: "4.5"}},
	}
	assert.Equal(t, 15.0, sumTotals(details))
}
