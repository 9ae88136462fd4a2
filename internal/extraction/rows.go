package extraction

import (
	"apucli/internal/grid"

	"apucli/pkg/contracts/domain"
)

// Field offsets relative to a block's base column. Both strategies share this
// layout: anchored blocks use the anchor column as base, the fixed-step
// fallback uses the configured element start column (F by default, giving the
// absolute F..S span).
const (
	offLocation = iota
	offHeight
	offWidth
	offLength
	offArea
	offQuantity
	offSubtotal
	offDiscHeight
	offDiscWidth
	offDiscLength
	offDiscArea
	offDiscQuantity
	offDiscSubtotal
	offTotal
)

// extractRows reads one QuantityDetail per row of [startRow, endRow] at fixed
// offsets from baseCol. Rows that are blank across the whole span, or whose
// location cell is blank, are skipped without emitting anything.
func extractRows(s *grid.Sheet, startRow, endRow, baseCol int) []domain.QuantityDetail {
	var details []domain.QuantityDetail
	for row := startRow; row <= endRow; row++ {
		if d, ok := extractRow(s, row, baseCol); ok {
			details = append(details, d)
		}
	}
	return details
}

func extractRow(s *grid.Sheet, row, baseCol int) (domain.QuantityDetail, bool) {
	if s.RowBlank(row, baseCol, blockSpan) {
		return domain.QuantityDetail{}, false
	}

	location := rawValue(s.Cell(row, baseCol+offLocation))
	if isBlankValue(location) {
		return domain.QuantityDetail{}, false
	}

	num := func(off int) any {
		return RoundIfNumeric(rawValue(s.Cell(row, baseCol+off)))
	}

	return domain.QuantityDetail{
		Location: location,
		Height:   num(offHeight),
		Width:    num(offWidth),
		Length:   num(offLength),
		Area:     num(offArea),
		Quantity: num(offQuantity),
		Subtotal: num(offSubtotal),
		Total:    domain.Total{Total: num(offTotal)},
		Discounts: []domain.Discount{{
			Element:  "",
			Height:   num(offDiscHeight),
			Width:    num(offDiscWidth),
			Length:   num(offDiscLength),
			Area:     num(offDiscArea),
			Quantity: num(offDiscQuantity),
			Subtotal: num(offDiscSubtotal),
		}},
	}, true
}

// rawValue lifts a grid cell into the value model of the extracted records:
// blank cells become nil, everything else keeps its string form until the
// normalizer coerces it.
func rawValue(cell string) any {
	if grid.IsBlank(cell) {
		return nil
	}
	return cell
}
