package extraction

import (
	"apucli/internal/grid"
)

// extractStepwise is the fallback strategy for sheets without anchor text:
// blocks sit at fixed absolute coordinates advancing by a constant row stride.
// The walk stops at the first blank code cell; reads past the sheet's extent
// are blank, so the loop is bounded by the populated range. A code cell that
// fails validation skips its block but keeps walking.
func extractStepwise(s *grid.Sheet, p Params) []block {
	codeCol, err := grid.ColumnNumber(p.CodeColumn)
	if err != nil {
		return nil
	}
	baseCol, err := grid.ColumnNumber(p.ElemColStart)
	if err != nil {
		return nil
	}

	var blocks []block
	for i := 0; ; i++ {
		codeRow := p.CodeRowStart + i*p.StepRows
		id := s.Cell(codeRow, codeCol)
		if grid.IsBlank(id) {
			break
		}

		if !ValidCode(id, s.Cell(codeRow-1, codeCol), p.RequireCodeLabel) {
			continue
		}

		start := p.ElemRowStart + i*p.StepRows
		end := p.ElemRowEnd + i*p.StepRows
		details := extractRows(s, start, end, baseCol)
		if len(details) == 0 {
			continue
		}
		blocks = append(blocks, block{id: id, details: details})
	}
	return blocks
}
