package extraction

import (
	"apucli/internal/grid"
)

// anchor is the position of one detected table header cell.
type anchor struct {
	row int
	col int
}

// findAnchors scans every cell of the sheet's used range for the anchor
// phrase. At most one anchor is recorded per row (the leftmost match).
// Results come out sorted by row then column because the scan is row-major.
func findAnchors(s *grid.Sheet, text string) []anchor {
	want := normalizeLabel(text)
	if want == "" {
		return nil
	}

	var found []anchor
	for r := 1; r <= s.MaxRow(); r++ {
		for c := 1; c <= s.MaxCol(); c++ {
			if normalizeLabel(s.Cell(r, c)) == want {
				found = append(found, anchor{row: r, col: c})
				break
			}
		}
	}
	return found
}

// resolveBlock computes the inclusive detail row range for the anchor at
// index i. The block starts two rows under the anchor (skipping the
// sub-header), runs at most maxBlockRows rows, never reaches into the next
// anchor's block or past the sheet, and drops trailing rows that are blank
// across the block's own column span. A returned end < start means the block
// is empty.
func resolveBlock(s *grid.Sheet, anchors []anchor, i int) (start, end int) {
	a := anchors[i]
	start = a.row + 2
	end = start + maxBlockRows - 1

	if i+1 < len(anchors) && anchors[i+1].row-1 < end {
		end = anchors[i+1].row - 1
	}
	if s.MaxRow() < end {
		end = s.MaxRow()
	}

	for end >= start && s.RowBlank(end, a.col, blockSpan) {
		end--
	}
	return start, end
}

// resolveBlockCode finds the subcategory code for an anchored block by
// scanning upward from the anchor, first in column B and then in the column
// two left of the anchor. A candidate must be non-blank, look like a code and
// (subject to the label toggle) carry the CODIGO label directly above it.
func resolveBlockCode(s *grid.Sheet, a anchor, p Params) (string, bool) {
	cols := []int{nominalCodeColumn}
	if rel := a.col - 2; rel >= 1 && rel != nominalCodeColumn {
		cols = append(cols, rel)
	}

	floor := a.row - labelScanRows
	if floor < 1 {
		floor = 1
	}

	for _, col := range cols {
		for r := a.row - 1; r >= floor; r-- {
			v := s.Cell(r, col)
			if !LooksLikeCode(v) {
				continue
			}
			if p.RequireCodeLabel && !IsCodeLabel(s.Cell(r-1, col)) {
				continue
			}
			return v, true
		}
	}
	return "", false
}

// extractAnchored runs the anchor-based strategy: one block per anchor, each
// resolved and read with the shared row extractor. Blocks without a valid
// code or without any detail rows contribute nothing.
func extractAnchored(s *grid.Sheet, p Params, anchors []anchor) []block {
	var blocks []block
	for i := range anchors {
		start, end := resolveBlock(s, anchors, i)
		if end < start {
			continue
		}

		details := extractRows(s, start, end, anchors[i].col)

		code, ok := resolveBlockCode(s, anchors[i], p)
		if !ok || len(details) == 0 {
			continue
		}
		blocks = append(blocks, block{id: code, details: details})
	}
	return blocks
}
