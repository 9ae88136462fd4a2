// Package extraction implements the repeating-block tabular extraction engine
// for unit-cost quotation worksheets.
//
// A detail sheet holds repeated groups of rows ("blocks"), one per
// subcategory of measured quantities. Two mutually exclusive strategies
// produce the same result shape: the anchor-based strategy locates blocks by
// a header phrase anywhere in the used range, and the fixed-step fallback
// walks constant absolute coordinates when no anchor exists. Both share one
// row extractor, and both feed the same normalization passes before the
// records are grouped into categories.
//
// The engine is pure: it reads an already-open grid, allocates no shared
// state, raises nothing on messy content, and a sheet that yields zero
// categories is a valid result.
package extraction

import (
	"apucli/internal/grid"

	"apucli/pkg/contracts/domain"
)

// block is one resolved subcategory before grouping: the raw code cell value
// and the detail rows extracted from its row range.
type block struct {
	id      string
	details []domain.QuantityDetail
}

// ExtractSheet extracts all quantity categories from one detail sheet.
// Strategy selection happens exactly once: anchors found means anchor-based,
// otherwise fixed-step.
func ExtractSheet(s *grid.Sheet, p Params) []domain.Category {
	var blocks []block
	if anchors := findAnchors(s, p.AnchorText); len(anchors) > 0 {
		blocks = extractAnchored(s, p, anchors)
	} else {
		blocks = extractStepwise(s, p)
	}

	return groupBlocks(blocks)
}

// groupBlocks turns resolved blocks into subcategories and groups them into
// categories keyed by derived code, preserving first-seen code order and
// insertion order within a code.
func groupBlocks(blocks []block) []domain.Category {
	categories := []domain.Category{}
	index := make(map[string]int)

	for _, b := range blocks {
		sub := buildSubcategory(b)

		code := CategoryCode(b.id)
		i, seen := index[code]
		if !seen {
			i = len(categories)
			index[code] = i
			categories = append(categories, domain.Category{Codigo: code})
		}
		categories[i].Subcategories = append(categories[i].Subcategories, sub)
	}
	return categories
}

// buildSubcategory runs the post-processing passes over a block's rows and
// aggregates its total column. The total is attached only when the raw id
// contains a digit; ids that are pure text carry no meaningful quantity sum.
func buildSubcategory(b block) domain.Subcategory {
	PruneDiscounts(b.details)
	ZeroNulls(b.details)

	sub := domain.Subcategory{
		ID:              b.id,
		QuantityDetails: b.details,
	}
	if LooksLikeCode(b.id) {
		total := sumTotals(b.details)
		sub.TotalQuantity = &total
	}
	return sub
}

// sumTotals adds up the coercible row totals; non-numeric entries contribute
// nothing. The sum itself is rounded like every other emitted number.
func sumTotals(details []domain.QuantityDetail) float64 {
	var sum float64
	for _, d := range details {
		if f, ok := toFloat(d.Total.Total); ok {
			sum += f
		}
	}
	return round2(sum)
}
