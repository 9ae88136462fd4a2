package extraction

// DefaultAnchorText is the header phrase that marks the start of a quantity
// detail table. Matching is exact after trim+upcase.
const DefaultAnchorText = "UBICACIÓN / ELEMENTO"

const (
	// blockSpan is the width of one detail table: location, six measure
	// columns, six discount columns and the total.
	blockSpan = 14

	// maxBlockRows caps how many rows a single anchored block may span.
	maxBlockRows = 16

	// labelScanRows bounds the upward scan from an anchor when resolving
	// the block's code cell.
	labelScanRows = 30

	// nominalCodeColumn is column B, where code cells normally live.
	nominalCodeColumn = 2
)

// Params drives both extraction strategies. Zero values are not usable; start
// from DefaultParams and override what the workbook layout requires.
type Params struct {
	// AnchorText selects the anchor-based strategy when found anywhere in
	// the sheet's used range.
	AnchorText string

	// Fixed-step fallback coordinates, used when no anchor text exists.
	CodeColumn   string
	CodeRowStart int
	ElemColStart string
	ElemColEnd   string
	ElemRowStart int
	ElemRowEnd   int
	StepRows     int

	// RequireCodeLabel gates code acceptance on the CODIGO label sitting
	// directly above the code cell. Revisions of the source workbooks
	// disagree on whether the label is always present.
	RequireCodeLabel bool
}

// DefaultParams returns the standard quotation-table layout: codes in B
// starting at row 9, detail rows 12-27 in columns F..S, one block every 33
// rows, label validation on.
func DefaultParams() Params {
	return Params{
		AnchorText:       DefaultAnchorText,
		CodeColumn:       "B",
		CodeRowStart:     9,
		ElemColStart:     "F",
		ElemColEnd:       "S",
		ElemRowStart:     12,
		ElemRowEnd:       27,
		StepRows:         33,
		RequireCodeLabel: true,
	}
}
