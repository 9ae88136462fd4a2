package domain

// Budget extraction contracts.
//
// These structures are the Single Source of Truth for the hierarchical
// quantity data extracted from a quotation workbook. One Document is produced
// per workbook and serialized as-is to a consecutively numbered JSON file.
//
// Numeric fields that come straight off the grid are typed `any` on purpose:
// the source worksheets mix numbers, blanks and free text, and the extraction
// core passes non-numeric values through untouched. After the post-processing
// passes every numeric field holds either a float64 rounded to 2 decimals or
// exactly 0.0.

// Document is the extraction result for one workbook: the beneficiary
// document read from the APU sheet plus the grouped quantity categories of
// the detail sheet.
type Document struct {
	Cedula     any        `json:"cedula"`
	Categories []Category `json:"categories"`
}

// Category groups subcategories that share the same derived code prefix
// (the part of the subcategory id before the first dot). The empty string is
// a valid code bucket. Subcategory insertion order is preserved.
type Category struct {
	Codigo        string        `json:"codigo"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Subcategory is one resolved detail block. ID is the raw identifier exactly
// as read from the code cell (e.g. "14.1"). TotalQuantity is present only
// when the raw id contains at least one digit; it is the rounded sum of the
// block's total column. QuantityDetails is never empty: blocks that yield no
// rows are not emitted at all.
type Subcategory struct {
	ID              any              `json:"id"`
	TotalQuantity   *float64         `json:"total_quantity,omitempty"`
	QuantityDetails []QuantityDetail `json:"quantity_details"`
}

// QuantityDetail is a single measured row of a detail block. A row exists
// only if its location cell is non-blank. Discounts carries the deduction
// columns of the same row and is omitted entirely when no discount field is
// a positive number.
type QuantityDetail struct {
	Location  any        `json:"location"`
	Height    any        `json:"height"`
	Width     any        `json:"width"`
	Length    any        `json:"length"`
	Area      any        `json:"area"`
	Quantity  any        `json:"quantity"`
	Subtotal  any        `json:"subtotal"`
	Total     Total      `json:"total"`
	Discounts []Discount `json:"discounts,omitempty"`
}

// Total wraps the row total. The nesting mirrors the serialized layout the
// downstream mapping service consumes.
type Total struct {
	Total any `json:"total"`
}

// Discount mirrors the six numeric fields of QuantityDetail for a deduction
// row. Element is always the empty string in extracted data.
type Discount struct {
	Element  string `json:"element"`
	Height   any    `json:"height"`
	Width    any    `json:"width"`
	Length   any    `json:"length"`
	Area     any    `json:"area"`
	Quantity any    `json:"quantity"`
	Subtotal any    `json:"subtotal"`
}

// MappedBudget is a Document after the chapter-mapping stage: cedula has been
// renamed to beneficiary_document, codes and ids have been remapped against
// the chapters lookup, and the budget id has been resolved. BudgetID stays
// `any` (and is always serialized, null when unknown) to keep the wire shape
// of the mapping stage stable.
type MappedBudget struct {
	BeneficiaryDocument string     `json:"beneficiary_document"`
	BudgetID            any        `json:"budget_id"`
	ID                  any        `json:"id,omitempty"`
	Exist               *bool      `json:"exist,omitempty"`
	Categories          []Category `json:"categories"`
}

// Chapter is one entry of the get_chapters lookup payload.
type Chapter struct {
	ID            any                  `json:"id"`
	Category      string               `json:"category"`
	Region        string               `json:"region"`
	Subcategories []ChapterSubcategory `json:"subcategory"`
}

// ChapterSubcategory links an APU code (e.g. "1.10") to its internal id.
type ChapterSubcategory struct {
	ID  any    `json:"id"`
	APU string `json:"apu"`
}

// User is one entry of the get_users lookup payload. DocumentNumber is
// matched against the extracted beneficiary document after digit
// normalization.
type User struct {
	ID             any    `json:"id"`
	DocumentNumber string `json:"document_number"`
	BudgetID       any    `json:"budget_id"`
}
