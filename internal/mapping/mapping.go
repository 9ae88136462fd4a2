// Package mapping remaps the textual codes of an extracted Document to the
// platform's internal identifiers using the chapters lookup.
package mapping

import (
	"fmt"
	"strings"

	"apucli/pkg/contracts/domain"
)

// Mappings are the two lookup tables derived from the chapters payload:
// APU code -> subcategory id, and code prefix -> category id. Values are
// string-normalized to keep the wire types stable.
type Mappings struct {
	APUToSubcategory map[string]string
	CodeToCategory   map[string]string
}

// BuildMappings derives the lookup tables. The category id comes from the
// chapter item's outer id, attached under the prefix of each of its
// subcategory APU codes.
func BuildMappings(chapters []domain.Chapter) Mappings {
	m := Mappings{
		APUToSubcategory: make(map[string]string),
		CodeToCategory:   make(map[string]string),
	}

	for _, ch := range chapters {
		for _, sc := range ch.Subcategories {
			if sc.APU == "" {
				continue
			}
			if sc.ID != nil {
				m.APUToSubcategory[sc.APU] = fmt.Sprint(sc.ID)
			}
			if ch.ID != nil {
				prefix := strings.SplitN(sc.APU, ".", 2)[0]
				m.CodeToCategory[prefix] = fmt.Sprint(ch.ID)
			}
		}
	}
	return m
}

// Transform produces the mapped form of a document: category codes and
// subcategory ids replaced where a mapping exists, cedula renamed to
// beneficiary_document, budget id resolved. The input document is not
// mutated.
func Transform(doc *domain.Document, m Mappings, budgetID any) domain.MappedBudget {
	categories := make([]domain.Category, len(doc.Categories))
	for i, cat := range doc.Categories {
		mapped := cat
		if id, ok := m.CodeToCategory[cat.Codigo]; ok && id != "" {
			mapped.Codigo = id
		}

		mapped.Subcategories = make([]domain.Subcategory, len(cat.Subcategories))
		for j, sub := range cat.Subcategories {
			ms := sub
			if sub.ID != nil {
				if id, ok := m.APUToSubcategory[fmt.Sprint(sub.ID)]; ok && id != "" {
					ms.ID = id
				}
			}
			mapped.Subcategories[j] = ms
		}
		categories[i] = mapped
	}

	var document string
	if doc.Cedula != nil {
		document = fmt.Sprint(doc.Cedula)
	}

	return domain.MappedBudget{
		BeneficiaryDocument: document,
		BudgetID:            budgetID,
		Categories:          categories,
	}
}

// ResolveBudgetID picks the budget id for one output file with the stage's
// precedence: per-file override, then the global value, then nothing.
func ResolveBudgetID(fileName string, perFile map[string]any, global any) any {
	if id, ok := perFile[fileName]; ok {
		return id
	}
	return global
}
