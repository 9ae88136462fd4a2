// Package payloads assembles the final disbursement payload for one mapped
// budget document from a registry template and a beneficiary record.
package payloads

import (
	"apucli/pkg/contracts/domain"
)

// Build fills a payload template with the mapped document and beneficiary
// lookup values. The reference map is mutated and returned; callers pass a
// fresh template copy per file.
func Build(reference map[string]any, mapped *domain.MappedBudget, beneficiary map[string]any) map[string]any {
	reference["beneficiary_id"] = mapped.ID
	reference["contractor_id"] = nestedID(beneficiary, "contractor")
	reference["contract_id"] = nestedID(beneficiary, "contract")
	reference["department_id"] = nestedID(beneficiary, "department")
	reference["municipality_id"] = nestedID(beneficiary, "municipality")
	reference["categories"] = mapped.Categories
	reference["update_aiu"] = mapped.BudgetID != nil
	reference["beneficiary_document"] = mapped.BeneficiaryDocument
	return reference
}

// nestedID pulls beneficiary["<key>"]["id"], tolerating missing or oddly
// shaped entries.
func nestedID(beneficiary map[string]any, key string) any {
	nested, ok := beneficiary[key].(map[string]any)
	if !ok {
		return nil
	}
	return nested["id"]
}
