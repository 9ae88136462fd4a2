// Package enrich matches mapped budget documents against the users lookup by
// beneficiary document number.
package enrich

import (
	"regexp"

	"apucli/pkg/contracts/domain"
)

var nonDigits = regexp.MustCompile(`\D+`)

// NormalizeDigits strips everything but decimal digits from a document
// number, so "1.098.765-432" and "1098765432" compare equal.
func NormalizeDigits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// UserInfo is the slice of a user record the pipeline cares about.
type UserInfo struct {
	ID       any
	BudgetID any
}

// BuildUserMap indexes users by normalized document number. Users without a
// usable document number are dropped.
func BuildUserMap(users []domain.User) map[string]UserInfo {
	m := make(map[string]UserInfo, len(users))
	for _, u := range users {
		doc := NormalizeDigits(u.DocumentNumber)
		if doc == "" {
			continue
		}
		m[doc] = UserInfo{ID: u.ID, BudgetID: u.BudgetID}
	}
	return m
}

// Apply sets id, budget_id and exist on a mapped document from the user map.
// An unmatched document keeps its budget id, gets a nil user id and
// exist=false; matched documents take both ids from the user record.
func Apply(doc *domain.MappedBudget, users map[string]UserInfo) {
	exist := false
	defer func() { doc.Exist = &exist }()

	ced := NormalizeDigits(doc.BeneficiaryDocument)
	if ced == "" {
		return
	}
	info, ok := users[ced]
	if !ok {
		return
	}

	doc.ID = info.ID
	doc.BudgetID = info.BudgetID
	exist = true
}
