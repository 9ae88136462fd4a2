package extraction

import (
	"apucli/pkg/contracts/domain"
)

// PruneDiscounts drops discount entries that carry no positive numeric field.
// When nothing survives the detail loses its discounts key entirely. Running
// the pass twice is a no-op.
func PruneDiscounts(details []domain.QuantityDetail) {
	for i := range details {
		var kept []domain.Discount
		for _, d := range details[i].Discounts {
			if discountHasValue(d) {
				kept = append(kept, d)
			}
		}
		details[i].Discounts = kept
	}
}

func discountHasValue(d domain.Discount) bool {
	for _, v := range []any{d.Height, d.Width, d.Length, d.Area, d.Quantity, d.Subtotal} {
		if f, ok := toFloat(v); ok && f > 0 {
			return true
		}
	}
	return false
}

// ZeroNulls replaces missing numeric fields with 0.0 on every detail, its
// nested total and every retained discount. Runs after PruneDiscounts so a
// zeroed field can never keep a dead discount alive. Idempotent.
func ZeroNulls(details []domain.QuantityDetail) {
	for i := range details {
		d := &details[i]
		d.Height = zeroIfBlank(d.Height)
		d.Width = zeroIfBlank(d.Width)
		d.Length = zeroIfBlank(d.Length)
		d.Area = zeroIfBlank(d.Area)
		d.Quantity = zeroIfBlank(d.Quantity)
		d.Subtotal = zeroIfBlank(d.Subtotal)
		d.Total.Total = zeroIfBlank(d.Total.Total)

		for j := range d.Discounts {
			dd := &d.Discounts[j]
			dd.Height = zeroIfBlank(dd.Height)
			dd.Width = zeroIfBlank(dd.Width)
			dd.Length = zeroIfBlank(dd.Length)
			dd.Area = zeroIfBlank(dd.Area)
			dd.Quantity = zeroIfBlank(dd.Quantity)
			dd.Subtotal = zeroIfBlank(dd.Subtotal)
		}
	}
}

func zeroIfBlank(v any) any {
	if isBlankValue(v) {
		return 0.0
	}
	return v
}
