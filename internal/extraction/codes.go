package extraction

import (
	"strings"
	"unicode"
)

// Accepted spellings of the code label that must sit directly above a
// subcategory code cell. Both appear in the field worksheets.
var codeLabels = []string{"CODIGO", "CÓDIGO"}

// LooksLikeCode reports whether a raw value is a plausible subcategory
// identifier: non-blank with at least one decimal digit. It deliberately does
// not try to parse the value, since ids like "14.1" arrive as text or as
// numbers depending on how the sheet was filled in.
func LooksLikeCode(v string) bool {
	if strings.TrimSpace(v) == "" {
		return false
	}
	for _, r := range v {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// IsCodeLabel reports whether a raw value is the CODE label after
// normalization (trim, upcase).
func IsCodeLabel(v string) bool {
	n := normalizeLabel(v)
	for _, l := range codeLabels {
		if n == l {
			return true
		}
	}
	return false
}

// ValidCode is the positional-coupling predicate between a candidate code
// cell and the cell immediately above it. With requireLabel set a candidate
// must look like a code and carry the CODIGO label directly above; without it
// any non-blank candidate is accepted, which is how workbook revisions
// without labels (and with pure-text ids) are read.
func ValidCode(candidate, labelAbove string, requireLabel bool) bool {
	if strings.TrimSpace(candidate) == "" {
		return false
	}
	if !requireLabel {
		return true
	}
	return LooksLikeCode(candidate) && IsCodeLabel(labelAbove)
}

// CategoryCode derives the category code from a subcategory id: the substring
// before the first dot, after normalizing any decimal comma ("14,1" and
// "14.1" both map to "14"). A blank id maps to the empty code bucket.
func CategoryCode(id string) string {
	if strings.TrimSpace(id) == "" {
		return ""
	}
	s := strings.ReplaceAll(id, ",", ".")
	if i := strings.Index(s, "."); i >= 0 {
		return s[:i]
	}
	return s
}

func normalizeLabel(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}
