package catalog

import (
	"regexp"
	"strings"
)

// Rule names for quantity recognizers, ordered by trust. Callers branch
// on these: a labeled quantity is authoritative, a decimal one is a
// soft reference that may be reclassified as a spec reference, and a
// bare number on its own is never enough to create an item.
const (
	RuleQuantityLabeled = "quantity_labeled"
	RuleQuantityUnit    = "quantity_unit"
	RuleQuantityParen   = "quantity_paren"
	RuleQuantityDecimal = "quantity_decimal"
	RuleQuantityBare    = "quantity_bare"
)

var (
	qtyLabeledRe = regexp.MustCompile(`(?i)\b(?:qty|quantity)[.:\s]\s*(\d+)\b`)
	qtyUnitRe    = regexp.MustCompile(`(?i)\b(\d+)\s*(?:ea|each|pcs|pieces|pc|units?|lf|linear\s+feet|sq\.?\s*ft\.?|square\s+feet|ft|feet)\b`)
	qtyParenRe   = regexp.MustCompile(`\((\d{1,4})\)`)
	qtyDecimalRe = regexp.MustCompile(`\b(\d+\.\d+)\b`)
	qtyBareRe    = regexp.MustCompile(`^\s*(\d{1,3})\b`)

	// modelTokenRe covers model-number-shaped tokens such as "MAU-11"
	// or "CH30". Digits inside these spans are never quantities.
	modelTokenRe = regexp.MustCompile(`\b[A-Za-z]{1,6}[-–]\d+[A-Za-z0-9.\-]*\b|\b[A-Za-z]{2,6}\d+[A-Za-z0-9.\-]*\b`)
)

func quantityRules() []Rule {
	return []Rule{
		{Name: RuleQuantityLabeled, Pattern: qtyLabeledRe, Post: qtyOutsideModelToken},
		{Name: RuleQuantityUnit, Pattern: qtyUnitRe, Post: qtyOutsideModelToken},
		{Name: RuleQuantityParen, Pattern: qtyParenRe, Post: qtyOutsideModelToken},
		{Name: RuleQuantityDecimal, Pattern: qtyDecimalRe, Post: qtyOutsideModelToken},
		{Name: RuleQuantityBare, Pattern: qtyBareRe, Post: qtyOutsideModelToken},
	}
}

// qtyOutsideModelToken rejects a hit whose numeric group sits inside a
// model-number-shaped token, so the "11" of "MAU-11" is never read as
// a quantity.
func qtyOutsideModelToken(line string, m []int) string {
	gs, ge := m[2], m[3]
	if gs < 0 {
		return ""
	}
	for _, span := range modelTokenRe.FindAllStringIndex(line, -1) {
		if gs >= span[0] && ge <= span[1] {
			return ""
		}
	}
	return strings.TrimSpace(line[gs:ge])
}
