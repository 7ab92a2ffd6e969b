package catalog

import (
	"regexp"
	"strings"
)

// Rule names for dimension recognizers.
const (
	RuleDimFeetInches = "dim_feet_inches"
	RuleDimLxWxH      = "dim_lxwxh"
	RuleDimDiameter   = "dim_diameter"
	RuleDimValueUnit  = "dim_value_unit"
	RuleDimFraction   = "dim_fraction"
)

var (
	// 25'-1 5/8"
	dimFeetInchesRe = regexp.MustCompile(`\b(\d+'\s*-\s*\d+(?:\s+\d+/\d+)?\s*")`)
	// 2 x 4 x 6, 12" x 24", 1/2 x 3/4
	dimLxWxHRe = regexp.MustCompile(`\b(\d+(?:[./]\d+)?\s*["']?\s*[xX×]\s*\d+(?:[./]\d+)?\s*["']?(?:\s*[xX×]\s*\d+(?:[./]\d+)?\s*["']?)?)`)
	// 1 1/2"ø, ø2", 3" dia, 4 inch OD
	dimDiameterRe = regexp.MustCompile(`(\d+(?:\s+\d+/\d+|/\d+|\.\d+)?\s*"?\s*[øØ⌀])|([øØ⌀]\s*\d+(?:\s+\d+/\d+|/\d+|\.\d+)?\s*"?)|(?i:\b(\d+(?:[./]\d+|\s+\d+/\d+)?\s*(?:"|in(?:ch(?:es)?)?)?\s*(?:diameter|dia\.?|OD|ID))\b)`)
	// 24", 3 ft, 50mm
	dimValueUnitRe = regexp.MustCompile(`(?i)\b(\d+(?:[./]\d+|\s+\d+/\d+)?\s*(?:"|''|in(?:ch(?:es)?)?\b|ft\b|feet\b|mm\b|cm\b|m\b))`)
	// bare 5/8 or 1 1/2, only with dimension context on the line
	dimFractionRe = regexp.MustCompile(`\b(\d+\s+\d+/\d+|\d+/\d+)\b`)

	dimContextRe = regexp.MustCompile(`(?i)(diameter|\bdia\b|\bsize\b|[øØ⌀]|inch|")`)
)

func dimensionRules() []Rule {
	return []Rule{
		{Name: RuleDimFeetInches, Pattern: dimFeetInchesRe},
		{Name: RuleDimLxWxH, Pattern: dimLxWxHRe},
		{Name: RuleDimDiameter, Pattern: dimDiameterRe},
		{Name: RuleDimValueUnit, Pattern: dimValueUnitRe},
		{Name: RuleDimFraction, Pattern: dimFractionRe, Post: fractionWithContext},
	}
}

// fractionWithContext accepts a bare fraction only when the line gives
// it dimension meaning. A lone "5/8" elsewhere is noise.
func fractionWithContext(line string, m []int) string {
	if !dimContextRe.MatchString(line) {
		return ""
	}
	return strings.TrimSpace(line[m[2]:m[3]])
}
