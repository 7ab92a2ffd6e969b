package catalog

import (
	"regexp"
	"strings"
)

// Rule names for model-number recognizers.
const (
	RuleModelLabeled = "model_labeled"
	RuleModelDashed  = "model_dashed"
	RuleModelAlnum   = "model_alnum"
)

var (
	modelLabeledRe = regexp.MustCompile(`(?i)\b(?:model|part\s*#|part\s*no\.?|part\s*number|pn|sku|cat\s*#|catalog\s*#|item\s*#)[.:\s]\s*([A-Za-z0-9][A-Za-z0-9.\-/]*)`)
	modelDashedRe  = regexp.MustCompile(`\b([A-Z]{1,6}[-–]\d+[A-Z0-9.\-]*)\b`)
	modelAlnumRe   = regexp.MustCompile(`\b([A-Z]{1,6}\d+[A-Z0-9.\-]*)\b`)

	// locationCodeRe matches short gridline/location labels like "L01"
	// or "B2". These are positions on a drawing, not catalog numbers,
	// and only an explicit model/part label overrides that reading.
	locationCodeRe = regexp.MustCompile(`^[A-Z]\d{1,2}$`)

	// legalVocabRe flags disclaimer boilerplate. A line carrying it
	// never yields a model number, labeled or not.
	legalVocabRe = regexp.MustCompile(`(?i)\b(copyright|all rights reserved|proprietary|confidential|disclaimer|liability|warranty|reproduction)\b|©`)
)

func modelRules() []Rule {
	return []Rule{
		{Name: RuleModelLabeled, Pattern: modelLabeledRe, Post: normalizeModel},
		{Name: RuleModelDashed, Pattern: modelDashedRe, Post: unlabeledModel},
		{Name: RuleModelAlnum, Pattern: modelAlnumRe, Post: unlabeledModel},
	}
}

// modelLineGuard vetoes model extraction for an entire line.
func modelLineGuard(line string) bool {
	return legalVocabRe.MatchString(line)
}

func normalizeModel(line string, m []int) string {
	v := strings.ToUpper(strings.TrimSpace(line[m[2]:m[3]]))
	return strings.Trim(v, ".-")
}

// unlabeledModel applies the stricter checks that only an explicit
// label can bypass: location-code shapes are rejected, and a line that
// consists of nothing but the code is a location label, not an item.
func unlabeledModel(line string, m []int) string {
	v := normalizeModel(line, m)
	if v == "" || locationCodeRe.MatchString(v) {
		return ""
	}
	if codeDominated(line, line[m[2]:m[3]]) {
		return ""
	}
	return v
}

// codeDominated reports whether removing the code leaves nothing of
// substance on the line.
func codeDominated(line, code string) bool {
	rest := strings.Replace(line, code, "", 1)
	rest = strings.TrimFunc(rest, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '-' || r == ':' || r == '.' || r == ',' || r == '(' || r == ')'
	})
	return len(rest) < 3
}
