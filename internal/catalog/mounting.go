package catalog

import (
	"regexp"
	"strings"
)

// Rule names for mounting-type recognizers.
const (
	RuleMountCompound = "mount_compound"
	RuleMountVocab    = "mount_vocab"
)

var (
	mountCompoundRe = regexp.MustCompile(`(?i)\b((?:wall|floor|ceiling|surface)[-\s]*(?:hung|mount(?:ed|ing)?))\b`)
	mountVocabRe    = regexp.MustCompile(`(?i)\b(recessed|semi[-\s]recessed|concealed|exposed|flush|undercounter|countertop|freestanding|free[-\s]standing|suspended|pendant|in[-\s]wall)\b`)
	mountSplitRe    = regexp.MustCompile(`[-\s]+`)
)

func mountingRules() []Rule {
	return []Rule{
		{Name: RuleMountCompound, Pattern: mountCompoundRe, Post: normalizeMounting},
		{Name: RuleMountVocab, Pattern: mountVocabRe, Post: normalizeMounting},
	}
}

// normalizeMounting renders any spelling ("wall hung", "WALL-MOUNTED")
// as hyphenated title case: "Wall-Hung", "Wall-Mounted".
func normalizeMounting(line string, m []int) string {
	v := strings.TrimSpace(line[m[2]:m[3]])
	parts := mountSplitRe.Split(v, -1)
	for i, p := range parts {
		parts[i] = fixtureTitle.String(strings.ToLower(p))
	}
	return strings.Join(parts, "-")
}
