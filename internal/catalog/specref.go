package catalog

import (
	"regexp"
	"strings"
)

// Rule names for spec/reference recognizers.
const (
	RuleSpecStandard = "spec_standard"
	RuleSpecGrade    = "spec_grade"
	RuleSpecLabeled  = "spec_labeled"
	RuleSpecDecimal  = "spec_decimal"
)

var (
	specStandardRe = regexp.MustCompile(`\b(ASTM|ANSI|ASME|UL|CSA|NEMA|NFPA|AWWA|IPC|NSF|IAPMO|AISI|AWS|SMACNA)[\s\-]?([A-Z0-9][A-Z0-9.\-/]*)\b`)
	specGradeRe    = regexp.MustCompile(`(?i)\b(grade|class|type|schedule|sch)[.\s]+([A-Z0-9]+)\b`)
	specLabeledRe  = regexp.MustCompile(`(?i)\b(?:spec(?:ification)?|section|detail|sheet|dwg|drawing)[.#:\s]\s*([A-Z0-9][A-Z0-9.\-/]*)`)
	specDecimalRe  = regexp.MustCompile(`\b(\d+\.\d+)\b`)
)

func specRules() []Rule {
	return []Rule{
		{Name: RuleSpecStandard, Pattern: specStandardRe, Post: joinSpecGroups},
		{Name: RuleSpecGrade, Pattern: specGradeRe, Post: joinSpecGroups},
		{Name: RuleSpecLabeled, Pattern: specLabeledRe},
		{Name: RuleSpecDecimal, Pattern: specDecimalRe},
	}
}

// joinSpecGroups renders two-part references as a single token, e.g.
// "ASTM A53" or "Grade B".
func joinSpecGroups(line string, m []int) string {
	var parts []string
	for i := 2; i+1 < len(m); i += 2 {
		if m[i] >= 0 && m[i+1] > m[i] {
			parts = append(parts, strings.TrimSpace(line[m[i]:m[i+1]]))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	parts[0] = strings.ToUpper(parts[0][:1]) + parts[0][1:]
	return strings.Join(parts, " ")
}
