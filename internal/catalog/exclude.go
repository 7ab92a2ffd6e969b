package catalog

import (
	"regexp"
	"strings"
	"unicode"
)

// Exclusion rule names, reported by Excluded so callers can log which
// veto fired.
const (
	ExcludeBoilerplate = "exclude_boilerplate"
	ExcludeAllCaps     = "exclude_all_caps"
	ExcludeDigitsOnly  = "exclude_digits_only"
	ExcludePunctOnly   = "exclude_punct_only"
	ExcludeInstruction = "exclude_instruction"
	ExcludeDrawingRef  = "exclude_drawing_ref"
)

const allCapsMinLen = 60

var (
	boilerplateRe = regexp.MustCompile(`(?i)\b(copyright|all rights reserved|proprietary|confidential|disclaimer|terms and conditions|liability|warranty|indemnity|indemnification|reproduction prohibited)\b|©`)
	instructionRe = regexp.MustCompile(`(?i)^\s*(?:see\b|refer\b|use\b|install\b|note[:\s])`)
	drawingRefRe  = regexp.MustCompile(`^\s*[A-Z]{1,3}[-.]?\d+(?:\.\d+)?\s*$`)
)

func exclusionRules() []exclusion {
	return []exclusion{
		{ExcludeBoilerplate, boilerplateRe.MatchString},
		{ExcludeAllCaps, isLongAllCaps},
		{ExcludeDigitsOnly, isDigitsOnly},
		{ExcludePunctOnly, isPunctOnly},
		{ExcludeInstruction, instructionRe.MatchString},
		{ExcludeDrawingRef, drawingRefRe.MatchString},
	}
}

// isLongAllCaps flags heading and title-block lines: long runs of
// upper-case text with no lower-case letters at all.
func isLongAllCaps(line string) bool {
	s := strings.TrimSpace(line)
	if len(s) < allCapsMinLen {
		return false
	}
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

func isDigitsOnly(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	hasDigit := false
	for _, r := range s {
		if unicode.IsDigit(r) {
			hasDigit = true
		} else if !unicode.IsSpace(r) && r != '.' && r != ',' && r != '-' {
			return false
		}
	}
	return hasDigit
}

func isPunctOnly(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
