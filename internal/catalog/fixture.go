package catalog

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rule names for fixture-type recognizers.
const (
	RuleFixturePlumbing   = "fixture_plumbing"
	RuleFixtureMechanical = "fixture_mechanical"
	RuleFixtureShop       = "fixture_shop"
	RuleFixtureGeneric    = "fixture_generic"
)

var fixtureTitle = cases.Title(language.AmericanEnglish)

var (
	plumbingWords = []string{
		"pipe", "piping", "fitting", "duct", "conduit", "fixture", "valve",
		"faucet", "sink", "toilet", "urinal", "lavatory", "shower", "bathtub",
		"drain", "vent", "elbow", "tee", "coupling", "reducer", "adapter",
		"flange", "gasket", "hanger", "trap", "cleanout", "backflow preventer",
		"water heater", "floor drain", "hose bibb",
	}
	mechanicalWords = []string{
		"pump", "boiler", "chiller", "compressor", "fan", "blower", "heater",
		"furnace", "air handler", "heat exchanger", "unit heater", "tank",
		"motor", "coil", "condenser", "evaporator", "expansion tank",
		"circulating pump", "damper", "louver", "diffuser", "grille",
	}
	shopWords = []string{
		"bench", "cabinet", "locker", "shelving", "workstation", "eye wash",
		"eyewash", "station", "rack", "hood", "hoist", "vise", "dispenser",
	}
	genericWords = []string{
		"package", "assembly", "unit", "system", "panel", "enclosure",
		"equipment", "bracket", "mount", "support",
	}
)

func fixtureRules(extra []string) []Rule {
	generic := genericWords
	if len(extra) > 0 {
		generic = append(append([]string{}, genericWords...), extra...)
	}
	return []Rule{
		keywordRule(RuleFixturePlumbing, plumbingWords),
		keywordRule(RuleFixtureMechanical, mechanicalWords),
		keywordRule(RuleFixtureShop, shopWords),
		keywordRule(RuleFixtureGeneric, generic),
	}
}

func keywordRule(name string, words []string) Rule {
	alts := make([]string, len(words))
	for i, w := range words {
		alts[i] = regexp.QuoteMeta(w)
	}
	re := regexp.MustCompile(`(?i)\b(` + strings.Join(alts, "|") + `)\b`)
	return Rule{
		Name:    name,
		Pattern: re,
		Post:    expandFixturePhrase,
	}
}

var fixtureWordRe = regexp.MustCompile(`^[A-Z][A-Za-z/&']*$`)

// expandFixturePhrase grows the matched keyword into the surrounding
// capitalized phrase, so "2 VALVE PACKAGE (OM-141)" yields "VALVE
// PACKAGE" rather than just "VALVE". Tokens containing digits or
// punctuation stop the expansion. Duplicate adjacent words are
// collapsed and the result is title-cased.
func expandFixturePhrase(line string, m []int) string {
	start, end := m[0], m[1]

	// Walk back over preceding capitalized words.
	for {
		ws, we, ok := prevWord(line, start)
		if !ok || !fixtureWordRe.MatchString(line[ws:we]) {
			break
		}
		start = ws
	}
	// Walk forward over following capitalized words.
	for {
		ws, we, ok := nextWord(line, end)
		if !ok || !fixtureWordRe.MatchString(line[ws:we]) {
			break
		}
		end = we
	}

	phrase := collapseRepeats(strings.Fields(line[start:end]))
	if phrase == "" {
		return ""
	}
	return fixtureTitle.String(strings.ToLower(phrase))
}

// prevWord finds the word immediately before pos, allowing only spaces
// between it and pos.
func prevWord(line string, pos int) (int, int, bool) {
	i := pos
	for i > 0 && line[i-1] == ' ' {
		i--
	}
	if i == pos || i == 0 {
		return 0, 0, false
	}
	end := i
	for i > 0 && !isSpace(line[i-1]) {
		i--
	}
	return i, end, true
}

// nextWord finds the word immediately after pos, allowing only spaces
// between pos and it.
func nextWord(line string, pos int) (int, int, bool) {
	i := pos
	for i < len(line) && line[i] == ' ' {
		i++
	}
	if i == pos || i >= len(line) {
		return 0, 0, false
	}
	start := i
	for i < len(line) && !isSpace(line[i]) {
		i++
	}
	return start, i, true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

// collapseRepeats joins words, dropping any word equal to its
// predecessor ("VALVE VALVE PACKAGE" becomes "VALVE PACKAGE").
func collapseRepeats(words []string) string {
	out := words[:0]
	prev := ""
	for _, w := range words {
		if strings.EqualFold(w, prev) {
			continue
		}
		out = append(out, w)
		prev = w
	}
	return strings.Join(out, " ")
}
