// Package catalog holds the ordered recognizer rules that pull structured
// fields out of construction and engineering document text. Rules are
// compiled once into an immutable Catalog and evaluated per field in
// priority order; exclusion rules veto whole lines before any field rule
// runs.
package catalog

import (
	"regexp"
	"strings"
)

// Field names one of the extraction targets.
type Field string

const (
	FieldFixtureType   Field = "fixture_type"
	FieldQuantity      Field = "quantity"
	FieldModelNumber   Field = "model_number"
	FieldDimensions    Field = "dimensions"
	FieldMountingType  Field = "mounting_type"
	FieldSpecReference Field = "spec_reference"
)

// Fields lists every extraction target in canonical order.
var Fields = []Field{
	FieldFixtureType,
	FieldQuantity,
	FieldModelNumber,
	FieldDimensions,
	FieldMountingType,
	FieldSpecReference,
}

// Rule is one recognizer: a compiled pattern plus an optional
// post-processor that can normalize the captured value or reject the
// hit by returning the empty string. When Post is nil the first capture
// group (or the whole match) is taken as-is.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp

	// Post receives the full line and the submatch index slice from
	// FindStringSubmatchIndex. Returning "" rejects this occurrence and
	// evaluation moves to the next occurrence, then the next rule.
	Post func(line string, m []int) string
}

func (r Rule) eval(line string) (string, bool) {
	for _, m := range r.Pattern.FindAllStringSubmatchIndex(line, -1) {
		v := r.extract(line, m)
		if v != "" {
			return v, true
		}
	}
	return "", false
}

func (r Rule) extract(line string, m []int) string {
	if r.Post != nil {
		return r.Post(line, m)
	}
	return groupOrWhole(line, m)
}

// groupOrWhole returns the first non-empty capture group, falling back
// to the full match.
func groupOrWhole(line string, m []int) string {
	for i := 2; i+1 < len(m); i += 2 {
		if m[i] >= 0 && m[i+1] > m[i] {
			return strings.TrimSpace(line[m[i]:m[i+1]])
		}
	}
	return strings.TrimSpace(line[m[0]:m[1]])
}

// FieldMatch is one accepted rule hit.
type FieldMatch struct {
	Field Field
	Value string
	Rule  string
}

type fieldRules struct {
	rules []Rule

	// longestWins evaluates every rule and keeps the longest accepted
	// value instead of stopping at the first hit. Used for fixture
	// types, where "Valve Package" should beat "Valve".
	longestWins bool

	// guard vetoes the whole field for a line before any rule runs.
	guard func(line string) bool
}

// Catalog is the immutable compiled rule set. Construct with New and
// share freely; Catalog has no mutable state.
type Catalog struct {
	fields     map[Field]fieldRules
	exclusions []exclusion
}

// exclusion vetoes a whole line. Unlike field rules it produces no
// value, only a verdict.
type exclusion struct {
	name  string
	match func(line string) bool
}

// Option customizes catalog construction.
type Option func(*options)

type options struct {
	extraFixtureWords []string
}

// WithFixtureVocabulary extends the generic fixture keyword rule with
// site-specific terms, typically loaded from a vocabulary file.
func WithFixtureVocabulary(words []string) Option {
	return func(o *options) {
		o.extraFixtureWords = append(o.extraFixtureWords, words...)
	}
}

// New compiles the full rule catalog.
func New(opts ...Option) *Catalog {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Catalog{
		fields: map[Field]fieldRules{
			FieldFixtureType: {
				rules:       fixtureRules(o.extraFixtureWords),
				longestWins: true,
			},
			FieldQuantity: {rules: quantityRules()},
			FieldModelNumber: {
				rules: modelRules(),
				guard: modelLineGuard,
			},
			FieldDimensions:    {rules: dimensionRules()},
			FieldMountingType:  {rules: mountingRules()},
			FieldSpecReference: {rules: specRules()},
		},
		exclusions: exclusionRules(),
	}
}

// Match runs the rules for a single field against a line, in priority
// order, and returns the first accepted hit. For longest-wins fields
// every rule is tried and the longest value is kept.
func (c *Catalog) Match(f Field, line string) (FieldMatch, bool) {
	fr, ok := c.fields[f]
	if !ok {
		return FieldMatch{}, false
	}
	if fr.guard != nil && fr.guard(line) {
		return FieldMatch{}, false
	}
	if fr.longestWins {
		var best FieldMatch
		for _, r := range fr.rules {
			if v, ok := r.eval(line); ok && len(v) > len(best.Value) {
				best = FieldMatch{Field: f, Value: v, Rule: r.Name}
			}
		}
		return best, best.Value != ""
	}
	for _, r := range fr.rules {
		if v, ok := r.eval(line); ok {
			return FieldMatch{Field: f, Value: v, Rule: r.Name}, true
		}
	}
	return FieldMatch{}, false
}

// MatchAll evaluates every field against the line.
func (c *Catalog) MatchAll(line string) map[Field]FieldMatch {
	out := make(map[Field]FieldMatch, len(Fields))
	for _, f := range Fields {
		if m, ok := c.Match(f, line); ok {
			out[f] = m
		}
	}
	return out
}

// Excluded reports whether any exclusion rule vetoes the line, and
// which one fired.
func (c *Catalog) Excluded(line string) (string, bool) {
	for _, e := range c.exclusions {
		if e.match(line) {
			return e.name, true
		}
	}
	return "", false
}
