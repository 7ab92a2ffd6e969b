// Package merge reconciles rule-derived items with items proposed by an
// external text-understanding call. Rule items are authoritative for
// provenance; external items can fill gaps and contribute newly
// discovered items.
package merge

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/takeoff-cli/internal/catalog"
	"github.com/sells-group/takeoff-cli/internal/model"
)

// Similarity scoring. A candidate pair must reach matchThreshold to be
// merged at all.
const (
	scoreFixtureExact     = 10
	scoreFixtureSubstring = 5
	scoreModelExact       = 8
	scoreModelSubstring   = 4
	scorePageMatch        = 3

	matchThreshold = 3
)

// Source records which side contributed a merged field value.
type Source string

const (
	SourceRules    Source = "rules"
	SourceExternal Source = "external"
)

// Candidate pairs a rule item with its best external match.
type Candidate struct {
	Item     model.ExtractedItem
	External *model.ExtractedItem
	Score    int
	Fields   map[catalog.Field]Source
}

// Report summarizes what the merge changed. Zero-value means the
// external pass was a no-op and callers should report rule-only output.
type Report struct {
	MatchedExternal int
	EnrichedItems   int
	AppendedItems   int
}

// Changed reports whether the merge enriched or added anything.
func (r Report) Changed() bool {
	return r.EnrichedItems > 0 || r.AppendedItems > 0
}

// Hybrid merges external items into the rule items. Every rule item is
// emitted, merged or not, in its original order; unused external items
// carrying at least a page number or fixture type are appended as new
// discoveries. The inputs are not modified.
func Hybrid(ruleItems, external []model.ExtractedItem) ([]model.ExtractedItem, Report) {
	var rep Report
	out := make([]model.ExtractedItem, 0, len(ruleItems))
	used := make([]bool, len(external))

	for i := range ruleItems {
		cand := bestMatch(&ruleItems[i], external, used)
		if cand.External == nil {
			out = append(out, ruleItems[i])
			continue
		}
		rep.MatchedExternal++
		before := ruleItems[i].FilledFields()
		merged := mergeFields(&cand)
		if merged.FilledFields() > before {
			rep.EnrichedItems++
		}
		out = append(out, merged)
	}

	for i := range external {
		if used[i] {
			continue
		}
		ext := external[i]
		if ext.PageNumber <= 0 && ext.FixtureType == "" {
			continue
		}
		// Discovered items have no rule provenance.
		ext.TableNumber = 0
		ext.RowNumber = 0
		ext.LineNumber = 0
		ext.RawText = ""
		out = append(out, ext)
		rep.AppendedItems++
	}

	if rep.Changed() {
		zap.L().Debug("hybrid merge applied",
			zap.Int("matched", rep.MatchedExternal),
			zap.Int("enriched", rep.EnrichedItems),
			zap.Int("appended", rep.AppendedItems))
	}
	return out, rep
}

// bestMatch scores every unused external item against a rule item and
// returns the highest scorer, or an empty candidate below threshold.
// The winning external item is marked used.
func bestMatch(it *model.ExtractedItem, external []model.ExtractedItem, used []bool) Candidate {
	best := Candidate{Item: *it}
	bestIdx := -1
	for i := range external {
		if used[i] {
			continue
		}
		s := score(it, &external[i])
		if s > best.Score {
			best.Score = s
			bestIdx = i
		}
	}
	if bestIdx < 0 || best.Score < matchThreshold {
		return Candidate{Item: *it}
	}
	used[bestIdx] = true
	best.External = &external[bestIdx]
	return best
}

func score(a, b *model.ExtractedItem) int {
	s := 0
	af, bf := strings.ToLower(a.FixtureType), strings.ToLower(b.FixtureType)
	if af != "" && bf != "" {
		switch {
		case af == bf:
			s += scoreFixtureExact
		case strings.Contains(af, bf) || strings.Contains(bf, af):
			s += scoreFixtureSubstring
		}
	}
	am, bm := strings.ToLower(a.ModelNumber), strings.ToLower(b.ModelNumber)
	if am != "" && bm != "" {
		switch {
		case am == bm:
			s += scoreModelExact
		case strings.Contains(am, bm) || strings.Contains(bm, am):
			s += scoreModelSubstring
		}
	}
	if a.PageNumber > 0 && a.PageNumber == b.PageNumber {
		s += scorePageMatch
	}
	return s
}

// mergeFields merges the external item into the rule item field by
// field: take the external value when the rule value is empty or no
// longer than the external one, so ties go to the external value.
// Provenance fields always come from the rule item.
func mergeFields(c *Candidate) model.ExtractedItem {
	merged := c.Item
	ext := c.External
	c.Fields = map[catalog.Field]Source{}

	pick := func(f catalog.Field, rule, external string) string {
		if external != "" && len(external) >= len(rule) {
			c.Fields[f] = SourceExternal
			return external
		}
		c.Fields[f] = SourceRules
		return rule
	}

	merged.FixtureType = pick(catalog.FieldFixtureType, merged.FixtureType, ext.FixtureType)
	merged.ModelNumber = pick(catalog.FieldModelNumber, merged.ModelNumber, ext.ModelNumber)
	merged.Dimensions = pick(catalog.FieldDimensions, merged.Dimensions, ext.Dimensions)
	merged.MountingType = pick(catalog.FieldMountingType, merged.MountingType, ext.MountingType)
	merged.SpecReference = pick(catalog.FieldSpecReference, merged.SpecReference, ext.SpecReference)

	pick(catalog.FieldQuantity, merged.Quantity.String(), ext.Quantity.String())
	if c.Fields[catalog.FieldQuantity] == SourceExternal {
		merged.Quantity = ext.Quantity
	}
	return merged
}
