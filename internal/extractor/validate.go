package extractor

import (
	"strings"

	"github.com/sells-group/takeoff-cli/internal/model"
)

// validateItems normalizes every item in place of dropping it: page
// numbers are clamped to ≥1, model numbers upper-cased, and string
// fields trimmed. Provenance is always preserved.
func validateItems(items []model.ExtractedItem) []model.ExtractedItem {
	out := make([]model.ExtractedItem, 0, len(items))
	for _, it := range items {
		if it.PageNumber < 1 {
			it.PageNumber = 1
		}
		it.FixtureType = strings.TrimSpace(it.FixtureType)
		it.ModelNumber = strings.ToUpper(strings.TrimSpace(it.ModelNumber))
		it.Dimensions = strings.TrimSpace(it.Dimensions)
		it.MountingType = strings.TrimSpace(it.MountingType)
		it.SpecReference = strings.TrimSpace(it.SpecReference)
		it.Quantity.Ref = strings.TrimSpace(it.Quantity.Ref)
		out = append(out, it)
	}
	return out
}
