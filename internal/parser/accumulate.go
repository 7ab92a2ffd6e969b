package parser

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/takeoff-cli/internal/catalog"
	"github.com/sells-group/takeoff-cli/internal/model"
)

// AccumulatePage walks a page's lines, holding a current-item state and
// emitting completed items at boundaries. An item is emitted only when
// it carries at least one of fixture type, model number, or quantity.
func (p *Parser) AccumulatePage(page model.PageText) []model.ExtractedItem {
	lines := strings.Split(page.Text, "\n")
	var items []model.ExtractedItem
	var current *model.ExtractedItem

	flush := func() {
		if current != nil && current.HasCore() {
			items = append(items, *current)
		}
		current = nil
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		d := p.DetectLine(line)
		switch d.Kind {
		case KindRejected:
			if d.Excluded != "" {
				zap.L().Debug("line excluded",
					zap.Int("page", page.PageNumber),
					zap.Int("line", i+1),
					zap.String("rule", d.Excluded))
			}
		case KindNewItem:
			flush()
			current = p.seedItem(d, line, page.PageNumber, i+1)
		case KindEnrichment, KindSpecOnly:
			if current == nil {
				continue
			}
			p.enrichFromContext(current, lines, i)
		}
	}
	flush()
	return items
}

// seedItem builds a fresh item from a detection.
func (p *Parser) seedItem(d Detection, line string, pageNum, lineNum int) *model.ExtractedItem {
	it := &model.ExtractedItem{
		PageNumber: pageNum,
		LineNumber: lineNum,
		RawText:    line,
	}
	for f, m := range d.Fields {
		setField(it, f, m.Value)
	}
	if it.FixtureType == "" && d.FallbackFixture != "" {
		it.FixtureType = d.FallbackFixture
	}
	return it
}

// enrichFromContext fills gaps on the current item using the previous,
// current, and next lines, in that order, taking the first success per
// field and never overwriting. Excluded context lines are skipped.
func (p *Parser) enrichFromContext(it *model.ExtractedItem, lines []string, i int) {
	var ctx []string
	for _, j := range []int{i - 1, i, i + 1} {
		if j < 0 || j >= len(lines) {
			continue
		}
		line := strings.TrimSpace(lines[j])
		if line == "" {
			continue
		}
		if _, excluded := p.cat.Excluded(line); excluded {
			continue
		}
		ctx = append(ctx, line)
	}

	for _, f := range catalog.Fields {
		if fieldSet(it, f) {
			continue
		}
		for _, line := range ctx {
			m, ok := p.cat.Match(f, line)
			if !ok {
				continue
			}
			if f == catalog.FieldQuantity && m.Rule == catalog.RuleQuantityDecimal {
				// Unlabeled decimals enrich only the spec reference.
				continue
			}
			setField(it, f, m.Value)
			break
		}
	}
}

func setField(it *model.ExtractedItem, f catalog.Field, v string) {
	switch f {
	case catalog.FieldFixtureType:
		if it.FixtureType == "" {
			it.FixtureType = v
		}
	case catalog.FieldQuantity:
		if it.Quantity.IsZero() {
			it.Quantity = parseQuantity(v)
		}
	case catalog.FieldModelNumber:
		if it.ModelNumber == "" {
			it.ModelNumber = v
		}
	case catalog.FieldDimensions:
		if it.Dimensions == "" {
			it.Dimensions = v
		}
	case catalog.FieldMountingType:
		if it.MountingType == "" {
			it.MountingType = v
		}
	case catalog.FieldSpecReference:
		if it.SpecReference == "" {
			it.SpecReference = v
		}
	}
}

func fieldSet(it *model.ExtractedItem, f catalog.Field) bool {
	switch f {
	case catalog.FieldFixtureType:
		return it.FixtureType != ""
	case catalog.FieldQuantity:
		return !it.Quantity.IsZero()
	case catalog.FieldModelNumber:
		return it.ModelNumber != ""
	case catalog.FieldDimensions:
		return it.Dimensions != ""
	case catalog.FieldMountingType:
		return it.MountingType != ""
	case catalog.FieldSpecReference:
		return it.SpecReference != ""
	}
	return false
}
