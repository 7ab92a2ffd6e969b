package parser

import (
	"strings"

	"github.com/sells-group/takeoff-cli/internal/catalog"
)

// Kind classifies what a line contributes.
type Kind int

const (
	// KindRejected lines are excluded or match nothing usable.
	KindRejected Kind = iota
	// KindNewItem lines carry enough evidence to start an item.
	KindNewItem
	// KindEnrichment lines matched something but not enough to start
	// an item; they can fill gaps on a neighboring item.
	KindEnrichment
	// KindSpecOnly lines yielded only a spec reference, typically a
	// reclassified decimal.
	KindSpecOnly
)

// Detection is the classification of one line.
type Detection struct {
	Kind     Kind
	Fields   map[catalog.Field]catalog.FieldMatch
	Excluded string
	// FallbackFixture is a leading-phrase fixture type, set only when
	// the line was accepted as a new item without a keyword fixture
	// match.
	FallbackFixture string
}

const fallbackPhraseMax = 40

// DetectLine classifies a single line. Exclusion rules run first and
// veto unconditionally; then field rules run, the decimal quantity is
// disambiguated against spec-reference context, and the confidence
// gate decides whether evidence is strong enough to start an item.
func (p *Parser) DetectLine(line string) Detection {
	if name, ok := p.cat.Excluded(line); ok {
		return Detection{Kind: KindRejected, Excluded: name}
	}

	fields := p.cat.MatchAll(line)
	if len(fields) == 0 {
		return Detection{Kind: KindRejected}
	}
	p.reclassifyDecimal(fields)

	d := Detection{Fields: fields}
	switch {
	case p.gate(fields):
		d.Kind = KindNewItem
		if _, ok := fields[catalog.FieldFixtureType]; !ok {
			d.FallbackFixture = p.leadingPhrase(line)
		}
	case onlySpec(fields):
		d.Kind = KindSpecOnly
	default:
		d.Kind = KindEnrichment
	}
	return d
}

// reclassifyDecimal enforces that an unlabeled decimal never counts as
// a quantity when the line also carries model-number or dimension
// context, and that quantity and spec_reference never hold the same
// decimal at once. Unlabeled decimals default to spec_reference.
func (p *Parser) reclassifyDecimal(fields map[catalog.Field]catalog.FieldMatch) {
	qm, ok := fields[catalog.FieldQuantity]
	if !ok || qm.Rule != catalog.RuleQuantityDecimal {
		return
	}
	_, hasModel := fields[catalog.FieldModelNumber]
	_, hasDim := fields[catalog.FieldDimensions]
	sm, hasSpec := fields[catalog.FieldSpecReference]

	if hasModel || hasDim {
		if !hasSpec {
			fields[catalog.FieldSpecReference] = catalog.FieldMatch{
				Field: catalog.FieldSpecReference,
				Value: qm.Value,
				Rule:  catalog.RuleSpecDecimal,
			}
		}
		delete(fields, catalog.FieldQuantity)
		return
	}
	if hasSpec && sm.Value == qm.Value {
		delete(fields, catalog.FieldQuantity)
	}
}

// gate is the confidence check: a line starts an item only on a strong
// indicator. A lone dimension or a bare number never qualifies.
func (p *Parser) gate(fields map[catalog.Field]catalog.FieldMatch) bool {
	_, hasFixture := fields[catalog.FieldFixtureType]
	if hasFixture {
		return true
	}
	qm, hasQty := fields[catalog.FieldQuantity]
	_, hasModel := fields[catalog.FieldModelNumber]
	if hasQty && hasModel {
		return true
	}
	if hasModel {
		_, hasMount := fields[catalog.FieldMountingType]
		_, hasSpec := fields[catalog.FieldSpecReference]
		if hasMount || hasSpec {
			return true
		}
	}
	if hasQty && qm.Rule == catalog.RuleQuantityUnit {
		return true
	}
	return false
}

func onlySpec(fields map[catalog.Field]catalog.FieldMatch) bool {
	if len(fields) != 1 {
		return false
	}
	_, ok := fields[catalog.FieldSpecReference]
	return ok
}

// leadingPhrase takes a short prefix of the line as a fallback fixture
// type when the gate passed without a keyword match. Boilerplate and
// dimension-shaped prefixes are not usable.
func (p *Parser) leadingPhrase(line string) string {
	phrase := strings.TrimSpace(line)
	if i := strings.IndexAny(phrase, ",(:;"); i >= 0 {
		phrase = phrase[:i]
	}
	phrase = strings.TrimSpace(strings.Trim(phrase, "-. "))
	if phrase == "" || len(phrase) > fallbackPhraseMax {
		return ""
	}
	if name, excluded := p.cat.Excluded(phrase); excluded && name == catalog.ExcludeBoilerplate {
		return ""
	}
	if _, ok := p.cat.Match(catalog.FieldDimensions, phrase); ok {
		return ""
	}
	return phrase
}
