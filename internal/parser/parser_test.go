package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/takeoff-cli/internal/catalog"
	"github.com/sells-group/takeoff-cli/internal/model"
)

func newParser() *Parser {
	return New(catalog.New())
}

func TestDetectLineExcluded(t *testing.T) {
	p := newParser()

	tests := []struct {
		name string
		line string
	}{
		{"instruction", "See detail 4/M-5 for continuation"},
		{"boilerplate", "This drawing is proprietary and confidential."},
		{"drawing ref", "M-101"},
		{"digits only", "1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.DetectLine(tt.line)
			assert.Equal(t, KindRejected, d.Kind)
			assert.NotEmpty(t, d.Excluded)
		})
	}
}

func TestBareNumberNeverStartsItem(t *testing.T) {
	p := newParser()

	d := p.DetectLine("2 widgets on the upper ledge")
	assert.NotEqual(t, KindNewItem, d.Kind)

	// A catalog keyword elsewhere on the line is a different story: then
	// the fixture match, not the bare number, starts the item.
	d = p.DetectLine("2 widgets on the upper rack")
	require.Equal(t, KindNewItem, d.Kind)
	fm, ok := d.Fields[catalog.FieldFixtureType]
	require.True(t, ok)
	assert.Equal(t, "Rack", fm.Value)
}

func TestDecimalReclassifiedAsSpecReference(t *testing.T) {
	p := newParser()

	d := p.DetectLine("CH30 detail 31.1")
	require.Equal(t, KindNewItem, d.Kind)

	_, hasQty := d.Fields[catalog.FieldQuantity]
	assert.False(t, hasQty, "decimal next to a model token is not a quantity")

	sm, hasSpec := d.Fields[catalog.FieldSpecReference]
	require.True(t, hasSpec)
	assert.Equal(t, "31.1", sm.Value)
}

func TestGateStrongIndicators(t *testing.T) {
	p := newParser()

	tests := []struct {
		name string
		line string
		want Kind
	}{
		{"fixture keyword", "GATE VALVE ASSEMBLY", KindNewItem},
		{"quantity plus model", "2 OM-141 hookups", KindNewItem},
		{"model plus mounting", "CH30 ceiling mounted", KindNewItem},
		{"unit quantity", "12 EA anchor bolts", KindNewItem},
		{"dimension only", `verify 2 x 4 framing`, KindEnrichment},
		{"mounting only", "wall mounted installation", KindEnrichment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.DetectLine(tt.line)
			assert.Equal(t, tt.want, d.Kind)
		})
	}
}

func TestAccumulateCompositeLine(t *testing.T) {
	p := newParser()

	page := model.PageText{
		PageNumber: 2,
		Text:       `2 VALVE PACKAGE (OM-141), Wall-Mounted, 1 1/2"ø`,
	}
	items := p.AccumulatePage(page)
	require.Len(t, items, 1)

	it := items[0]
	assert.Contains(t, it.FixtureType, "Valve Package")
	assert.Equal(t, "OM-141", it.ModelNumber)
	assert.Equal(t, "Wall-Mounted", it.MountingType)
	assert.Contains(t, it.Dimensions, `1 1/2"ø`)
	assert.Equal(t, 2, it.PageNumber)
	assert.Equal(t, 1, it.LineNumber)
}

func TestAccumulateEnrichesFromContext(t *testing.T) {
	p := newParser()

	page := model.PageText{
		PageNumber: 4,
		Text: "HOT WATER CIRCULATING PUMP\n" +
			"Model: CP-22\n" +
			"wall mounted installation",
	}
	items := p.AccumulatePage(page)
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, "Hot Water Circulating Pump", it.FixtureType)
	assert.Equal(t, "CP-22", it.ModelNumber)
	assert.Equal(t, "Wall-Mounted", it.MountingType)
	assert.Equal(t, 4, it.PageNumber)
	assert.Equal(t, 1, it.LineNumber)
}

func TestAccumulateNeverOverwrites(t *testing.T) {
	p := newParser()

	page := model.PageText{
		PageNumber: 1,
		Text: "QTY: 3 GATE VALVE\n" +
			"Model: GV-200\n" +
			"QTY: 99",
	}
	items := p.AccumulatePage(page)
	require.Len(t, items, 1)
	assert.Equal(t, model.Quantity{Count: 3}, items[0].Quantity)
	assert.Equal(t, "GV-200", items[0].ModelNumber)
}

func TestAccumulateEmitsOnNewItemBoundary(t *testing.T) {
	p := newParser()

	page := model.PageText{
		PageNumber: 3,
		Text: "GATE VALVE GV-200\n" +
			"random annotation text\n" +
			"CIRCULATING PUMP CP-22",
	}
	items := p.AccumulatePage(page)
	require.Len(t, items, 2)
	assert.Contains(t, items[0].FixtureType, "Valve")
	assert.Contains(t, items[1].FixtureType, "Pump")
}

func TestAccumulateSkipsExcludedLines(t *testing.T) {
	p := newParser()

	page := model.PageText{
		PageNumber: 1,
		Text: "NOTE: verify all dimensions in field\n" +
			"See detail 4/M-5\n" +
			"Copyright 2024 Acme Engineering. All rights reserved.",
	}
	items := p.AccumulatePage(page)
	assert.Empty(t, items)
}

func cells(ss ...string) []*string {
	out := make([]*string, len(ss))
	for i := range ss {
		s := ss[i]
		out[i] = &s
	}
	return out
}

func TestNormalizeTables(t *testing.T) {
	p := newParser()

	table := model.Table{
		cells("Item", "Qty", "Model"),
		cells("Pump", "3", "CP-22"),
	}
	items := p.NormalizeTables([]model.Table{table}, 5)
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, "Pump", it.FixtureType)
	assert.Equal(t, model.Quantity{Count: 3}, it.Quantity)
	assert.Equal(t, "CP-22", it.ModelNumber)
	assert.Equal(t, 5, it.PageNumber)
	assert.Equal(t, 1, it.TableNumber)
	assert.Equal(t, 1, it.RowNumber)
}

func TestNormalizeTablesQuantityCoercion(t *testing.T) {
	p := newParser()

	table := model.Table{
		cells("Description", "Quantity"),
		cells("Floor drain", "12 ea"),
	}
	items := p.NormalizeTables([]model.Table{table}, 1)
	require.Len(t, items, 1)
	assert.Equal(t, model.Quantity{Count: 12}, items[0].Quantity)
}

func TestNormalizeTablesFallbackFixture(t *testing.T) {
	p := newParser()

	table := model.Table{
		cells("Tag", "Size"),
		cells("AHU-1", `24" x 36"`),
	}
	items := p.NormalizeTables([]model.Table{table}, 2)
	require.Len(t, items, 1)
	assert.Equal(t, "AHU-1", items[0].FixtureType)
	assert.NotEmpty(t, items[0].Dimensions)
}

func TestNormalizeTablesDiscards(t *testing.T) {
	p := newParser()

	headerOnly := model.Table{cells("Item", "Qty")}
	nilRow := model.Table{
		cells("Item", "Qty"),
		{nil, nil},
	}
	items := p.NormalizeTables([]model.Table{headerOnly, nilRow}, 1)
	assert.Empty(t, items)
}
