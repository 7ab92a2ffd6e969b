package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/takeoff-cli/internal/catalog"
	"github.com/sells-group/takeoff-cli/internal/model"
)

// columnKeywords maps each field to the header words that select it.
// Order matters: the first field whose keyword appears in a header cell
// claims the column.
var columnKeywords = []struct {
	field    catalog.Field
	keywords []string
}{
	{catalog.FieldFixtureType, []string{"item", "fixture", "type", "description", "product", "component"}},
	{catalog.FieldQuantity, []string{"qty", "quantity", "count", "number", "pieces"}},
	{catalog.FieldModelNumber, []string{"model", "part #", "part number", "pn", "sku", "cat #", "catalog #", "item #"}},
	{catalog.FieldDimensions, []string{"size", "dimension", "length", "width", "height", "diameter"}},
	{catalog.FieldMountingType, []string{"mounting", "mount", "installation", "location"}},
	{catalog.FieldSpecReference, []string{"spec", "specification", "standard", "grade", "class"}},
}

var firstIntRe = regexp.MustCompile(`\d+`)

// NormalizeTables converts header+row table grids into items. A table
// needs a header plus at least one data row; headers are matched to
// fields by keyword containment.
func (p *Parser) NormalizeTables(tables []model.Table, pageNum int) []model.ExtractedItem {
	var items []model.ExtractedItem
	for ti, table := range tables {
		if len(table) < 2 {
			continue
		}
		headerMap := mapHeaders(table[0])
		if len(headerMap) == 0 {
			continue
		}
		for ri, row := range table[1:] {
			if it, ok := rowItem(row, headerMap, pageNum, ti+1, ri+1); ok {
				items = append(items, it)
			}
		}
	}
	return items
}

func mapHeaders(header []*string) map[int]catalog.Field {
	out := map[int]catalog.Field{}
	for col, cell := range header {
		if cell == nil {
			continue
		}
		h := strings.ToLower(strings.TrimSpace(*cell))
		if h == "" {
			continue
		}
		for _, ck := range columnKeywords {
			matched := false
			for _, kw := range ck.keywords {
				if strings.Contains(h, kw) {
					matched = true
					break
				}
			}
			if matched {
				out[col] = ck.field
				break
			}
		}
	}
	return out
}

func rowItem(row []*string, headerMap map[int]catalog.Field, pageNum, tableNum, rowNum int) (model.ExtractedItem, bool) {
	it := model.ExtractedItem{
		PageNumber:  pageNum,
		TableNumber: tableNum,
		RowNumber:   rowNum,
	}
	for col, cell := range row {
		f, ok := headerMap[col]
		if !ok || cell == nil {
			continue
		}
		v := strings.TrimSpace(*cell)
		if v == "" {
			continue
		}
		if f == catalog.FieldQuantity {
			if num := firstIntRe.FindString(v); num != "" {
				if n, err := strconv.Atoi(num); err == nil {
					it.Quantity = model.Quantity{Count: n}
				}
			}
			continue
		}
		setField(&it, f, v)
	}

	if it.HasCore() {
		return it, true
	}
	// A row with only dimensions, mounting, or spec data may still be
	// an item if its first cell can stand in as the fixture type.
	if it.Dimensions != "" || it.MountingType != "" || it.SpecReference != "" {
		if len(row) > 0 && row[0] != nil {
			if first := strings.TrimSpace(*row[0]); first != "" {
				it.FixtureType = first
				return it, true
			}
		}
	}
	return model.ExtractedItem{}, false
}
