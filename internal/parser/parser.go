// Package parser walks document pages line by line, classifying each
// line against the rule catalog and accumulating structured items. It
// also normalizes header+row table grids into items.
package parser

import (
	"strconv"
	"strings"

	"github.com/sells-group/takeoff-cli/internal/catalog"
	"github.com/sells-group/takeoff-cli/internal/model"
)

// Parser is safe for concurrent use: it holds only the immutable
// catalog.
type Parser struct {
	cat *catalog.Catalog
}

func New(cat *catalog.Catalog) *Parser {
	return &Parser{cat: cat}
}

// parseQuantity turns a matched quantity string into a Quantity,
// keeping non-integer references (like "31.1") as strings.
func parseQuantity(v string) model.Quantity {
	if n, err := strconv.Atoi(v); err == nil {
		return model.Quantity{Count: n}
	}
	return model.Quantity{Ref: strings.TrimSpace(v)}
}
