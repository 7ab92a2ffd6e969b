package model

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Quantity is a count that may also arrive as a free-form reference
// ("AS REQ'D", "LOT") when the drawing does not give a number. Exactly
// one of Count or Ref is meaningful: Ref wins when non-empty.
type Quantity struct {
	Count int
	Ref   string
}

// IsZero reports whether no quantity was captured at all.
func (q Quantity) IsZero() bool {
	return q.Count == 0 && q.Ref == ""
}

func (q Quantity) String() string {
	if q.Ref != "" {
		return q.Ref
	}
	if q.Count == 0 {
		return ""
	}
	return strconv.Itoa(q.Count)
}

// MarshalJSON emits an integer when a numeric count is known, a string
// when only a reference was captured, and null when neither is set.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if q.Ref != "" {
		return json.Marshal(q.Ref)
	}
	if q.Count == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(q.Count)
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		*q = Quantity{}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*q = Quantity{Count: n}
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return eris.Wrap(err, "model: quantity is neither number nor string")
	}
	str = strings.TrimSpace(str)
	if n, err := strconv.Atoi(str); err == nil {
		*q = Quantity{Count: n}
		return nil
	}
	*q = Quantity{Ref: str}
	return nil
}

// ExtractedItem is one fixture, piece of equipment, or material line
// item pulled from a document page or table.
type ExtractedItem struct {
	FixtureType   string   `json:"fixture_type,omitempty"`
	Quantity      Quantity `json:"quantity,omitempty"`
	ModelNumber   string   `json:"model_number,omitempty"`
	Dimensions    string   `json:"dimensions,omitempty"`
	MountingType  string   `json:"mounting_type,omitempty"`
	SpecReference string   `json:"spec_reference,omitempty"`
	PageNumber    int      `json:"page_number"`
	TableNumber   int      `json:"table_number,omitempty"`
	RowNumber     int      `json:"row_number,omitempty"`
	LineNumber    int      `json:"line_number,omitempty"`
	RawText       string   `json:"raw_text,omitempty"`
}

// HasCore reports whether the item carries at least one of the three
// load-bearing fields. Items without any of them are noise.
func (it *ExtractedItem) HasCore() bool {
	return it.FixtureType != "" || it.ModelNumber != "" || !it.Quantity.IsZero()
}

// FilledFields counts the populated extraction fields, used to decide
// whether a merge actually improved an item.
func (it *ExtractedItem) FilledFields() int {
	n := 0
	if it.FixtureType != "" {
		n++
	}
	if !it.Quantity.IsZero() {
		n++
	}
	if it.ModelNumber != "" {
		n++
	}
	if it.Dimensions != "" {
		n++
	}
	if it.MountingType != "" {
		n++
	}
	if it.SpecReference != "" {
		n++
	}
	return n
}

// Table is a grid of cells as parsed from a document page. Nil cells
// are distinct from empty strings: nil means the cell was absent.
type Table [][]*string

// PageText is the text of a single document page plus any tables the
// upstream parser recovered from it.
type PageText struct {
	PageNumber int     `json:"page_number"`
	Text       string  `json:"text"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	Tables     []Table `json:"tables,omitempty"`
}
