package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Quantity
		out  string
	}{
		{"integer", `4`, Quantity{Count: 4}, `4`},
		{"numeric string becomes count", `"12"`, Quantity{Count: 12}, `12`},
		{"reference string", `"31.1, 31"`, Quantity{Ref: "31.1, 31"}, `"31.1, 31"`},
		{"null", `null`, Quantity{}, `null`},
		{"padded numeric string", `" 7 "`, Quantity{Count: 7}, `7`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Quantity
			require.NoError(t, json.Unmarshal([]byte(tt.in), &q))
			assert.Equal(t, tt.want, q)

			b, err := json.Marshal(q)
			require.NoError(t, err)
			assert.Equal(t, tt.out, string(b))
		})
	}
}

func TestQuantityJSON_Invalid(t *testing.T) {
	var q Quantity
	err := json.Unmarshal([]byte(`{"n":1}`), &q)
	assert.Error(t, err)
}

func TestQuantityString(t *testing.T) {
	assert.Equal(t, "3", Quantity{Count: 3}.String())
	assert.Equal(t, "AS REQ'D", Quantity{Ref: "AS REQ'D"}.String())
	assert.Equal(t, "", Quantity{}.String())
}

func TestHasCore(t *testing.T) {
	assert.False(t, (&ExtractedItem{Dimensions: `2"ø`}).HasCore())
	assert.True(t, (&ExtractedItem{FixtureType: "Valve"}).HasCore())
	assert.True(t, (&ExtractedItem{ModelNumber: "OM-141"}).HasCore())
	assert.True(t, (&ExtractedItem{Quantity: Quantity{Count: 2}}).HasCore())
	assert.True(t, (&ExtractedItem{Quantity: Quantity{Ref: "31.1"}}).HasCore())
}

func TestSummarize(t *testing.T) {
	items := []ExtractedItem{
		{FixtureType: "Valve Package", Quantity: Quantity{Count: 2}, ModelNumber: "OM-141", PageNumber: 2},
		{FixtureType: "Pump", PageNumber: 2, TableNumber: 1},
		{ModelNumber: "FD-100", Dimensions: `4"`, MountingType: "Floor-Mounted", SpecReference: "ASTM A53", PageNumber: 5},
	}

	s := Summarize(items)
	assert.Equal(t, 3, s.TotalItems)
	assert.Equal(t, 2, s.WithFixtureType)
	assert.Equal(t, 1, s.WithQuantity)
	assert.Equal(t, 2, s.WithModelNumber)
	assert.Equal(t, 1, s.WithDimensions)
	assert.Equal(t, 1, s.WithMountingType)
	assert.Equal(t, 1, s.WithSpecReference)
	assert.Equal(t, 2, s.PagesWithItems)
	assert.Equal(t, 1, s.ItemsFromTables)
}
