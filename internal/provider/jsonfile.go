package provider

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/takeoff-cli/internal/model"
)

// JSONFile reads pages that an upstream extractor has already rendered
// to JSON: either a bare array of pages or an object with a "pages"
// key.
type JSONFile struct {
	path string
}

func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (p *JSONFile) Source() string { return p.path }

func (p *JSONFile) Pages(ctx context.Context) ([]model.PageText, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "provider: context done")
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, eris.Wrap(err, "provider: read json pages")
	}

	var pages []model.PageText
	if err := json.Unmarshal(data, &pages); err != nil {
		var wrapped struct {
			Pages []model.PageText `json:"pages"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, eris.Wrap(err, "provider: parse json pages")
		}
		pages = wrapped.Pages
	}

	for i := range pages {
		if pages[i].PageNumber <= 0 {
			pages[i].PageNumber = i + 1
		}
	}
	return pages, nil
}
