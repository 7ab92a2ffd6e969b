// Package provider supplies per-page text and tables from document
// sources: pre-extracted JSON, PDFs via the pdftotext tool, and XLSX
// schedule workbooks.
package provider

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/takeoff-cli/internal/model"
)

// PageProvider yields the pages of one document.
type PageProvider interface {
	// Source identifies the document, typically a file path.
	Source() string
	// Pages returns every page with 1-based page numbers.
	Pages(ctx context.Context) ([]model.PageText, error)
}

// Inline wraps pages already in memory, e.g. posted to the server.
type Inline struct {
	source string
	pages  []model.PageText
}

func NewInline(source string, pages []model.PageText) *Inline {
	return &Inline{source: source, pages: pages}
}

func (p *Inline) Source() string { return p.source }

func (p *Inline) Pages(_ context.Context) ([]model.PageText, error) {
	pages := make([]model.PageText, len(p.pages))
	copy(pages, p.pages)
	for i := range pages {
		if pages[i].PageNumber <= 0 {
			pages[i].PageNumber = i + 1
		}
	}
	return pages, nil
}

// ForPath picks a provider by file extension.
func ForPath(path, pdftotextBin string) (PageProvider, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONFile(path), nil
	case ".pdf":
		return NewPDF(path, pdftotextBin), nil
	case ".xlsx":
		return NewXLSX(path), nil
	default:
		return nil, eris.Errorf("provider: unsupported file type %q", filepath.Ext(path))
	}
}
