// Package extractor orchestrates a full document run: pages in, rule
// extraction per page, optional model-assisted enhancement, merged and
// validated items out.
package extractor

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/takeoff-cli/internal/enhance"
	"github.com/sells-group/takeoff-cli/internal/merge"
	"github.com/sells-group/takeoff-cli/internal/model"
	"github.com/sells-group/takeoff-cli/internal/parser"
	"github.com/sells-group/takeoff-cli/internal/provider"
)

// Proposer is the optional text-understanding collaborator. Satisfied
// by *enhance.Enhancer.
type Proposer interface {
	Propose(ctx context.Context, text string) enhance.Result
}

// Service runs extractions. Construct with New; the zero value is not
// usable.
type Service struct {
	parser      *parser.Parser
	proposer    Proposer
	progressOut io.Writer
}

// Option customizes a Service.
type Option func(*Service)

// WithProposer enables the enhancement pass.
func WithProposer(p Proposer) Option {
	return func(s *Service) { s.proposer = p }
}

// WithProgress writes a cosmetic progress indicator to w while pages
// are being processed.
func WithProgress(w io.Writer) Option {
	return func(s *Service) { s.progressOut = w }
}

func New(p *parser.Parser, opts ...Option) *Service {
	s := &Service{parser: p}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract processes every page of the document. A single page's
// failure is logged and skipped, never fatal to the document.
func (s *Service) Extract(ctx context.Context, prov provider.PageProvider) (*model.ExtractionResult, error) {
	startedAt := time.Now().UTC()

	pages, err := prov.Pages(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "extractor: load pages")
	}

	prog := startProgress(s.progressOut, "extracting", 250*time.Millisecond)
	items, warnings := s.extractPages(pages)
	prog.Stop()

	result := &model.ExtractionResult{
		Source:            prov.Source(),
		EnhancementStatus: model.EnhancementNotRequested,
		Warnings:          warnings,
		StartedAt:         startedAt,
	}

	if s.proposer != nil {
		items = s.enhanceItems(ctx, pages, items, result)
	}

	result.Items = validateItems(items)
	result.Summary = model.Summarize(result.Items)
	result.Pages = pageInfos(pages, result.Items)
	result.Statistics = statistics(pages)
	result.FinishedAt = time.Now().UTC()

	zap.L().Info("extraction complete",
		zap.String("source", prov.Source()),
		zap.Int("pages", len(pages)),
		zap.Int("items", len(result.Items)),
		zap.String("enhancement", string(result.EnhancementStatus)))
	return result, nil
}

// extractPages runs rule extraction page by page, isolating panics so
// one bad page cannot abort the rest.
func (s *Service) extractPages(pages []model.PageText) (items []model.ExtractedItem, warnings []string) {
	for _, page := range pages {
		func() {
			defer func() {
				if r := recover(); r != nil {
					msg := fmt.Sprintf("page %d failed: %v", page.PageNumber, r)
					warnings = append(warnings, msg)
					zap.L().Warn("page extraction failed",
						zap.Int("page", page.PageNumber),
						zap.Any("panic", r))
				}
			}()
			items = append(items, s.parser.AccumulatePage(page)...)
			if len(page.Tables) > 0 {
				items = append(items, s.parser.NormalizeTables(page.Tables, page.PageNumber)...)
			}
		}()
	}
	return items, warnings
}

// enhanceItems runs the external pass and merges its proposals. Any
// failure degrades to rule-only output and is reported on the result,
// never returned as an error.
func (s *Service) enhanceItems(ctx context.Context, pages []model.PageText, items []model.ExtractedItem, result *model.ExtractionResult) []model.ExtractedItem {
	res := s.proposer.Propose(ctx, combinePages(pages))
	switch res.Status {
	case enhance.StatusFailed:
		result.EnhancementStatus = model.EnhancementFailed
		result.EnhancementNote = res.Reason
		return items
	case enhance.StatusDegraded:
		result.EnhancementStatus = model.EnhancementNoChanges
		result.EnhancementNote = res.Reason
		return items
	}

	merged, rep := merge.Hybrid(items, res.Items)
	if rep.Changed() {
		result.EnhancementStatus = model.EnhancementApplied
		result.EnhancementNote = fmt.Sprintf("enriched %d, added %d", rep.EnrichedItems, rep.AppendedItems)
		return merged
	}
	result.EnhancementStatus = model.EnhancementNoChanges
	return items
}

// combinePages joins page texts for the enhancement call.
func combinePages(pages []model.PageText) string {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n\n")
}

const previewLen = 200

func pageInfos(pages []model.PageText, items []model.ExtractedItem) []model.PageInfo {
	perPage := map[int]int{}
	for i := range items {
		perPage[items[i].PageNumber]++
	}
	infos := make([]model.PageInfo, len(pages))
	for i, p := range pages {
		preview := p.Text
		if len(preview) > previewLen {
			preview = preview[:previewLen] + "..."
		}
		infos[i] = model.PageInfo{
			PageNumber: p.PageNumber,
			CharCount:  len(p.Text),
			ItemCount:  perPage[p.PageNumber],
			Preview:    preview,
		}
	}
	return infos
}

func statistics(pages []model.PageText) model.Statistics {
	st := model.Statistics{PageCount: len(pages)}
	for _, p := range pages {
		st.TotalChars += len(p.Text)
		st.TotalWords += len(strings.Fields(p.Text))
		st.TableCount += len(p.Tables)
		if strings.TrimSpace(p.Text) != "" || len(p.Tables) > 0 {
			st.PagesWithContent++
		}
	}
	if len(pages) > 0 {
		st.AvgCharsPerPage = float64(st.TotalChars) / float64(len(pages))
		st.AvgWordsPerPage = float64(st.TotalWords) / float64(len(pages))
	}
	return st
}
