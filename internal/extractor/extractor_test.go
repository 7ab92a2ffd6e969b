package extractor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/takeoff-cli/internal/catalog"
	"github.com/sells-group/takeoff-cli/internal/enhance"
	"github.com/sells-group/takeoff-cli/internal/model"
	"github.com/sells-group/takeoff-cli/internal/parser"
)

type fakeProvider struct {
	source string
	pages  []model.PageText
	err    error
}

func (f *fakeProvider) Source() string { return f.source }

func (f *fakeProvider) Pages(context.Context) ([]model.PageText, error) {
	return f.pages, f.err
}

type stubProposer struct {
	res  enhance.Result
	text string
}

func (s *stubProposer) Propose(_ context.Context, text string) enhance.Result {
	s.text = text
	return s.res
}

func newService(opts ...Option) *Service {
	return New(parser.New(catalog.New()), opts...)
}

func TestExtractRuleOnly(t *testing.T) {
	prov := &fakeProvider{
		source: "plans.pdf",
		pages: []model.PageText{
			{PageNumber: 2, Text: `2 VALVE PACKAGE (OM-141), Wall-Mounted, 1 1/2"ø`},
			{PageNumber: 3, Text: "general annotation text"},
		},
	}

	res, err := newService().Extract(context.Background(), prov)
	require.NoError(t, err)

	assert.Equal(t, "plans.pdf", res.Source)
	assert.Equal(t, model.EnhancementNotRequested, res.EnhancementStatus)
	require.Len(t, res.Items, 1)
	assert.Contains(t, res.Items[0].FixtureType, "Valve Package")
	assert.Equal(t, "OM-141", res.Items[0].ModelNumber)

	assert.Equal(t, 1, res.Summary.TotalItems)
	assert.Equal(t, 1, res.Summary.WithModelNumber)
	assert.Equal(t, 2, res.Statistics.PageCount)
	require.Len(t, res.Pages, 2)
	assert.Equal(t, 1, res.Pages[0].ItemCount)
	assert.Zero(t, res.Pages[1].ItemCount)
	assert.False(t, res.FinishedAt.Before(res.StartedAt))
}

func TestExtractIncludesTableItems(t *testing.T) {
	item := "Item"
	qty := "Qty"
	pump := "Pump"
	three := "3"
	prov := &fakeProvider{
		source: "schedule.xlsx",
		pages: []model.PageText{
			{
				PageNumber: 1,
				Tables: []model.Table{
					{{&item, &qty}, {&pump, &three}},
				},
			},
		},
	}

	res, err := newService().Extract(context.Background(), prov)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Pump", res.Items[0].FixtureType)
	assert.Equal(t, 1, res.Items[0].TableNumber)
	assert.Equal(t, 1, res.Summary.ItemsFromTables)
}

func TestExtractProviderError(t *testing.T) {
	prov := &fakeProvider{source: "x.pdf", err: errors.New("unreadable")}

	_, err := newService().Extract(context.Background(), prov)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load pages")
}

func TestExtractEnhancementApplied(t *testing.T) {
	prov := &fakeProvider{
		source: "plans.pdf",
		pages: []model.PageText{
			{PageNumber: 3, Text: "GATE VALVE assembly detail"},
		},
	}
	prop := &stubProposer{res: enhance.Result{
		Status: enhance.StatusOK,
		Items: []model.ExtractedItem{
			{FixtureType: "Gate Valve", ModelNumber: "GV-200", PageNumber: 3},
		},
	}}

	res, err := newService(WithProposer(prop)).Extract(context.Background(), prov)
	require.NoError(t, err)

	assert.Equal(t, model.EnhancementApplied, res.EnhancementStatus)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "GV-200", res.Items[0].ModelNumber)
	assert.Contains(t, prop.text, "GATE VALVE")
}

func TestExtractEnhancementFailedDegrades(t *testing.T) {
	prov := &fakeProvider{
		source: "plans.pdf",
		pages:  []model.PageText{{PageNumber: 1, Text: "GATE VALVE GV-200"}},
	}
	prop := &stubProposer{res: enhance.Result{
		Status: enhance.StatusFailed,
		Reason: "quota exceeded",
	}}

	res, err := newService(WithProposer(prop)).Extract(context.Background(), prov)
	require.NoError(t, err)

	assert.Equal(t, model.EnhancementFailed, res.EnhancementStatus)
	assert.Equal(t, "quota exceeded", res.EnhancementNote)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "GV-200", res.Items[0].ModelNumber)
}

func TestExtractEnhancementNoProposalsReported(t *testing.T) {
	prov := &fakeProvider{
		source: "plans.pdf",
		pages:  []model.PageText{{PageNumber: 1, Text: "GATE VALVE GV-200"}},
	}
	prop := &stubProposer{res: enhance.Result{
		Status: enhance.StatusDegraded,
		Reason: "no items proposed",
	}}

	res, err := newService(WithProposer(prop)).Extract(context.Background(), prov)
	require.NoError(t, err)
	assert.Equal(t, model.EnhancementNoChanges, res.EnhancementStatus)
	assert.Equal(t, "no items proposed", res.EnhancementNote)
}

func TestValidateItems(t *testing.T) {
	items := validateItems([]model.ExtractedItem{
		{FixtureType: "  Valve  ", ModelNumber: "om-141", PageNumber: 0, LineNumber: 4},
	})
	require.Len(t, items, 1)
	assert.Equal(t, "Valve", items[0].FixtureType)
	assert.Equal(t, "OM-141", items[0].ModelNumber)
	assert.Equal(t, 1, items[0].PageNumber)
	assert.Equal(t, 4, items[0].LineNumber)
}

func TestStatistics(t *testing.T) {
	st := statistics([]model.PageText{
		{PageNumber: 1, Text: "four words right here"},
		{PageNumber: 2, Text: ""},
	})
	assert.Equal(t, 2, st.PageCount)
	assert.Equal(t, 4, st.TotalWords)
	assert.Equal(t, 1, st.PagesWithContent)
	assert.InDelta(t, 2.0, st.AvgWordsPerPage, 0.001)
}

func TestProgressStop(t *testing.T) {
	var buf bytes.Buffer
	p := startProgress(&buf, "extracting", 5*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
	assert.True(t, strings.Contains(buf.String(), "extracting"))
}

func TestProgressNilWriter(t *testing.T) {
	p := startProgress(nil, "extracting", time.Millisecond)
	p.Stop() // must not block or panic
}
