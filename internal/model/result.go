package model

import "time"

// EnhancementStatus records what happened to the optional model-assisted
// enhancement pass for a run.
type EnhancementStatus string

const (
	EnhancementNotRequested EnhancementStatus = "not_requested"
	EnhancementApplied      EnhancementStatus = "applied"
	EnhancementNoChanges    EnhancementStatus = "no_changes"
	EnhancementFailed       EnhancementStatus = "failed"
)

// Summary counts how many extracted items carry each field.
type Summary struct {
	TotalItems         int `json:"total_items"`
	WithFixtureType    int `json:"with_fixture_type"`
	WithQuantity       int `json:"with_quantity"`
	WithModelNumber    int `json:"with_model_number"`
	WithDimensions     int `json:"with_dimensions"`
	WithMountingType   int `json:"with_mounting_type"`
	WithSpecReference  int `json:"with_spec_reference"`
	PagesWithItems     int `json:"pages_with_items"`
	ItemsFromTables    int `json:"items_from_tables"`
	ExternallyEnriched int `json:"externally_enriched,omitempty"`
}

// Summarize builds field coverage counts over a slice of items.
func Summarize(items []ExtractedItem) Summary {
	s := Summary{TotalItems: len(items)}
	pages := map[int]bool{}
	for i := range items {
		it := &items[i]
		if it.FixtureType != "" {
			s.WithFixtureType++
		}
		if !it.Quantity.IsZero() {
			s.WithQuantity++
		}
		if it.ModelNumber != "" {
			s.WithModelNumber++
		}
		if it.Dimensions != "" {
			s.WithDimensions++
		}
		if it.MountingType != "" {
			s.WithMountingType++
		}
		if it.SpecReference != "" {
			s.WithSpecReference++
		}
		if it.TableNumber > 0 {
			s.ItemsFromTables++
		}
		if it.PageNumber > 0 {
			pages[it.PageNumber] = true
		}
	}
	s.PagesWithItems = len(pages)
	return s
}

// PageInfo is a per-page digest kept alongside results so a reviewer
// can locate an item without reopening the source document.
type PageInfo struct {
	PageNumber int    `json:"page_number"`
	CharCount  int    `json:"char_count"`
	ItemCount  int    `json:"item_count"`
	Preview    string `json:"preview,omitempty"`
}

// Statistics describes the raw text volume of a document.
type Statistics struct {
	PageCount        int     `json:"page_count"`
	TotalChars       int     `json:"total_chars"`
	TotalWords       int     `json:"total_words"`
	AvgCharsPerPage  float64 `json:"avg_chars_per_page"`
	AvgWordsPerPage  float64 `json:"avg_words_per_page"`
	TableCount       int     `json:"table_count"`
	PagesWithContent int     `json:"pages_with_content"`
}

// ExtractionResult is the full output of one extraction run.
type ExtractionResult struct {
	Source            string            `json:"source"`
	Items             []ExtractedItem   `json:"items"`
	Summary           Summary           `json:"summary"`
	Pages             []PageInfo        `json:"pages,omitempty"`
	Statistics        Statistics        `json:"statistics"`
	EnhancementStatus EnhancementStatus `json:"enhancement_status"`
	EnhancementNote   string            `json:"enhancement_note,omitempty"`
	Warnings          []string          `json:"warnings,omitempty"`
	StartedAt         time.Time         `json:"started_at"`
	FinishedAt        time.Time         `json:"finished_at"`
}

// RunStatus tracks a persisted extraction run through its lifecycle.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is a persisted extraction job.
type Run struct {
	ID        string            `json:"id"`
	Source    string            `json:"source"`
	Status    RunStatus         `json:"status"`
	Error     string            `json:"error,omitempty"`
	Result    *ExtractionResult `json:"result,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// RunFilter narrows ListRuns queries.
type RunFilter struct {
	Status RunStatus
	Source string
	Limit  int
}
