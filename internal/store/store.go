package store

import (
	"context"

	"github.com/sells-group/takeoff-cli/internal/model"
)

// Store defines the persistence interface for extraction runs.
type Store interface {
	CreateRun(ctx context.Context, source string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, result *model.ExtractionResult) error
	MarkRunFailed(ctx context.Context, runID string, msg string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter model.RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open builds a Store for the given driver. Supported drivers are
// "sqlite" and "postgres".
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgres(ctx, dsn)
	default:
		return NewSQLite(dsn)
	}
}
