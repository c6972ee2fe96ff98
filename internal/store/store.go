// Package store persists comparison runs so dashboard sessions can be
// revisited and reproduced. SQLite is the default backend; Postgres is
// available for shared deployments.
package store

import (
	"context"

	"github.com/geodesic-labs/arealens/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Store is the persistence interface for comparison runs. Comparisons are
// synchronous and pure, so runs are written exactly once, complete.
type Store interface {
	SaveRun(ctx context.Context, params model.CompareParams, result *model.ComparisonResult) (*model.Run, error)
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
