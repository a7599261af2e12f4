// Package store persists classification runs so scheme choices can be
// compared across sessions.
package store

import (
	"context"

	"github.com/sells-group/geostat-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Scheme string `json:"scheme,omitempty"`
	Field  string `json:"field,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for classification runs.
type Store interface {
	SaveRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
