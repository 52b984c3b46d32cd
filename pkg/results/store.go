// Package results publishes finished analysis runs behind a run id so the
// summary and flagged export can be fetched after the request that ran them.
package results

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arnavshah/double-bubble-api-go/pkg/analyzer"
	"github.com/arnavshah/double-bubble-api-go/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a run id is unknown or expired
var ErrNotFound = errors.New("run not found")

// Run is the published, immutable view of one analysis
type Run struct {
	ID           string               `json:"id"`
	CreatedAt    time.Time            `json:"created_at"`
	Params       models.Params        `json:"params"`
	Stats        models.DropStats     `json:"stats"`
	Summary      models.Summary       `json:"summary"`
	CoverageGaps []models.CoverageGap `json:"coverage_gaps,omitempty"`
	ExportCSV    string               `json:"export_csv"`
}

// Store keeps published runs
type Store interface {
	Put(ctx context.Context, run *Run) error
	Get(ctx context.Context, id string) (*Run, error)
}

// NewRun snapshots a result into a Run with a fresh id. The export is
// rendered here so later reads never touch the shifts again.
func NewRun(result *models.AnalysisResult) (*Run, error) {
	var buf bytes.Buffer
	if err := analyzer.WriteCSV(&buf, result.Flagged); err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}
	return &Run{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Params:       result.Params,
		Stats:        result.Stats,
		Summary:      result.Summary,
		CoverageGaps: result.CoverageGaps,
		ExportCSV:    buf.String(),
	}, nil
}
