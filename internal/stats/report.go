package stats

import (
	"context"

	"github.com/verte-zerg/aimdrill/internal/model"
)

const bestCount = 5

// Source lists stored sessions.
type Source interface {
	ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Records []model.SessionRecord
	// Window is the tail of Records used for curves and focus suggestions.
	Window  []model.SessionRecord
	Best    []model.SessionRecord
	Summary Summary
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src Source, cfg model.StatsConfig) (Report, error) {
	records, err := src.ListResults(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	window := records
	if cfg.CurveWindow > 0 && len(records) > cfg.CurveWindow {
		window = records[len(records)-cfg.CurveWindow:]
	}
	return Report{
		Records: records,
		Window:  window,
		Best:    BestSessions(records, bestCount),
		Summary: Summarize(records),
	}, nil
}
