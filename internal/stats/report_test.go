package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/aimdrill/internal/model"
)

type fakeSource struct {
	records []model.SessionRecord
	err     error
	got     model.StatsConfig
}

func (f *fakeSource) ListResults(_ context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error) {
	f.got = cfg
	return f.records, f.err
}

func scored(scores ...float64) []model.SessionRecord {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]model.SessionRecord, len(scores))
	for i, s := range scores {
		out[i] = model.SessionRecord{
			ID:      string(rune('a' + i)),
			EndedAt: base.Add(time.Duration(i) * time.Hour),
			Row: model.ResultRow{
				PlayerID: "ace",
				Round:    1,
				Metrics:  model.Metrics{FinalScore: s},
			},
		}
	}
	return out
}

func TestBuildReport(t *testing.T) {
	src := &fakeSource{records: scored(10, 80, 30, 90, 50, 70, 20)}
	cfg := model.StatsConfig{Player: "ace", CurveWindow: 3}
	report, err := BuildReport(context.Background(), src, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if src.got.Player != "ace" {
		t.Fatalf("expected filters passed through, got %+v", src.got)
	}
	if len(report.Records) != 7 {
		t.Fatalf("expected all records, got %d", len(report.Records))
	}
	if len(report.Window) != 3 || report.Window[0].Row.Metrics.FinalScore != 50 {
		t.Fatalf("unexpected window %+v", report.Window)
	}
	if len(report.Best) != bestCount || report.Best[0].Row.Metrics.FinalScore != 90 {
		t.Fatalf("unexpected best %+v", report.Best)
	}
	if report.Summary.Sessions != 7 || report.Summary.BestScore != 90 {
		t.Fatalf("unexpected summary %+v", report.Summary)
	}
}

func TestBuildReportError(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	if _, err := BuildReport(context.Background(), src, model.StatsConfig{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestBestSessionsStableOnTies(t *testing.T) {
	records := scored(50, 80, 80, 10)
	best := BestSessions(records, 2)
	if best[0].ID != "b" || best[1].ID != "c" {
		t.Fatalf("expected earliest first on ties, got %s %s", best[0].ID, best[1].ID)
	}
	if records[0].ID != "a" {
		t.Fatalf("input must not be reordered")
	}
	if BestSessions(records, 0) != nil {
		t.Fatalf("expected nil for n=0")
	}
}

func TestWeakestPhase(t *testing.T) {
	records := scored(0, 0, 0)
	records[0].Row.Metrics.FlickScore, records[0].Row.Metrics.RecoilScore = 10, 90
	records[1].Row.Metrics.FlickScore, records[1].Row.Metrics.RecoilScore = 80, 40
	records[2].Row.Metrics.FlickScore, records[2].Row.Metrics.RecoilScore = 60, 50

	phase, score, ok := WeakestPhase(records, 2)
	if !ok || phase != PhaseRecoil || score != 45 {
		t.Fatalf("expected recoil 45, got %s %.1f %v", phase, score, ok)
	}
	phase, score, ok = WeakestPhase(records, 0)
	if !ok || phase != PhaseFlick || score != 50 {
		t.Fatalf("expected flick 50, got %s %.1f %v", phase, score, ok)
	}
	if _, _, ok := WeakestPhase(nil, 5); ok {
		t.Fatalf("expected no suggestion without records")
	}
}
