package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/aimdrill/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "aimdrill.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return st
}

func record(player string, ended time.Time, score float64) model.SessionRecord {
	return model.SessionRecord{
		StartedAt:       ended.Add(-90 * time.Second),
		EndedAt:         ended,
		SessionDuration: 90,
		Wave1Duration:   30,
		Row: model.ResultRow{
			Timestamp: ended,
			PlayerID:  player,
			Round:     1,
			Metrics: model.Metrics{
				OverallAccuracy: 50,
				FinalScore:      score,
			},
			Counters: model.Counters{
				TotalShots:       10,
				TotalHits:        5,
				Wave2InsideHits:  3,
				Wave2OutsideHits: 1,
			},
		},
	}
}

func TestInsertAndListResults(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := st.InsertResult(ctx, record("ace", base.Add(time.Hour), 80))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(id) != 36 {
		t.Fatalf("expected uuid id, got %q", id)
	}
	if _, err := st.InsertResult(ctx, record("ace", base, 40)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := st.InsertResult(ctx, record("bob", base, 95)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	recs, err := st.ListResults(ctx, model.StatsConfig{Player: "ace"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Row.Metrics.FinalScore != 40 || recs[1].ID != id {
		t.Fatalf("expected oldest first, got %+v", recs)
	}
	got := recs[1]
	if got.Row.Counters.RecoilSamples != 4 || got.Row.Metrics.Rank != "A" {
		t.Fatalf("expected derived fields, got %+v", got.Row)
	}
	if !got.EndedAt.Equal(base.Add(time.Hour)) || got.SessionDuration != 90 {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestListResultsFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := st.InsertResult(ctx, record("ace", base.Add(time.Duration(i)*time.Hour), float64(i*10))); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	since := base.Add(2 * time.Hour)
	recs, err := st.ListResults(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records since cutoff, got %d", len(recs))
	}

	recs, err = st.ListResults(ctx, model.StatsConfig{Last: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 || recs[1].Row.Metrics.FinalScore != 40 {
		t.Fatalf("expected the last 2 records, got %+v", recs)
	}
}

func TestBestScore(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, ok, err := st.BestScore(ctx, "ace"); err != nil || ok {
		t.Fatalf("expected no score, got ok=%v err=%v", ok, err)
	}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, score := range []float64{30, 72, 55} {
		if _, err := st.InsertResult(ctx, record("ace", base, score)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	best, ok, err := st.BestScore(ctx, "ace")
	if err != nil || !ok || best != 72 {
		t.Fatalf("expected best 72, got %v ok=%v err=%v", best, ok, err)
	}
}

func TestInsertKeepsExplicitID(t *testing.T) {
	st := openTestStore(t)
	rec := record("ace", time.Now().UTC(), 10)
	rec.ID = "fixed-id"
	id, err := st.InsertResult(context.Background(), rec)
	if err != nil || id != "fixed-id" {
		t.Fatalf("expected explicit id, got %q err=%v", id, err)
	}
	if _, err := st.InsertResult(context.Background(), rec); err == nil {
		t.Fatalf("expected duplicate id to fail")
	}
}
