package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/aimdrill/internal/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestSummarize(t *testing.T) {
	records := scored(40, 80)
	records[0].Row.Counters = model.Counters{TotalShots: 1200, TotalHits: 600, ReloadCount: 2}
	records[0].Row.Metrics.OverallAccuracy = 50
	records[0].Row.Metrics.Wave1AvgTimePerTarget = 1.2
	records[0].Row.Metrics.AvgReloadTime = 0.3
	records[1].Row.Counters = model.Counters{TotalShots: 100, TotalHits: 90}
	records[1].Row.Metrics.OverallAccuracy = 90

	s := Summarize(records)
	if s.Sessions != 2 || s.Shots != 1300 || s.Hits != 690 {
		t.Fatalf("unexpected totals %+v", s)
	}
	if !almostEqual(s.AvgScore, 60) || s.BestScore != 80 || !almostEqual(s.AvgAccuracy, 70) {
		t.Fatalf("unexpected averages %+v", s)
	}
	if !almostEqual(s.AvgFlickTime, 1.2) || !almostEqual(s.AvgReload, 0.3) {
		t.Fatalf("expected unmeasured sessions skipped, got %+v", s)
	}
	if !s.LastPlayed.Equal(records[1].EndedAt) {
		t.Fatalf("unexpected last played %v", s.LastPlayed)
	}
	if (Summarize(nil) != Summary{}) {
		t.Fatalf("expected zero summary")
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Fatalf("index %d: expected %.2f, got %.2f", i, want[i], got[i])
		}
	}
	same := MovingAverage([]float64{1, 9}, 1)
	if same[0] != 1 || same[1] != 9 {
		t.Fatalf("expected passthrough, got %v", same)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 50, 100}); got != "▁▅█" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3}); got != "▅▅" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestRenderSummary(t *testing.T) {
	records := scored(40, 80)
	records[0].Row.Counters.TotalShots = 1500
	now := records[1].EndedAt.Add(2 * time.Hour)

	var buf bytes.Buffer
	if err := RenderSummary(&buf, records, now); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Sessions: 2 (last played 2 hours ago)",
		"Shots: 1,500",
		"Avg score: 60.0 (B)",
		"Best score: 80 (A)",
		"Trend: ▁█",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderSummary(&buf, nil, now); err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if buf.String() != "No sessions found.\n" {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}

func TestRenderSessionTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSessionTable(&buf, scored(55)); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[0] != "Sessions" || !strings.HasPrefix(lines[1], "Ended") {
		t.Fatalf("unexpected table header %q", lines[:2])
	}
	if !strings.Contains(lines[2], "ace") || !strings.Contains(lines[2], "55") {
		t.Fatalf("unexpected row %q", lines[2])
	}
}

func TestRenderCurves(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCurves(&buf, scored(10, 20, 30), 2, 60, 4, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Progress\n") || !strings.Contains(buf.String(), "Score") {
		t.Fatalf("unexpected curves %q", buf.String())
	}
}
