package scoring

import (
	"math"
	"testing"

	"github.com/verte-zerg/aimdrill/internal/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestAccuracyBounds(t *testing.T) {
	if got := Accuracy(0, 0); got != 0 {
		t.Fatalf("Accuracy(0,0) = %v", got)
	}
	for s := 0; s <= 20; s++ {
		for h := 0; h <= s; h++ {
			acc := Accuracy(h, s)
			if acc < 0 || acc > 100 || math.IsNaN(acc) {
				t.Fatalf("Accuracy(%d,%d) = %v out of range", h, s, acc)
			}
		}
	}
	if got := Accuracy(3, 4); got != 75 {
		t.Fatalf("Accuracy(3,4) = %v", got)
	}
}

func TestAvgTimePerTarget(t *testing.T) {
	tests := []struct {
		name string
		sum  float64
		hits int
		want float64
	}{
		{name: "no hits", sum: 0, hits: 0, want: 0},
		{name: "single hit", sum: 0.7, hits: 1, want: 0},
		{name: "two hits", sum: 0.85, hits: 2, want: 0.85},
		{name: "ten hits", sum: 9, hits: 10, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AvgTimePerTarget(tt.sum, tt.hits); !almostEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHitsPerMinuteGuardsElapsed(t *testing.T) {
	if got := HitsPerMinute(0, 0); got != 0 {
		t.Fatalf("expected 0 for no hits, got %v", got)
	}
	if got := HitsPerMinute(1, 0); !almostEqual(got, 6000) {
		t.Fatalf("expected elapsed floor of 0.01s, got %v", got)
	}
	if got := HitsPerMinute(30, 60); !almostEqual(got, 30) {
		t.Fatalf("expected 30 hits per minute, got %v", got)
	}
}

func TestTightness(t *testing.T) {
	if got := Tightness(0, 0); got != 0 {
		t.Fatalf("expected 0 for no samples, got %v", got)
	}
	if got := Tightness(6, 10); !almostEqual(got, 60) {
		t.Fatalf("expected 60, got %v", got)
	}
}

func TestFlickScore(t *testing.T) {
	got := FlickScore(100, 1)
	want := 60 + 0.4*(1-1/1.2)*100
	if !almostEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if math.Abs(got-66.67) > 0.01 {
		t.Fatalf("expected about 66.67, got %v", got)
	}
	if got := FlickScore(100, 0); !almostEqual(got, 60) {
		t.Fatalf("expected no time score without intervals, got %v", got)
	}
	if got := FlickScore(50, 5); !almostEqual(got, 30) {
		t.Fatalf("expected time score clamped to 0, got %v", got)
	}
}

func TestRankBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "S"},
		{90, "S"},
		{89.99, "A"},
		{75, "A"},
		{74.99, "B"},
		{60, "B"},
		{45, "C"},
		{44.99, "D"},
		{0, "D"},
	}
	for _, tt := range tests {
		if got := Rank(tt.score); got != tt.want {
			t.Fatalf("Rank(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestComputeEmptySession(t *testing.T) {
	m := Compute(model.Counters{}, 0)
	values := []float64{
		m.OverallAccuracy, m.Wave1Accuracy, m.Wave2Accuracy, m.Wave1AvgTimePerTarget,
		m.HitsPerMinute, m.Wave2AvgRecoilRadius, m.Wave2Tightness, m.FlickScore,
		m.RecoilScore, m.FinalScore, m.AvgReloadTime,
	}
	for i, v := range values {
		if v != 0 || math.IsNaN(v) {
			t.Fatalf("metric %d expected 0, got %v", i, v)
		}
	}
	if m.Rank != "D" {
		t.Fatalf("expected rank D, got %q", m.Rank)
	}
}

func TestComputeBlendsWaves(t *testing.T) {
	c := model.Counters{
		TotalShots:           20,
		TotalHits:            16,
		Wave1Shots:           10,
		Wave1Hits:            10,
		SumWave1HitIntervals: 9,
		Wave2Shots:           10,
		Wave2Hits:            6,
		Wave2InsideHits:      6,
		Wave2OutsideHits:     4,
		RecoilSamples:        10,
		SumRecoilError:       1.5,
		ReloadCount:          2,
		ReloadTimeSum:        0.5,
	}
	m := Compute(c, 60)
	if !almostEqual(m.Wave2Tightness, 60) {
		t.Fatalf("tightness = %v", m.Wave2Tightness)
	}
	if !almostEqual(m.RecoilScore, 0.6*60+0.4*60) {
		t.Fatalf("recoil score = %v", m.RecoilScore)
	}
	if !almostEqual(m.FinalScore, 0.5*(m.FlickScore+m.RecoilScore)) {
		t.Fatalf("final score = %v", m.FinalScore)
	}
	if !almostEqual(m.Wave2AvgRecoilRadius, 0.15) {
		t.Fatalf("avg radius = %v", m.Wave2AvgRecoilRadius)
	}
	if !almostEqual(m.AvgReloadTime, 0.25) {
		t.Fatalf("avg reload = %v", m.AvgReloadTime)
	}
	if !almostEqual(m.HitsPerMinute, 16) {
		t.Fatalf("hits per minute = %v", m.HitsPerMinute)
	}
}
