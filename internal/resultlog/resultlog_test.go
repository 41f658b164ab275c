package resultlog

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/aimdrill/internal/model"
)

func sampleRow() model.ResultRow {
	return model.ResultRow{
		Timestamp: time.Date(2026, 3, 14, 15, 9, 26, 535000000, time.UTC),
		PlayerID:  "ace,one",
		Round:     2,
		Metrics: model.Metrics{
			OverallAccuracy:       87.5,
			Wave1Accuracy:         100,
			Wave2Accuracy:         75.3,
			Wave1AvgTimePerTarget: 1,
			HitsPerMinute:         42.7,
			Wave2AvgRecoilRadius:  0.13,
			Wave2Tightness:        60,
			FlickScore:            67,
			RecoilScore:           69,
			FinalScore:            68,
			AvgReloadTime:         0.21,
		},
		Counters: model.Counters{
			TotalShots:       40,
			TotalHits:        35,
			Wave1Shots:       10,
			Wave1Hits:        10,
			Wave2Shots:       30,
			Wave2Hits:        25,
			Wave2Misses:      5,
			Wave2InsideHits:  15,
			Wave2OutsideHits: 10,
			ReloadCount:      1,
		},
	}
}

func TestAppendWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "drill_results.csv")
	log := New(path)
	for i := 0; i < 2; i++ {
		if err := log.Append(sampleRow()); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != strings.Join(Header, ",") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if strings.Count(string(data), "Timestamp,PlayerId") != 1 {
		t.Fatalf("expected exactly one header row")
	}
}

func TestFormatRowFixedPoint(t *testing.T) {
	row := sampleRow()
	row.Metrics.Wave1AvgTimePerTarget = 1.0049
	row.Metrics.FinalScore = 66.6666
	row.Metrics.OverallAccuracy = 100
	fields := FormatRow(row)
	if len(fields) != len(Header) {
		t.Fatalf("expected %d fields, got %d", len(Header), len(fields))
	}
	if fields[0] != "2026-03-14T15:09:26.535Z" {
		t.Fatalf("unexpected timestamp: %q", fields[0])
	}
	if fields[1] != "ace_one" {
		t.Fatalf("expected comma replaced in player id, got %q", fields[1])
	}
	if fields[3] != "100.0" {
		t.Fatalf("unexpected accuracy: %q", fields[3])
	}
	if fields[6] != "1.00" {
		t.Fatalf("unexpected avg time: %q", fields[6])
	}
	if fields[15] != "67" {
		t.Fatalf("unexpected final score: %q", fields[15])
	}
	if fields[9] != "60.0" {
		t.Fatalf("unexpected tightness: %q", fields[9])
	}
}

func TestFormatRowNonFiniteWritesZero(t *testing.T) {
	row := sampleRow()
	row.Metrics.OverallAccuracy = math.NaN()
	row.Metrics.HitsPerMinute = math.Inf(1)
	row.Metrics.Wave2AvgRecoilRadius = math.Inf(-1)
	fields := FormatRow(row)
	if fields[3] != "0.0" || fields[7] != "0.0" || fields[8] != "0.00" {
		t.Fatalf("expected zeros, got %q %q %q", fields[3], fields[7], fields[8])
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drill_results.csv")
	want := sampleRow()
	if err := New(path).Append(want); err != nil {
		t.Fatalf("append: %v", err)
	}
	rows, err := ReadAll(path)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	got := rows[0]
	if !got.Timestamp.Equal(want.Timestamp) {
		t.Fatalf("timestamp mismatch: %v vs %v", got.Timestamp, want.Timestamp)
	}
	if got.PlayerID != "ace_one" || got.Round != want.Round {
		t.Fatalf("identity mismatch: %+v", got)
	}
	want.Metrics.Rank = "B"
	if got.Metrics != want.Metrics {
		t.Fatalf("metrics mismatch:\n got %+v\nwant %+v", got.Metrics, want.Metrics)
	}
	want.Counters.RecoilSamples = want.Counters.Wave2InsideHits + want.Counters.Wave2OutsideHits
	if got.Counters != want.Counters {
		t.Fatalf("counters mismatch:\n got %+v\nwant %+v", got.Counters, want.Counters)
	}
}

func TestReadAllMissingFile(t *testing.T) {
	rows, err := ReadAll(filepath.Join(t.TempDir(), "none.csv"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestAppendFailureReturnsError(t *testing.T) {
	dir := t.TempDir()
	if err := New(dir).Append(sampleRow()); err == nil {
		t.Fatalf("expected error when path is a directory")
	}
}
