package stats

import (
	"testing"
	"time"

	"github.com/verte-zerg/aimdrill/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	lines := formatTable(
		[]string{"Name", "Score"},
		[][]string{{"ace", "7"}, {"zoë", "100"}},
		map[int]bool{1: true},
	)
	want := []string{
		"Name Score",
		"ace      7",
		"zoë    100",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestFormatTableShortRows(t *testing.T) {
	lines := formatTable([]string{"A"}, [][]string{{"x", "yy"}}, nil)
	if lines[0] != "A   " || lines[1] != "x yy" {
		t.Fatalf("unexpected lines %q", lines)
	}
	if formatTable(nil, nil, nil) != nil {
		t.Fatalf("expected nil for empty table")
	}
}

func TestSessionRows(t *testing.T) {
	ended := time.Date(2026, 3, 1, 12, 30, 0, 0, time.Local)
	rec := model.SessionRecord{
		EndedAt: ended,
		Row: model.ResultRow{
			PlayerID: "ace",
			Round:    2,
			Metrics: model.Metrics{
				FinalScore:            71.4,
				Rank:                  "B",
				OverallAccuracy:       62.5,
				Wave1AvgTimePerTarget: 0.8,
				Wave2Tightness:        60,
			},
			Counters: model.Counters{ReloadCount: 3},
		},
	}
	headers, rows := SessionRows([]model.SessionRecord{rec})
	if len(headers) != 9 || headers[3] != "Score" {
		t.Fatalf("unexpected headers %v", headers)
	}
	want := []string{"2026-03-01 12:30", "ace", "2", "71", "B", "62.5%", "0.80s", "60.0%", "3"}
	for i := range want {
		if rows[0][i] != want[i] {
			t.Fatalf("cell %d: expected %q, got %q", i, want[i], rows[0][i])
		}
	}
}
