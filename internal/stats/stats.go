// Package stats contains statistics calculations and reporting over drill history.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/aimdrill/internal/model"
	"github.com/verte-zerg/aimdrill/internal/scoring"
)

const sparkChars = "▁▂▃▄▅▆▇█"

// Summary aggregates a set of sessions.
type Summary struct {
	Sessions      int
	Shots         int
	Hits          int
	AvgScore      float64
	BestScore     float64
	AvgAccuracy   float64
	AvgFlickTime  float64
	AvgTightness  float64
	AvgHitsPerMin float64
	AvgReload     float64
	LastPlayed    time.Time
}

// Summarize folds records into a Summary. Flick time and reload averages only
// count sessions that measured them.
func Summarize(records []model.SessionRecord) Summary {
	var s Summary
	if len(records) == 0 {
		return s
	}
	var flickSum, reloadSum float64
	var flickN, reloadN int
	for _, rec := range records {
		m := rec.Row.Metrics
		c := rec.Row.Counters
		s.Sessions++
		s.Shots += c.TotalShots
		s.Hits += c.TotalHits
		s.AvgScore += m.FinalScore
		s.AvgAccuracy += m.OverallAccuracy
		s.AvgTightness += m.Wave2Tightness
		s.AvgHitsPerMin += m.HitsPerMinute
		if m.FinalScore > s.BestScore {
			s.BestScore = m.FinalScore
		}
		if m.Wave1AvgTimePerTarget > 0 {
			flickSum += m.Wave1AvgTimePerTarget
			flickN++
		}
		if c.ReloadCount > 0 {
			reloadSum += m.AvgReloadTime
			reloadN++
		}
		if rec.EndedAt.After(s.LastPlayed) {
			s.LastPlayed = rec.EndedAt
		}
	}
	n := float64(s.Sessions)
	s.AvgScore /= n
	s.AvgAccuracy /= n
	s.AvgTightness /= n
	s.AvgHitsPerMin /= n
	if flickN > 0 {
		s.AvgFlickTime = flickSum / float64(flickN)
	}
	if reloadN > 0 {
		s.AvgReload = reloadSum / float64(reloadN)
	}
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders values as a single line of block characters.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	glyphs := []rune(sparkChars)
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(glyphs[len(glyphs)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(glyphs)-1)))
		b.WriteRune(glyphs[max(0, min(idx, len(glyphs)-1))])
	}
	return b.String()
}

// Scores extracts final scores in record order.
func Scores(records []model.SessionRecord) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		out[i] = rec.Row.Metrics.FinalScore
	}
	return out
}

// RenderSummary prints a summary block for records.
func RenderSummary(w io.Writer, records []model.SessionRecord, now time.Time) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	s := Summarize(records)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d (last played %s)", s.Sessions, humanize.RelTime(s.LastPlayed, now, "ago", "from now")),
		fmt.Sprintf("Shots: %s  Hits: %s", humanize.Comma(int64(s.Shots)), humanize.Comma(int64(s.Hits))),
		fmt.Sprintf("Avg score: %.1f (%s)", s.AvgScore, scoring.Rank(s.AvgScore)),
		fmt.Sprintf("Best score: %.0f (%s)", s.BestScore, scoring.Rank(s.BestScore)),
		fmt.Sprintf("Avg accuracy: %.1f%%", s.AvgAccuracy),
		fmt.Sprintf("Avg flick time: %.2fs", s.AvgFlickTime),
		fmt.Sprintf("Avg tightness: %.1f%%", s.AvgTightness),
		fmt.Sprintf("Avg hits/min: %.1f", s.AvgHitsPerMin),
		fmt.Sprintf("Avg reload: %.2fs", s.AvgReload),
		fmt.Sprintf("Trend: %s", Sparkline(Scores(records))),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints smoothed score, accuracy and tightness curves.
func RenderCurves(w io.Writer, records []model.SessionRecord, window, totalWidth, height int, useColor bool) error {
	if len(records) == 0 {
		return nil
	}
	scores := make([]float64, len(records))
	accs := make([]float64, len(records))
	tight := make([]float64, len(records))
	for i, rec := range records {
		scores[i] = rec.Row.Metrics.FinalScore
		accs[i] = rec.Row.Metrics.OverallAccuracy
		tight[i] = rec.Row.Metrics.Wave2Tightness
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeries(w, "Progress", []Series{
		{Name: "Score", Values: MovingAverage(scores, window)},
		{Name: "Accuracy", Values: MovingAverage(accs, window)},
		{Name: "Tightness", Values: MovingAverage(tight, window)},
	}, width, height, useColor)
}

// RenderSessionTable prints one line per session, newest last.
func RenderSessionTable(w io.Writer, records []model.SessionRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Sessions"); err != nil {
		return err
	}
	headers, rows := SessionRows(records)
	for _, line := range formatTable(headers, rows, sessionRightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

var sessionRightAlign = map[int]bool{2: true, 3: true, 5: true, 6: true, 7: true, 8: true}

// SessionRows formats records as table cells.
func SessionRows(records []model.SessionRecord) ([]string, [][]string) {
	headers := []string{"Ended", "Player", "Round", "Score", "Rank", "Acc", "Flick", "Tight", "Reloads"}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		m := rec.Row.Metrics
		rows = append(rows, []string{
			rec.EndedAt.Local().Format("2006-01-02 15:04"),
			rec.Row.PlayerID,
			fmt.Sprintf("%d", rec.Row.Round),
			fmt.Sprintf("%.0f", m.FinalScore),
			m.Rank,
			fmt.Sprintf("%.1f%%", m.OverallAccuracy),
			fmt.Sprintf("%.2fs", m.Wave1AvgTimePerTarget),
			fmt.Sprintf("%.1f%%", m.Wave2Tightness),
			fmt.Sprintf("%d", rec.Row.Counters.ReloadCount),
		})
	}
	return headers, rows
}
