// Package resultlog appends completed drill sessions to a CSV file.
//
// The file is opened and closed around every append so that a crash can at worst
// lose the row being written. Numbers are formatted as fixed-point decimals with a
// '.' separator regardless of host locale.
package resultlog

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/verte-zerg/aimdrill/internal/model"
)

// Header is the fixed column order of the log.
var Header = []string{
	"Timestamp",
	"PlayerId",
	"Round",
	"OverallAccuracy",
	"Wave1Accuracy",
	"Wave2Accuracy",
	"Wave1AvgTimePerTarget",
	"HitsPerMinute",
	"Wave2AvgRecoilRadius",
	"Wave2TightnessPercent",
	"Wave2Misses",
	"Wave2InsideHits",
	"Wave2OutsideHits",
	"FlickScore",
	"RecoilScore",
	"FinalScore",
	"ReloadCount",
	"AvgReloadTime",
	"TotalShots",
	"TotalHits",
	"Wave1Shots",
	"Wave1Hits",
	"Wave2Shots",
	"Wave2Hits",
}

const (
	percentPlaces = 1
	timePlaces    = 2
	scorePlaces   = 0
)

// Log is an append-only result table stored at Path.
type Log struct {
	Path string
}

// New returns a Log writing to path.
func New(path string) *Log {
	return &Log{Path: path}
}

// Append writes one row, preceded by the header when the file is new or empty.
func (l *Log) Append(row model.ResultRow) error {
	if l.Path == "" {
		return fmt.Errorf("result log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create result log directory: %w", err)
	}
	needHeader := false
	info, err := os.Stat(l.Path)
	switch {
	case os.IsNotExist(err):
		needHeader = true
	case err != nil:
		return fmt.Errorf("failed to stat result log: %w", err)
	case info.Size() == 0:
		needHeader = true
	}

	file, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open result log: %w", err)
	}
	writer := csv.NewWriter(file)
	if needHeader {
		if err := writer.Write(Header); err != nil {
			_ = file.Close()
			return fmt.Errorf("failed to write result log header: %w", err)
		}
	}
	if err := writer.Write(FormatRow(row)); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write result row: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to flush result log: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close result log: %w", err)
	}
	return nil
}

// FormatRow renders a row as CSV fields in Header order.
func FormatRow(row model.ResultRow) []string {
	m := row.Metrics
	c := row.Counters
	return []string{
		row.Timestamp.UTC().Format(time.RFC3339Nano),
		SanitizePlayerID(row.PlayerID),
		strconv.Itoa(row.Round),
		fixed(m.OverallAccuracy, percentPlaces),
		fixed(m.Wave1Accuracy, percentPlaces),
		fixed(m.Wave2Accuracy, percentPlaces),
		fixed(m.Wave1AvgTimePerTarget, timePlaces),
		fixed(m.HitsPerMinute, percentPlaces),
		fixed(m.Wave2AvgRecoilRadius, timePlaces),
		fixed(m.Wave2Tightness, percentPlaces),
		strconv.Itoa(c.Wave2Misses),
		strconv.Itoa(c.Wave2InsideHits),
		strconv.Itoa(c.Wave2OutsideHits),
		fixed(m.FlickScore, scorePlaces),
		fixed(m.RecoilScore, scorePlaces),
		fixed(m.FinalScore, scorePlaces),
		strconv.Itoa(c.ReloadCount),
		fixed(m.AvgReloadTime, timePlaces),
		strconv.Itoa(c.TotalShots),
		strconv.Itoa(c.TotalHits),
		strconv.Itoa(c.Wave1Shots),
		strconv.Itoa(c.Wave1Hits),
		strconv.Itoa(c.Wave2Shots),
		strconv.Itoa(c.Wave2Hits),
	}
}

// SanitizePlayerID keeps the id from splitting a column.
func SanitizePlayerID(id string) string {
	return strings.ReplaceAll(id, ",", "_")
}

// fixed writes non-finite values as zero; decimal cannot represent them.
func fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}
