package resultlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/verte-zerg/aimdrill/internal/model"
	"github.com/verte-zerg/aimdrill/internal/scoring"
)

// ReadAll parses every data row of the log at path. A missing file yields no rows.
func ReadAll(path string) ([]model.ResultRow, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open result log: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only log.
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(Header)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read result log: %w", err)
	}
	rows := make([]model.ResultRow, 0, len(records))
	for i, rec := range records {
		if i == 0 && rec[0] == Header[0] {
			continue
		}
		row, err := ParseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseRow is the inverse of FormatRow.
func ParseRow(fields []string) (model.ResultRow, error) {
	if len(fields) != len(Header) {
		return model.ResultRow{}, fmt.Errorf("expected %d fields, got %d", len(Header), len(fields))
	}
	p := fieldParser{fields: fields}
	var row model.ResultRow
	row.Timestamp = p.time(0)
	row.PlayerID = fields[1]
	row.Round = p.int(2)
	row.Metrics = model.Metrics{
		OverallAccuracy:       p.float(3),
		Wave1Accuracy:         p.float(4),
		Wave2Accuracy:         p.float(5),
		Wave1AvgTimePerTarget: p.float(6),
		HitsPerMinute:         p.float(7),
		Wave2AvgRecoilRadius:  p.float(8),
		Wave2Tightness:        p.float(9),
		FlickScore:            p.float(13),
		RecoilScore:           p.float(14),
		FinalScore:            p.float(15),
		AvgReloadTime:         p.float(17),
	}
	row.Counters = model.Counters{
		Wave2Misses:      p.int(10),
		Wave2InsideHits:  p.int(11),
		Wave2OutsideHits: p.int(12),
		ReloadCount:      p.int(16),
		TotalShots:       p.int(18),
		TotalHits:        p.int(19),
		Wave1Shots:       p.int(20),
		Wave1Hits:        p.int(21),
		Wave2Shots:       p.int(22),
		Wave2Hits:        p.int(23),
	}
	if p.err != nil {
		return model.ResultRow{}, p.err
	}
	row.Counters.RecoilSamples = row.Counters.Wave2InsideHits + row.Counters.Wave2OutsideHits
	row.Metrics.Rank = scoring.Rank(row.Metrics.FinalScore)
	return row, nil
}

type fieldParser struct {
	fields []string
	err    error
}

func (p *fieldParser) int(i int) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(p.fields[i])
	if err != nil {
		p.err = fmt.Errorf("invalid %s: %w", Header[i], err)
	}
	return v
}

func (p *fieldParser) float(i int) float64 {
	if p.err != nil {
		return 0
	}
	d, err := decimal.NewFromString(p.fields[i])
	if err != nil {
		p.err = fmt.Errorf("invalid %s: %w", Header[i], err)
		return 0
	}
	return d.InexactFloat64()
}

func (p *fieldParser) time(i int) time.Time {
	if p.err != nil {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, p.fields[i])
	if err != nil {
		p.err = fmt.Errorf("invalid %s: %w", Header[i], err)
	}
	return ts
}
