// Package model defines shared data structures.
package model

import "time"

// Config defines drill settings. All values are fixed for the lifetime of a session.
type Config struct {
	Player          string
	SessionDuration float64
	MaxRounds       int
	Wave1Duration   float64
	Wave2Hits       int
	Wave2Spacing    float64
	InsideRadius    float64
	Magazine        int
	FireRate        float64
	ReloadDuration  float64
	Range           float64
	Sensitivity     float64
	MoveSpeed       float64
	ResultsPath     string
	FPS             int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Player      string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Counters holds the raw per-session tallies. They only grow while a session runs.
type Counters struct {
	TotalShots int
	TotalHits  int

	Wave1Shots           int
	Wave1Hits            int
	SumWave1HitIntervals float64

	Wave2Shots       int
	Wave2Hits        int
	Wave2Misses      int
	Wave2InsideHits  int
	Wave2OutsideHits int
	RecoilSamples    int
	SumRecoilError   float64

	ReloadCount   int
	ReloadTimeSum float64
}

// Metrics are the derived values computed at session end.
type Metrics struct {
	OverallAccuracy       float64
	Wave1Accuracy         float64
	Wave2Accuracy         float64
	Wave1AvgTimePerTarget float64
	HitsPerMinute         float64
	Wave2AvgRecoilRadius  float64
	Wave2Tightness        float64
	FlickScore            float64
	RecoilScore           float64
	FinalScore            float64
	AvgReloadTime         float64
	Rank                  string
}

// ResultRow is one completed session as written to the result log.
type ResultRow struct {
	Timestamp time.Time
	PlayerID  string
	Round     int
	Metrics   Metrics
	Counters  Counters
}

// SessionRecord is a result row enriched with history metadata.
type SessionRecord struct {
	ID              string
	StartedAt       time.Time
	EndedAt         time.Time
	SessionDuration float64
	Wave1Duration   float64
	Row             ResultRow
}
