// Package store handles SQLite persistence of completed drill sessions.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/aimdrill/internal/model"
	"github.com/verte-zerg/aimdrill/internal/scoring"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			player TEXT NOT NULL,
			round INTEGER NOT NULL,
			session_duration REAL NOT NULL,
			wave1_duration REAL NOT NULL,
			overall_accuracy REAL NOT NULL,
			wave1_accuracy REAL NOT NULL,
			wave2_accuracy REAL NOT NULL,
			wave1_avg_time REAL NOT NULL,
			hits_per_minute REAL NOT NULL,
			wave2_avg_radius REAL NOT NULL,
			wave2_tightness REAL NOT NULL,
			flick_score REAL NOT NULL,
			recoil_score REAL NOT NULL,
			final_score REAL NOT NULL,
			avg_reload_time REAL NOT NULL,
			total_shots INTEGER NOT NULL,
			total_hits INTEGER NOT NULL,
			wave1_shots INTEGER NOT NULL,
			wave1_hits INTEGER NOT NULL,
			wave2_shots INTEGER NOT NULL,
			wave2_hits INTEGER NOT NULL,
			wave2_misses INTEGER NOT NULL,
			wave2_inside INTEGER NOT NULL,
			wave2_outside INTEGER NOT NULL,
			reload_count INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_ended_at ON results(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_results_player ON results(player);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertResult stores a completed session. An empty rec.ID gets a fresh UUID,
// which is returned.
func (s *Store) InsertResult(ctx context.Context, rec model.SessionRecord) (string, error) {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	m := rec.Row.Metrics
	c := rec.Row.Counters
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (id, started_at, ended_at, player, round, session_duration, wave1_duration,
			overall_accuracy, wave1_accuracy, wave2_accuracy, wave1_avg_time, hits_per_minute,
			wave2_avg_radius, wave2_tightness, flick_score, recoil_score, final_score, avg_reload_time,
			total_shots, total_hits, wave1_shots, wave1_hits, wave2_shots, wave2_hits,
			wave2_misses, wave2_inside, wave2_outside, reload_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.EndedAt.UTC().Format(time.RFC3339Nano),
		rec.Row.PlayerID,
		rec.Row.Round,
		rec.SessionDuration,
		rec.Wave1Duration,
		m.OverallAccuracy,
		m.Wave1Accuracy,
		m.Wave2Accuracy,
		m.Wave1AvgTimePerTarget,
		m.HitsPerMinute,
		m.Wave2AvgRecoilRadius,
		m.Wave2Tightness,
		m.FlickScore,
		m.RecoilScore,
		m.FinalScore,
		m.AvgReloadTime,
		c.TotalShots,
		c.TotalHits,
		c.Wave1Shots,
		c.Wave1Hits,
		c.Wave2Shots,
		c.Wave2Hits,
		c.Wave2Misses,
		c.Wave2InsideHits,
		c.Wave2OutsideHits,
		c.ReloadCount,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert result: %w", err)
	}
	return id, nil
}

// ListResults returns stored sessions filtered by stats config, oldest first.
// A positive cfg.Last keeps only the most recent sessions.
func (s *Store) ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Player != "" {
		clauses = append(clauses, "player = ?")
		args = append(args, cfg.Player)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, player, round, session_duration, wave1_duration,
			overall_accuracy, wave1_accuracy, wave2_accuracy, wave1_avg_time, hits_per_minute,
			wave2_avg_radius, wave2_tightness, flick_score, recoil_score, final_score, avg_reload_time,
			total_shots, total_hits, wave1_shots, wave1_hits, wave2_shots, wave2_hits,
			wave2_misses, wave2_inside, wave2_outside, reload_count
		FROM results
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.SessionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(records) > cfg.Last {
		records = records[len(records)-cfg.Last:]
	}
	return records, nil
}

// BestScore returns the highest final score recorded for player. ok is false
// when the player has no sessions.
func (s *Store) BestScore(ctx context.Context, player string) (score float64, ok bool, err error) {
	var best sql.NullFloat64
	row := s.db.QueryRowContext(ctx, `SELECT MAX(final_score) FROM results WHERE player = ?`, player)
	if err := row.Scan(&best); err != nil {
		return 0, false, fmt.Errorf("failed to query best score: %w", err)
	}
	if !best.Valid {
		return 0, false, nil
	}
	return best.Float64, true, nil
}

func scanRecord(rows *sql.Rows) (model.SessionRecord, error) {
	var rec model.SessionRecord
	var startedAt, endedAt string
	m := &rec.Row.Metrics
	c := &rec.Row.Counters
	if err := rows.Scan(
		&rec.ID,
		&startedAt,
		&endedAt,
		&rec.Row.PlayerID,
		&rec.Row.Round,
		&rec.SessionDuration,
		&rec.Wave1Duration,
		&m.OverallAccuracy,
		&m.Wave1Accuracy,
		&m.Wave2Accuracy,
		&m.Wave1AvgTimePerTarget,
		&m.HitsPerMinute,
		&m.Wave2AvgRecoilRadius,
		&m.Wave2Tightness,
		&m.FlickScore,
		&m.RecoilScore,
		&m.FinalScore,
		&m.AvgReloadTime,
		&c.TotalShots,
		&c.TotalHits,
		&c.Wave1Shots,
		&c.Wave1Hits,
		&c.Wave2Shots,
		&c.Wave2Hits,
		&c.Wave2Misses,
		&c.Wave2InsideHits,
		&c.Wave2OutsideHits,
		&c.ReloadCount,
	); err != nil {
		return model.SessionRecord{}, err
	}
	started, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return model.SessionRecord{}, err
	}
	ended, err := time.Parse(time.RFC3339Nano, endedAt)
	if err != nil {
		return model.SessionRecord{}, err
	}
	rec.StartedAt = started
	rec.EndedAt = ended
	rec.Row.Timestamp = ended
	c.RecoilSamples = c.Wave2InsideHits + c.Wave2OutsideHits
	m.Rank = scoring.Rank(m.FinalScore)
	return rec, nil
}
