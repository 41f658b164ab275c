package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/aimdrill/internal/config"
	"github.com/verte-zerg/aimdrill/internal/drill"
	"github.com/verte-zerg/aimdrill/internal/model"
	"github.com/verte-zerg/aimdrill/internal/resultlog"
)

func validConfig() model.Config {
	cfg := drill.DefaultConfig()
	cfg.ResultsPath = "results.csv"
	return cfg
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(validConfig()); err != nil {
		t.Fatalf("expected defaults to validate: %v", err)
	}
	cases := map[string]func(*model.Config){
		"--session-duration": func(c *model.Config) { c.SessionDuration = 0 },
		"--max-rounds":       func(c *model.Config) { c.MaxRounds = 0 },
		"--wave2-hits":       func(c *model.Config) { c.Wave2Hits = 0 },
		"--magazine":         func(c *model.Config) { c.Magazine = 0 },
		"--fire-rate":        func(c *model.Config) { c.FireRate = -1 },
		"--results":          func(c *model.Config) { c.ResultsPath = " " },
		"--fps":              func(c *model.Config) { c.FPS = 0 },
	}
	for flag, mutate := range cases {
		cfg := validConfig()
		mutate(&cfg)
		err := validateConfig(cfg)
		if err == nil || !strings.Contains(err.Error(), flag) {
			t.Fatalf("expected %s error, got %v", flag, err)
		}
	}
}

func TestApplyDrillConfigRespectsFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("magazine", "12"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	cfg := validConfig()
	cfg.Magazine = 12
	player := "ace"
	magazine := 50
	rate := 7.5
	applyDrillConfig(cmd, &cfg, config.DrillConfig{Player: &player, Magazine: &magazine, FireRate: &rate})
	if cfg.Player != "ace" || cfg.FireRate != 7.5 {
		t.Fatalf("expected file values applied, got %+v", cfg)
	}
	if cfg.Magazine != 12 {
		t.Fatalf("expected flag to win, got %d", cfg.Magazine)
	}
	if cfg.Range != drill.DefaultConfig().Range {
		t.Fatalf("expected unset keys untouched, got %.1f", cfg.Range)
	}
}

func TestBuildStatsConfig(t *testing.T) {
	cfg, err := buildStatsConfig(" ace ", "2026-02-01", 5, 3)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.Player != "ace" || cfg.Since == nil || cfg.Last != 5 || cfg.CurveWindow != 3 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if _, err := buildStatsConfig("", "yesterday", 0, 1); err == nil {
		t.Fatalf("expected since parse error")
	}
	if _, err := buildStatsConfig("", "", -1, 1); err == nil {
		t.Fatalf("expected last error")
	}
	if _, err := buildStatsConfig("", "", 0, 0); err == nil {
		t.Fatalf("expected window error")
	}
}

func TestPrintResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drill_results.csv")
	var buf bytes.Buffer
	if err := printResults(&buf, path, 2); err != nil {
		t.Fatalf("print empty: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "No results yet") {
		t.Fatalf("unexpected empty output %q", buf.String())
	}

	log := resultlog.New(path)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, player := range []string{"one", "two", "three"} {
		row := model.ResultRow{Timestamp: base.Add(time.Duration(i) * time.Minute), PlayerID: player, Round: 1}
		if err := log.Append(row); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	buf.Reset()
	if err := printResults(&buf, path, 2); err != nil {
		t.Fatalf("print: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "one") || !strings.Contains(out, "two") || !strings.Contains(out, "three") {
		t.Fatalf("expected last two rows only:\n%s", out)
	}
}

func TestEnsureConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aimdrill", "config.toml")
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "[drill]") || !strings.Contains(string(data), "# magazine = 30") {
		t.Fatalf("unexpected template:\n%s", data)
	}
	if err := os.WriteFile(path, []byte("custom"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensure existing: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "custom" {
		t.Fatalf("existing config must not be overwritten")
	}
}
