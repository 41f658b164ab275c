package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "aimdrill.log")
	log, closer, err := New(path, zerolog.DebugLevel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info().Str("player", "ace").Msg("session started")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"player":"ace"`) || !strings.Contains(string(data), "session started") {
		t.Fatalf("unexpected log contents %q", data)
	}
}

func TestNewFiltersLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aimdrill.log")
	log, closer, err := New(path, zerolog.WarnLevel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Debug().Msg("hidden")
	log.Warn().Msg("shown")
	_ = closer.Close()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Fatalf("unexpected log contents %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    zerolog.Level
		wantErr bool
	}{
		{name: "", want: zerolog.InfoLevel},
		{name: "debug", want: zerolog.DebugLevel},
		{name: "warn", want: zerolog.WarnLevel},
		{name: "loud", want: zerolog.InfoLevel, wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%q: unexpected error %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("%q: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}
