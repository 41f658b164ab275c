// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Drill DrillConfig `toml:"drill"`
}

// DrillConfig maps drill-related settings. Nil fields were not set in the file.
type DrillConfig struct {
	Player          *string  `toml:"player"`
	SessionDuration *float64 `toml:"session-duration"`
	MaxRounds       *int     `toml:"max-rounds"`
	Wave1Duration   *float64 `toml:"wave1-duration"`
	Wave2Hits       *int     `toml:"wave2-hits"`
	Wave2Spacing    *float64 `toml:"wave2-spacing"`
	InsideRadius    *float64 `toml:"inside-radius"`
	Magazine        *int     `toml:"magazine"`
	FireRate        *float64 `toml:"fire-rate"`
	ReloadDuration  *float64 `toml:"reload-duration"`
	Range           *float64 `toml:"range"`
	Sensitivity     *float64 `toml:"sensitivity"`
	MoveSpeed       *float64 `toml:"move-speed"`
	Results         *string  `toml:"results"`
	FPS             *int     `toml:"fps"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
