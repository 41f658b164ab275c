// Package main provides the CLI entrypoint for aimdrill.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/aimdrill/internal/config"
	"github.com/verte-zerg/aimdrill/internal/drill"
	"github.com/verte-zerg/aimdrill/internal/logging"
	"github.com/verte-zerg/aimdrill/internal/model"
	"github.com/verte-zerg/aimdrill/internal/resultlog"
	"github.com/verte-zerg/aimdrill/internal/stats"
	"github.com/verte-zerg/aimdrill/internal/statsui"
	"github.com/verte-zerg/aimdrill/internal/store"
	"github.com/verte-zerg/aimdrill/internal/tui"
)

const (
	defaultCurveWindow = 10
	defaultResultsLast = 10
	defaultLogLevel    = "info"
)

var (
	drillCfg   = drill.DefaultConfig()
	configPath string
	dbPath     string
	logLevel   string

	statsPlayer      string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	resultsLast int

	configPrintPath bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "aimdrill",
		Short:         "Terminal aim trainer with flick and recoil waves",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDrillCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	pf.StringVar(&dbPath, "db", config.DefaultDBPath(), "history database path")
	pf.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (trace, debug, info, warn, error)")

	f := rootCmd.Flags()
	f.StringVar(&drillCfg.Player, "player", "", "player id recorded with results")
	f.Float64Var(&drillCfg.SessionDuration, "session-duration", drillCfg.SessionDuration, "session length in seconds")
	f.IntVar(&drillCfg.MaxRounds, "max-rounds", drillCfg.MaxRounds, "rounds per aggregate cycle")
	f.Float64Var(&drillCfg.Wave1Duration, "wave1-duration", drillCfg.Wave1Duration, "flick wave length in seconds")
	f.IntVar(&drillCfg.Wave2Hits, "wave2-hits", drillCfg.Wave2Hits, "hits to destroy a recoil target")
	f.Float64Var(&drillCfg.Wave2Spacing, "wave2-spacing", drillCfg.Wave2Spacing, "minimum distance between recoil targets")
	f.Float64Var(&drillCfg.InsideRadius, "inside-radius", drillCfg.InsideRadius, "tight-group radius around the target center")
	f.IntVar(&drillCfg.Magazine, "magazine", drillCfg.Magazine, "rounds per magazine")
	f.Float64Var(&drillCfg.FireRate, "fire-rate", drillCfg.FireRate, "shots per second")
	f.Float64Var(&drillCfg.ReloadDuration, "reload-duration", drillCfg.ReloadDuration, "reload time in seconds")
	f.Float64Var(&drillCfg.Range, "range", drillCfg.Range, "maximum shot distance")
	f.Float64Var(&drillCfg.Sensitivity, "sensitivity", drillCfg.Sensitivity, "look speed in degrees per second")
	f.Float64Var(&drillCfg.MoveSpeed, "move-speed", drillCfg.MoveSpeed, "move speed in units per second")
	f.StringVar(&drillCfg.ResultsPath, "results", config.DefaultResultsPath(), "CSV result log path")
	f.IntVar(&drillCfg.FPS, "fps", drillCfg.FPS, "simulation frames per second")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newResultsCmd())

	return rootCmd
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyDrillConfig(cmd, &drillCfg, fileCfg.Drill)
	if err := validateConfig(drillCfg); err != nil {
		return err
	}

	log, closer, err := openLog()
	if err != nil {
		return err
	}
	defer closeQuietly(closer, "log")

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeQuietly(st, "db")

	d := drill.New(drillCfg, drill.Options{
		Sink:    resultlog.New(drillCfg.ResultsPath),
		History: st,
		Log:     log,
	})
	log.Info().Str("results", drillCfg.ResultsPath).Str("db", dbPath).Msg("drill starting")

	m := tui.NewModel(d, st, drillCfg.Player, log)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func openLog() (zerolog.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	log, closer, err := logging.New(config.DefaultLogPath(), level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log: %w", err)
	}
	return log, closer, nil
}

// consoleLog is used by subcommands that never enter the alt screen.
func consoleLog() (zerolog.Logger, error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid --log-level: %w", err)
	}
	return logging.Console(level), nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
	cmd.Flags().BoolVar(&configPrintPath, "path", false, "print the config path instead of opening an editor")
	return cmd
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	if configPrintPath {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), configPath)
		return err
	}
	if err := ensureConfigFile(configPath); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	editCmd := exec.Command(parts[0], append(parts[1:], configPath)...)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	if err := editCmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show drill history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsPlayer, "player", "", "player filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildStatsConfig(statsPlayer, statsSince, statsLast, statsCurveWindow)
	if err != nil {
		return err
	}
	log, err := consoleLog()
	if err != nil {
		return err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeQuietly(st, "db")

	log.Debug().Str("db", dbPath).Str("player", cfg.Player).Int("window", cfg.CurveWindow).Msg("loading stats")
	if statsPlain {
		return renderPlainStats(cmd.OutOrStdout(), st, cfg)
	}
	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func buildStatsConfig(player, since string, last, window int) (model.StatsConfig, error) {
	cfg := model.StatsConfig{Player: strings.TrimSpace(player), Last: last, CurveWindow: window}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if last < 0 {
		return cfg, fmt.Errorf("--last must be >= 0")
	}
	if window < 1 {
		return cfg, fmt.Errorf("--window must be >= 1")
	}
	return cfg, nil
}

func renderPlainStats(w io.Writer, src stats.Source, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(context.Background(), src, cfg)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	if err := stats.RenderSummary(w, report.Records, time.Now()); err != nil {
		return err
	}
	if len(report.Records) == 0 {
		return nil
	}
	if phase, score, ok := stats.WeakestPhase(report.Records, cfg.CurveWindow); ok {
		if _, err := fmt.Fprintf(w, "Focus: %s (%.1f)\n\n", phase, score); err != nil {
			return err
		}
	}
	if err := stats.RenderCurves(w, report.Records, cfg.CurveWindow, 0, 0, stats.IsTerminal(w)); err != nil {
		return err
	}
	return stats.RenderSessionTable(w, report.Window)
}

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Print recent rows of the CSV result log",
		Args:  cobra.NoArgs,
		RunE:  runResultsCmd,
	}
	cmd.Flags().StringVar(&drillCfg.ResultsPath, "results", config.DefaultResultsPath(), "CSV result log path")
	cmd.Flags().IntVar(&resultsLast, "last", defaultResultsLast, "number of rows to show (0 for all)")
	return cmd
}

func runResultsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "results", &drillCfg.ResultsPath, fileCfg.Drill.Results)
	log, err := consoleLog()
	if err != nil {
		return err
	}
	log.Debug().Str("results", drillCfg.ResultsPath).Int("last", resultsLast).Msg("reading result log")
	return printResults(cmd.OutOrStdout(), drillCfg.ResultsPath, resultsLast)
}

func printResults(w io.Writer, path string, last int) error {
	rows, err := resultlog.ReadAll(path)
	if err != nil {
		return fmt.Errorf("failed to read results: %w", err)
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintf(w, "No results yet at %s\n", path)
		return err
	}
	if last > 0 && len(rows) > last {
		rows = rows[len(rows)-last:]
	}
	records := make([]model.SessionRecord, len(rows))
	for i, row := range rows {
		records[i] = model.SessionRecord{EndedAt: row.Timestamp, Row: row}
	}
	if _, err := fmt.Fprintln(w, path); err != nil {
		return err
	}
	return stats.RenderSessionTable(w, records)
}

func applyDrillConfig(cmd *cobra.Command, cfg *model.Config, file config.DrillConfig) {
	applyStringConfig(cmd, "player", &cfg.Player, file.Player)
	applyFloatConfig(cmd, "session-duration", &cfg.SessionDuration, file.SessionDuration)
	applyIntConfig(cmd, "max-rounds", &cfg.MaxRounds, file.MaxRounds)
	applyFloatConfig(cmd, "wave1-duration", &cfg.Wave1Duration, file.Wave1Duration)
	applyIntConfig(cmd, "wave2-hits", &cfg.Wave2Hits, file.Wave2Hits)
	applyFloatConfig(cmd, "wave2-spacing", &cfg.Wave2Spacing, file.Wave2Spacing)
	applyFloatConfig(cmd, "inside-radius", &cfg.InsideRadius, file.InsideRadius)
	applyIntConfig(cmd, "magazine", &cfg.Magazine, file.Magazine)
	applyFloatConfig(cmd, "fire-rate", &cfg.FireRate, file.FireRate)
	applyFloatConfig(cmd, "reload-duration", &cfg.ReloadDuration, file.ReloadDuration)
	applyFloatConfig(cmd, "range", &cfg.Range, file.Range)
	applyFloatConfig(cmd, "sensitivity", &cfg.Sensitivity, file.Sensitivity)
	applyFloatConfig(cmd, "move-speed", &cfg.MoveSpeed, file.MoveSpeed)
	applyStringConfig(cmd, "results", &cfg.ResultsPath, file.Results)
	applyIntConfig(cmd, "fps", &cfg.FPS, file.FPS)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	d := drill.DefaultConfig()
	return fmt.Sprintf(`# aimdrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[drill]
# player = "Player"          # Player id recorded with results
# session-duration = %.0f      # Session length in seconds
# max-rounds = %d             # Rounds per aggregate cycle
# wave1-duration = %.0f        # Flick wave length in seconds
# wave2-hits = %d             # Hits to destroy a recoil target
# wave2-spacing = %.1f        # Minimum distance between recoil targets
# inside-radius = %.2f       # Tight-group radius around the target center
# magazine = %d               # Rounds per magazine
# fire-rate = %.0f             # Shots per second
# reload-duration = %.1f      # Reload time in seconds
# range = %.0f                # Maximum shot distance
# sensitivity = %.0f          # Look speed in degrees per second
# move-speed = %.0f            # Move speed in units per second
# results = %q
# fps = %d                    # Simulation frames per second
`,
		d.SessionDuration,
		d.MaxRounds,
		d.Wave1Duration,
		d.Wave2Hits,
		d.Wave2Spacing,
		d.InsideRadius,
		d.Magazine,
		d.FireRate,
		d.ReloadDuration,
		d.Range,
		d.Sensitivity,
		d.MoveSpeed,
		config.DefaultResultsPath(),
		d.FPS,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.SessionDuration <= 0 {
		return fmt.Errorf("--session-duration must be > 0")
	}
	if cfg.MaxRounds < 1 {
		return fmt.Errorf("--max-rounds must be >= 1")
	}
	if cfg.Wave1Duration <= 0 {
		return fmt.Errorf("--wave1-duration must be > 0")
	}
	if cfg.Wave2Hits < 1 {
		return fmt.Errorf("--wave2-hits must be >= 1")
	}
	if cfg.Wave2Spacing < 0 {
		return fmt.Errorf("--wave2-spacing must be >= 0")
	}
	if cfg.InsideRadius <= 0 {
		return fmt.Errorf("--inside-radius must be > 0")
	}
	if cfg.Magazine < 1 {
		return fmt.Errorf("--magazine must be >= 1")
	}
	if cfg.FireRate <= 0 {
		return fmt.Errorf("--fire-rate must be > 0")
	}
	if cfg.ReloadDuration < 0 {
		return fmt.Errorf("--reload-duration must be >= 0")
	}
	if cfg.Range <= 0 {
		return fmt.Errorf("--range must be > 0")
	}
	if cfg.Sensitivity <= 0 {
		return fmt.Errorf("--sensitivity must be > 0")
	}
	if cfg.MoveSpeed < 0 {
		return fmt.Errorf("--move-speed must be >= 0")
	}
	if strings.TrimSpace(cfg.ResultsPath) == "" {
		return fmt.Errorf("--results must not be empty")
	}
	if cfg.FPS < 1 || cfg.FPS > 240 {
		return fmt.Errorf("--fps must be between 1 and 240")
	}
	return nil
}

func closeQuietly(c io.Closer, what string) {
	if c == nil {
		return
	}
	if cerr := c.Close(); cerr != nil {
		// Best-effort close on exit.
		logErrf("failed to close %s: %v\n", what, cerr)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
