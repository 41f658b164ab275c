// Package session runs the drill lifecycle: menu, running, ended. It owns the shot
// counters, drives scoring and the result log at session end and keeps the HUD in
// sync with the counters.
package session

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/aimdrill/internal/geom"
	"github.com/verte-zerg/aimdrill/internal/model"
	"github.com/verte-zerg/aimdrill/internal/scoring"
)

// State is the lifecycle phase.
type State int

const (
	StateMenu State = iota
	StateRunning
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateRunning:
		return "running"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// DefaultPlayerID is used when no id was entered.
const DefaultPlayerID = "Player"

// Settings are the per-process session options.
type Settings struct {
	SessionDuration float64
	MaxRounds       int
	// Wave1Duration is only recorded in the history store.
	Wave1Duration float64
}

// Snapshot is a read-only view of the manager for renderers and tests.
type Snapshot struct {
	State         State
	Wave          int
	Round         int
	MaxRounds     int
	TimeRemaining float64
	PlayerID      string
	Counters      model.Counters
	LastResult    *model.ResultRow
	Aggregate     Aggregate
}

// Manager is the session state machine. It is driven from a single goroutine.
type Manager struct {
	settings Settings
	deps     Deps

	state         State
	round         int
	timeRemaining float64
	startTime     float64
	startedAt     time.Time

	playerInput  string
	playerLocked bool
	playerID     string

	wave     int
	counters model.Counters

	lastWave1Hit    float64
	hasLastWave1Hit bool

	reloadActive bool
	reloadStart  float64

	aggregate  Aggregate
	lastResult *model.ResultRow
}

// New builds a manager. Call Init before the first tick.
func New(settings Settings, deps Deps) *Manager {
	if settings.MaxRounds <= 0 {
		settings.MaxRounds = 1
	}
	deps.fill()
	return &Manager{
		settings: settings,
		deps:     deps,
		playerID: DefaultPlayerID,
	}
}

// SetWaves wires the wave controller after construction.
func (m *Manager) SetWaves(w Waves) {
	if w == nil {
		w = nopWaves{}
	}
	m.deps.Waves = w
}

// SetMagazine wires the shooter's magazine after construction.
func (m *Manager) SetMagazine(mag Magazine) {
	if mag == nil {
		mag = nopMagazine{}
	}
	m.deps.Magazine = mag
}

// Init puts the manager in the menu state and draws the idle HUD.
func (m *Manager) Init() {
	m.state = StateMenu
	m.timeRemaining = m.settings.SessionDuration

	m.deps.Toggler.SetEnabled(ComponentShooter, false)
	m.deps.Toggler.SetEnabled(ComponentLook, false)
	m.deps.Waves.StopWaveSequence()
	m.deps.Toggler.SetEnabled(ComponentCursorLock, false)
	m.deps.Toggler.SetEnabled(ComponentStartUI, true)
	m.deps.Toggler.SetEnabled(ComponentPlayerInput, !m.playerLocked)

	m.SetWave(0)
	m.updateTimerUI()
	m.UpdateAmmoDisplay(0, 0, false)
	m.deps.HUD.Display(PanelSummary, "Press Start to begin")
}

// SetPlayerInput records the text typed into the player id field. Ignored once locked.
func (m *Manager) SetPlayerInput(text string) {
	if m.playerLocked {
		return
	}
	m.playerInput = text
}

// StartSession begins a new round from the menu or ended state.
func (m *Manager) StartSession() {
	if m.state == StateRunning {
		return
	}
	m.lockPlayerID()

	if m.round >= m.settings.MaxRounds {
		m.round = 0
		m.aggregate.Reset()
	}
	m.round++

	m.state = StateRunning
	m.startTime = m.deps.Clock.Now()
	m.startedAt = m.deps.Wall()
	m.timeRemaining = m.settings.SessionDuration

	m.counters = model.Counters{}
	m.hasLastWave1Hit = false
	m.lastWave1Hit = 0
	m.reloadActive = false
	m.reloadStart = 0
	m.wave = 1

	m.deps.Toggler.SetEnabled(ComponentShooter, true)
	m.deps.Magazine.ResetMagazine()
	m.deps.Toggler.SetEnabled(ComponentLook, true)
	m.deps.Waves.BeginWaveSequence()
	m.deps.Toggler.SetEnabled(ComponentCursorLock, true)
	m.deps.Toggler.SetEnabled(ComponentStartUI, false)
	m.deps.HUD.Display(PanelSummary, "")

	m.deps.Log.Info().Str("player", m.playerID).Int("round", m.round).Msg("session started")

	m.SetWave(1)
	m.updateTimerUI()
}

// ResetRounds abandons the current round cycle. The next start is round 1.
func (m *Manager) ResetRounds() {
	if m.state == StateRunning {
		return
	}
	m.round = 0
	m.aggregate.Reset()
}

// Tick counts the session clock down by dt seconds.
func (m *Manager) Tick(dt float64) {
	if m.state != StateRunning {
		return
	}
	m.timeRemaining -= dt
	if m.timeRemaining <= 0 {
		m.timeRemaining = 0
		m.EndSession()
		return
	}
	m.updateTimerUI()
}

// RequestSessionEndFromWave ends the session early once wave 2 is cleared.
func (m *Manager) RequestSessionEndFromWave() {
	if m.state != StateRunning {
		return
	}
	m.EndSession()
}

// EndSession stops gameplay, scores the round and persists it. No-op unless running.
func (m *Manager) EndSession() {
	if m.state != StateRunning {
		return
	}
	m.state = StateEnded

	m.deps.Toggler.SetEnabled(ComponentShooter, false)
	m.deps.Toggler.SetEnabled(ComponentLook, false)
	m.deps.Waves.StopWaveSequence()
	m.deps.Toggler.SetEnabled(ComponentCursorLock, false)
	m.deps.Toggler.SetEnabled(ComponentStartUI, true)

	elapsed := math.Max(0.01, m.deps.Clock.Now()-m.startTime)
	metrics := scoring.Compute(m.counters, elapsed)
	endedAt := m.deps.Wall()
	row := model.ResultRow{
		Timestamp: endedAt.UTC(),
		PlayerID:  m.playerID,
		Round:     m.round,
		Metrics:   metrics,
		Counters:  m.counters,
	}
	m.lastResult = &row
	m.aggregate.Add(metrics)

	if err := m.deps.Sink.Append(row); err != nil {
		m.deps.Log.Warn().Err(err).Msg("failed to write result log")
	}
	if m.deps.History != nil {
		rec := model.SessionRecord{
			StartedAt:       m.startedAt.UTC(),
			EndedAt:         endedAt.UTC(),
			SessionDuration: m.settings.SessionDuration,
			Wave1Duration:   m.settings.Wave1Duration,
			Row:             row,
		}
		if _, err := m.deps.History.InsertResult(context.Background(), rec); err != nil {
			m.deps.Log.Warn().Err(err).Msg("failed to save session history")
		}
	}

	m.deps.Log.Info().
		Str("player", m.playerID).
		Int("round", m.round).
		Float64("score", metrics.FinalScore).
		Str("rank", metrics.Rank).
		Msg("session ended")

	m.deps.HUD.Display(PanelSummary, m.summaryText(metrics))
	m.updateTimerUI()
	m.SetWave(0)
}

// SetWave switches the active wave and the matching HUD panels. Unknown indexes
// blank the wave display.
func (m *Manager) SetWave(index int) {
	m.wave = index
	title, instruction := "", ""
	flick, recoil := false, false
	switch index {
	case 1:
		title, instruction = "Wave 1: Flick", "Hit the target, it respawns."
		flick = true
	case 2:
		title, instruction = "Wave 2: Recoil", "Hold fire, keep shots tight."
		recoil = true
	}
	m.deps.HUD.Display(PanelWaveTitle, title)
	m.deps.HUD.Display(PanelWaveInstruction, instruction)
	m.deps.Toggler.SetEnabled(ComponentFlickStats, flick)
	m.deps.Toggler.SetEnabled(ComponentRecoilStats, recoil)
	m.RefreshHUD()
}

// RegisterShot counts a fired round.
func (m *Manager) RegisterShot() {
	if m.state != StateRunning {
		return
	}
	m.counters.TotalShots++
	switch m.wave {
	case 1:
		m.counters.Wave1Shots++
	case 2:
		m.counters.Wave2Shots++
	}
	m.RefreshHUD()
}

// RegisterHit counts a hit on a drill target. A false hit only refreshes the HUD.
func (m *Manager) RegisterHit(isHit bool) {
	if m.state != StateRunning {
		return
	}
	if !isHit {
		m.RefreshHUD()
		return
	}
	m.counters.TotalHits++
	switch m.wave {
	case 1:
		now := m.deps.Clock.Now()
		if m.hasLastWave1Hit {
			m.counters.SumWave1HitIntervals += now - m.lastWave1Hit
		}
		m.lastWave1Hit = now
		m.hasLastWave1Hit = true
		m.counters.Wave1Hits++
	case 2:
		m.counters.Wave2Hits++
	}
	m.RefreshHUD()
}

// RegisterRecoilMiss counts a wave 2 miss.
func (m *Manager) RegisterRecoilMiss() {
	if m.state != StateRunning || m.wave != 2 {
		return
	}
	m.counters.Wave2Misses++
	m.RefreshHUD()
}

// RegisterRecoilSample buckets a wave 2 hit by its distance from target center.
// A non-positive radius falls back to scoring.DefaultInsideRadius.
func (m *Manager) RegisterRecoilSample(hitPoint, center geom.Vec3, insideRadius float64) {
	if m.state != StateRunning || m.wave != 2 {
		return
	}
	dist := geom.Distance(hitPoint, center)
	m.counters.RecoilSamples++
	m.counters.SumRecoilError += dist

	r := insideRadius
	if r <= 0 {
		r = scoring.DefaultInsideRadius
	}
	if dist <= r {
		m.counters.Wave2InsideHits++
	} else {
		m.counters.Wave2OutsideHits++
	}
	m.RefreshHUD()
}

// RegisterReloadStarted opens a reload. A second start while one is open is ignored.
func (m *Manager) RegisterReloadStarted() {
	if m.state != StateRunning || m.reloadActive {
		return
	}
	m.reloadActive = true
	m.reloadStart = m.deps.Clock.Now()
	m.counters.ReloadCount++
}

// RegisterReloadFinished closes the open reload and adds its duration.
func (m *Manager) RegisterReloadFinished() {
	if m.state != StateRunning || !m.reloadActive {
		return
	}
	m.reloadActive = false
	m.counters.ReloadTimeSum += math.Max(0, m.deps.Clock.Now()-m.reloadStart)
}

// Snapshot returns a copy of the observable state.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{
		State:         m.state,
		Wave:          m.wave,
		Round:         m.round,
		MaxRounds:     m.settings.MaxRounds,
		TimeRemaining: m.timeRemaining,
		PlayerID:      m.playerID,
		Counters:      m.counters,
		LastResult:    m.lastResult,
		Aggregate:     m.aggregate,
	}
}

// State returns the lifecycle phase.
func (m *Manager) State() State {
	return m.state
}

// Wave returns the active wave index, 0 when idle.
func (m *Manager) Wave() int {
	return m.wave
}

func (m *Manager) lockPlayerID() {
	if m.playerLocked {
		m.deps.Toggler.SetEnabled(ComponentPlayerInput, false)
		return
	}
	id := strings.TrimSpace(m.playerInput)
	if id == "" {
		id = DefaultPlayerID
	}
	m.playerID = id
	m.playerLocked = true
	m.deps.Toggler.SetEnabled(ComponentPlayerInput, false)
}
