// Package wave sequences the drill: a timed flick phase followed by a recoil phase
// that ends when every recoil target is cleared.
package wave

import (
	"github.com/rs/zerolog"

	"github.com/verte-zerg/aimdrill/internal/arena"
	"github.com/verte-zerg/aimdrill/internal/geom"
	"github.com/verte-zerg/aimdrill/internal/target"
)

// State is the controller phase. Values double as the wave index reported to the session.
type State int

const (
	StateInactive State = iota
	StateWave1
	StateWave2
)

const (
	// MaxSpacingAttempts bounds rejection sampling for the second recoil target.
	MaxSpacingAttempts = 20
	maxWave2Targets    = 2
)

// SessionNotifier receives wave changes and the end-of-drill signal.
type SessionNotifier interface {
	SetWave(index int)
	RequestSessionEndFromWave()
}

// MagazineRefiller is told to refill when wave 2 starts.
type MagazineRefiller interface {
	ResetMagazine()
}

// Settings configures wave timing and spawn volumes.
type Settings struct {
	Wave1Duration float64
	Wave2Hits     int
	MinSpacing    float64
	Wave1Area     arena.Box
	Wave2Area     arena.Box
}

// DefaultSettings returns the stock drill layout.
func DefaultSettings() Settings {
	area := arena.Box{Center: geom.V(0, 1.5, 15), Size: geom.V(8, 3, 2)}
	return Settings{
		Wave1Duration: 30,
		Wave2Hits:     target.DefaultHitsToDestroy,
		MinSpacing:    3,
		Wave1Area:     area,
		Wave2Area:     area,
	}
}

// Controller owns the wave state and the targets.
type Controller struct {
	settings Settings
	flick    *target.Flick
	recoil   []*target.Recoil
	rnd      arena.Rand
	log      zerolog.Logger

	session  SessionNotifier
	magazine MagazineRefiller

	state       State
	elapsed     float64
	activeCount int
	destroyed   int
}

// New builds a controller. flick may be nil and recoil may be empty; the missing
// phase then simply has nothing to shoot.
func New(settings Settings, flick *target.Flick, recoil []*target.Recoil, rnd arena.Rand, log zerolog.Logger) *Controller {
	c := &Controller{
		settings: settings,
		flick:    flick,
		rnd:      rnd,
		log:      log,
		session:  nopSession{},
		magazine: nopMagazine{},
	}
	for _, r := range recoil {
		if r == nil {
			continue
		}
		r.Setup(c.OnWave2TargetDestroyed, settings.Wave2Hits)
		c.recoil = append(c.recoil, r)
	}
	return c
}

// SetSession wires the session manager.
func (c *Controller) SetSession(s SessionNotifier) {
	if s == nil {
		s = nopSession{}
	}
	c.session = s
}

// SetMagazine wires the shooter's magazine.
func (c *Controller) SetMagazine(m MagazineRefiller) {
	if m == nil {
		m = nopMagazine{}
	}
	c.magazine = m
}

// State returns the current phase.
func (c *Controller) State() State {
	return c.state
}

// Elapsed returns seconds since the sequence began.
func (c *Controller) Elapsed() float64 {
	return c.elapsed
}

// ActiveWave2Targets returns how many recoil targets are still standing.
func (c *Controller) ActiveWave2Targets() int {
	return c.activeCount
}

// Destroyed returns recoil targets cleared since the sequence began.
func (c *Controller) Destroyed() int {
	return c.destroyed
}

// Flick returns the wave 1 target, possibly nil.
func (c *Controller) Flick() *target.Flick {
	return c.flick
}

// Recoil returns the wave 2 targets.
func (c *Controller) Recoil() []*target.Recoil {
	return c.recoil
}

// BeginWaveSequence starts wave 1.
func (c *Controller) BeginWaveSequence() {
	c.state = StateWave1
	c.elapsed = 0
	c.destroyed = 0
	c.activeCount = 0
	c.log.Debug().Msg("wave sequence started")

	if c.flick != nil {
		c.flick.SetActive(true)
		c.flick.Respawn()
	}
	for _, r := range c.recoil {
		r.SetActive(false)
	}
	c.session.SetWave(int(StateWave1))
}

// Tick advances the sequence clock and starts wave 2 when wave 1 has run its course.
func (c *Controller) Tick(dt float64) {
	if c.state == StateInactive {
		return
	}
	c.elapsed += dt
	if c.state == StateWave1 && c.elapsed >= c.settings.Wave1Duration {
		c.startWaveTwo()
	}
}

// StopWaveSequence hides every target and returns to inactive. Safe from any state.
func (c *Controller) StopWaveSequence() {
	if c.state != StateInactive {
		c.log.Debug().Msg("wave sequence stopped")
	}
	c.state = StateInactive
	c.activeCount = 0
	if c.flick != nil {
		c.flick.SetActive(false)
	}
	for _, r := range c.recoil {
		r.SetActive(false)
	}
}

// OnWave2TargetDestroyed counts down standing targets and ends the drill at zero.
// Callbacks outside wave 2 are ignored.
func (c *Controller) OnWave2TargetDestroyed(_ *target.Recoil) {
	if c.state != StateWave2 {
		return
	}
	c.activeCount--
	c.destroyed++
	c.log.Debug().Int("remaining", c.activeCount).Msg("wave two target destroyed")
	if c.activeCount > 0 {
		return
	}
	c.state = StateInactive
	c.session.RequestSessionEndFromWave()
}

func (c *Controller) startWaveTwo() {
	c.state = StateWave2
	c.log.Debug().Msg("wave two started")
	if c.flick != nil {
		c.flick.SetActive(false)
	}
	c.spawnWave2Targets()
	c.magazine.ResetMagazine()
	c.session.SetWave(int(StateWave2))
}

func (c *Controller) spawnWave2Targets() {
	c.activeCount = 0
	if len(c.recoil) == 0 {
		return
	}
	first := c.settings.Wave2Area.Sample(c.rnd)
	c.recoil[0].SpawnAt(first)
	c.activeCount++

	if len(c.recoil) >= maxWave2Targets {
		second := SecondSpawn(first, c.settings.Wave2Area, c.settings.MinSpacing, c.rnd)
		c.recoil[1].SpawnAt(second)
		c.activeCount++
	}
	c.log.Debug().Int("active", c.activeCount).Msg("wave two targets spawned")
}

// SecondSpawn picks a point at least minSpacing from first, falling back to a fixed
// +x offset when every attempt lands too close.
func SecondSpawn(first geom.Vec3, area arena.Box, minSpacing float64, rnd arena.Rand) geom.Vec3 {
	minSqr := minSpacing * minSpacing
	for attempt := 0; attempt < MaxSpacingAttempts; attempt++ {
		candidate := area.Sample(rnd)
		if candidate.Sub(first).SqrMagnitude() >= minSqr {
			return candidate
		}
	}
	return first.Add(geom.V(minSpacing, 0, 0))
}

type nopSession struct{}

func (nopSession) SetWave(int)                {}
func (nopSession) RequestSessionEndFromWave() {}

type nopMagazine struct{}

func (nopMagazine) ResetMagazine() {}
