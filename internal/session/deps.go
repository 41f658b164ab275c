package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/aimdrill/internal/model"
)

// Panel names a HUD text slot.
type Panel string

const (
	PanelTimer           Panel = "timer"
	PanelAccuracy        Panel = "accuracy"
	PanelWaveTitle       Panel = "wave-title"
	PanelWaveInstruction Panel = "wave-instruction"
	PanelAmmo            Panel = "ammo"
	PanelFlickStats      Panel = "flick-stats"
	PanelRecoilStats     Panel = "recoil-stats"
	PanelSummary         Panel = "summary"
)

// Component names something the session switches on and off.
type Component string

const (
	ComponentShooter     Component = "shooter"
	ComponentLook        Component = "look"
	ComponentCursorLock  Component = "cursor-lock"
	ComponentStartUI     Component = "start-ui"
	ComponentPlayerInput Component = "player-input"
	ComponentFlickStats  Component = "flick-stats"
	ComponentRecoilStats Component = "recoil-stats"
)

// Clock returns monotonic seconds.
type Clock interface {
	Now() float64
}

// HUD shows text in a panel.
type HUD interface {
	Display(panel Panel, text string)
}

// Toggler enables or disables a component.
type Toggler interface {
	SetEnabled(component Component, enabled bool)
}

// Waves is the wave controller as seen by the session.
type Waves interface {
	BeginWaveSequence()
	StopWaveSequence()
}

// Magazine is refilled at session start.
type Magazine interface {
	ResetMagazine()
}

// Sink persists completed sessions.
type Sink interface {
	Append(row model.ResultRow) error
}

// History mirrors completed sessions into a queryable store.
type History interface {
	InsertResult(ctx context.Context, rec model.SessionRecord) (string, error)
}

// Deps are the collaborators of a Manager. Nil fields get no-op stand-ins.
type Deps struct {
	Clock    Clock
	HUD      HUD
	Toggler  Toggler
	Waves    Waves
	Magazine Magazine
	Sink     Sink
	History  History
	// Wall stamps result rows; defaults to time.Now.
	Wall func() time.Time
	Log  zerolog.Logger
}

func (d *Deps) fill() {
	if d.Clock == nil {
		d.Clock = &ManualClock{}
	}
	if d.HUD == nil {
		d.HUD = nopHUD{}
	}
	if d.Toggler == nil {
		d.Toggler = nopToggler{}
	}
	if d.Waves == nil {
		d.Waves = nopWaves{}
	}
	if d.Magazine == nil {
		d.Magazine = nopMagazine{}
	}
	if d.Sink == nil {
		d.Sink = nopSink{}
	}
	if d.Wall == nil {
		d.Wall = time.Now
	}
}

// ManualClock is advanced explicitly by the driver loop.
type ManualClock struct {
	t float64
}

// Now implements Clock.
func (c *ManualClock) Now() float64 {
	return c.t
}

// Advance moves the clock forward by dt seconds.
func (c *ManualClock) Advance(dt float64) {
	c.t += dt
}

type nopHUD struct{}

func (nopHUD) Display(Panel, string) {}

type nopToggler struct{}

func (nopToggler) SetEnabled(Component, bool) {}

type nopWaves struct{}

func (nopWaves) BeginWaveSequence() {}
func (nopWaves) StopWaveSequence()  {}

type nopMagazine struct{}

func (nopMagazine) ResetMagazine() {}

type nopSink struct{}

func (nopSink) Append(model.ResultRow) error { return nil }
