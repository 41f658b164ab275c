// Package shoot is the weapon: magazine, fire interval, reload and hit
// classification against the arena.
package shoot

import (
	"github.com/rs/zerolog"

	"github.com/verte-zerg/aimdrill/internal/arena"
	"github.com/verte-zerg/aimdrill/internal/geom"
	"github.com/verte-zerg/aimdrill/internal/target"
	"github.com/verte-zerg/aimdrill/internal/timer"
)

const (
	DefaultRange          = 100
	DefaultFireRate       = 10
	DefaultMagazine       = 30
	DefaultReloadDuration = 0.2
	DefaultRecoilUp       = 2
	DefaultRecoilSide     = 1
	TracerDuration        = 0.04
)

// Tracker receives shot events. The session manager implements it.
type Tracker interface {
	RegisterShot()
	RegisterHit(isHit bool)
	RegisterRecoilMiss()
	RegisterRecoilSample(hitPoint, center geom.Vec3, insideRadius float64)
	RegisterReloadStarted()
	RegisterReloadFinished()
	UpdateAmmoDisplay(current, max int, showReloadHint bool)
}

// Aim is the view the ray is cast along.
type Aim interface {
	Forward() geom.Vec3
	AddRecoil(pitchUp, yaw float64)
}

// Kicker animates the weapon on each shot.
type Kicker interface {
	Kick()
}

// Settings tunes the weapon.
type Settings struct {
	Range          float64
	FireRate       float64
	Magazine       int
	ReloadDuration float64
	RecoilUp       float64
	RecoilSide     float64
}

// DefaultSettings returns the stock rifle.
func DefaultSettings() Settings {
	return Settings{
		Range:          DefaultRange,
		FireRate:       DefaultFireRate,
		Magazine:       DefaultMagazine,
		ReloadDuration: DefaultReloadDuration,
		RecoilUp:       DefaultRecoilUp,
		RecoilSide:     DefaultRecoilSide,
	}
}

func (s Settings) normalized() Settings {
	def := DefaultSettings()
	if s.Range <= 0 {
		s.Range = def.Range
	}
	if s.FireRate <= 0 {
		s.FireRate = def.FireRate
	}
	if s.Magazine <= 0 {
		s.Magazine = def.Magazine
	}
	if s.ReloadDuration < 0 {
		s.ReloadDuration = 0
	}
	return s
}

// Input is the trigger state for one tick.
type Input struct {
	Fire   bool
	Reload bool
}

// Tracer is the last shot's visible line.
type Tracer struct {
	From geom.Vec3
	To   geom.Vec3
}

// Controller is the weapon. It is ticked from the drill loop.
type Controller struct {
	settings Settings
	world    *arena.World
	tracker  Tracker
	aim      Aim
	origin   func() geom.Vec3
	kicker   Kicker
	rnd      arena.Rand
	log      zerolog.Logger

	flicks  map[arena.EntityID]*target.Flick
	recoils map[arena.EntityID]*target.Recoil

	enabled      bool
	now          float64
	nextFireTime float64
	bullets      int
	reloading    bool
	reload       timer.Countdown

	tracer      Tracer
	tracerTimer timer.Countdown
}

// Options are the collaborators of a Controller.
type Options struct {
	World   *arena.World
	Tracker Tracker
	Aim     Aim
	// Origin returns the eye position rays start from.
	Origin func() geom.Vec3
	Kicker Kicker
	Rand   arena.Rand
	Log    zerolog.Logger
}

// New builds a weapon with a full magazine.
func New(settings Settings, opts Options) *Controller {
	settings = settings.normalized()
	c := &Controller{
		settings: settings,
		world:    opts.World,
		tracker:  opts.Tracker,
		aim:      opts.Aim,
		origin:   opts.Origin,
		kicker:   opts.Kicker,
		rnd:      opts.Rand,
		log:      opts.Log,
		flicks:   map[arena.EntityID]*target.Flick{},
		recoils:  map[arena.EntityID]*target.Recoil{},
		bullets:  settings.Magazine,
	}
	if c.tracker == nil {
		c.tracker = nopTracker{}
	}
	if c.origin == nil {
		c.origin = func() geom.Vec3 { return geom.Vec3{} }
	}
	if c.rnd == nil {
		c.rnd = arena.NewRand()
	}
	return c
}

// SetTracker wires the session after construction.
func (c *Controller) SetTracker(t Tracker) {
	if t == nil {
		t = nopTracker{}
	}
	c.tracker = t
}

// AddFlick lets rays resolve hits on f.
func (c *Controller) AddFlick(f *target.Flick) {
	if f != nil {
		c.flicks[f.ID()] = f
	}
}

// AddRecoil lets rays resolve hits on r.
func (c *Controller) AddRecoil(r *target.Recoil) {
	if r != nil {
		c.recoils[r.ID()] = r
	}
}

// SetEnabled gates trigger and reload input. Timers keep running while disabled.
func (c *Controller) SetEnabled(enabled bool) {
	c.enabled = enabled
}

// Enabled reports whether input is accepted.
func (c *Controller) Enabled() bool {
	return c.enabled
}

// Bullets returns the rounds left in the magazine.
func (c *Controller) Bullets() int {
	return c.bullets
}

// Magazine returns the magazine capacity.
func (c *Controller) Magazine() int {
	return c.settings.Magazine
}

// Reloading reports whether a reload is in progress.
func (c *Controller) Reloading() bool {
	return c.reloading
}

// Tracer returns the visible tracer, if any.
func (c *Controller) Tracer() (Tracer, bool) {
	return c.tracer, c.tracerTimer.Running()
}

// ResetMagazine refills instantly. A reload in progress ends here and is
// reported as finished so the tracker never holds an open reload.
func (c *Controller) ResetMagazine() {
	c.reload.Stop()
	if c.reloading {
		c.reloading = false
		c.tracker.RegisterReloadFinished()
	}
	c.bullets = c.settings.Magazine
	c.tracker.UpdateAmmoDisplay(c.bullets, c.settings.Magazine, false)
}

// Tick advances the weapon clock by dt and handles this tick's input.
func (c *Controller) Tick(dt float64, in Input) {
	c.now += dt
	c.reload.Tick(dt)
	c.tracerTimer.Tick(dt)

	if !c.enabled {
		return
	}
	if in.Reload {
		c.StartReload()
	}
	if in.Fire && c.now >= c.nextFireTime {
		c.TryFire()
	}
}

// StartReload begins a reload unless one is running or the magazine is full.
func (c *Controller) StartReload() bool {
	if c.reloading || c.bullets == c.settings.Magazine {
		return false
	}
	c.reloading = true
	c.tracker.RegisterReloadStarted()
	c.log.Debug().Int("bullets", c.bullets).Msg("reload started")
	c.reload.Start(c.settings.ReloadDuration, c.finishReload)
	if c.settings.ReloadDuration == 0 {
		c.reload.Tick(0)
	}
	return true
}

func (c *Controller) finishReload() {
	c.bullets = c.settings.Magazine
	c.reloading = false
	c.tracker.RegisterReloadFinished()
	c.tracker.UpdateAmmoDisplay(c.bullets, c.settings.Magazine, false)
}

// TryFire fires one round if possible and reports whether a shot left the barrel.
// An empty magazine only shows the reload hint.
func (c *Controller) TryFire() bool {
	if c.reloading {
		return false
	}
	if c.bullets <= 0 {
		c.tracker.UpdateAmmoDisplay(c.bullets, c.settings.Magazine, true)
		return false
	}

	c.nextFireTime = c.now + 1/c.settings.FireRate
	c.bullets--

	c.tracker.RegisterShot()
	c.tracker.UpdateAmmoDisplay(c.bullets, c.settings.Magazine, c.bullets == 0)

	c.fireRay()

	if c.kicker != nil {
		c.kicker.Kick()
	}
	if c.aim != nil {
		side := c.rnd.Uniform(-c.settings.RecoilSide, c.settings.RecoilSide)
		c.aim.AddRecoil(c.settings.RecoilUp, side)
	}
	return true
}

func (c *Controller) fireRay() {
	if c.world == nil || c.aim == nil {
		return
	}
	origin := c.origin()
	dir := c.aim.Forward()
	hit, ok := c.world.CastRay(origin, dir, c.settings.Range)

	end := origin.Add(dir.Normalize().Scale(c.settings.Range))
	if ok {
		end = hit.Point
	}
	c.tracer = Tracer{From: origin, To: end}
	c.tracerTimer.Start(TracerDuration, nil)

	if !ok {
		c.tracker.RegisterRecoilMiss()
		return
	}

	recoil := c.recoils[hit.Entity]
	flick := c.flicks[hit.Entity]
	switch {
	case recoil != nil:
		c.tracker.RegisterHit(true)
		c.tracker.RegisterRecoilSample(facePoint(origin, dir, recoil.Center()), recoil.Center(), recoil.InsideRadius())
	case flick != nil:
		c.tracker.RegisterHit(true)
	default:
		c.tracker.RegisterHit(false)
		c.tracker.RegisterRecoilMiss()
	}

	if flick != nil {
		flick.OnHit()
	}
	if recoil != nil {
		recoil.OnHit()
	}
}

// facePoint is where the ray crosses the plane through center facing the shooter.
// Its distance from center is the aim error on the target's face.
func facePoint(origin, dir, center geom.Vec3) geom.Vec3 {
	d := dir.Normalize()
	return origin.Add(d.Scale(center.Sub(origin).Dot(d)))
}

type nopTracker struct{}

func (nopTracker) RegisterShot()                                      {}
func (nopTracker) RegisterHit(bool)                                   {}
func (nopTracker) RegisterRecoilMiss()                                {}
func (nopTracker) RegisterRecoilSample(geom.Vec3, geom.Vec3, float64) {}
func (nopTracker) RegisterReloadStarted()                             {}
func (nopTracker) RegisterReloadFinished()                            {}
func (nopTracker) UpdateAmmoDisplay(int, int, bool)                   {}
