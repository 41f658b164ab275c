// Package drill assembles the range, targets, waves, session, weapon and player rig
// into one tick-driven simulation.
package drill

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/aimdrill/internal/arena"
	"github.com/verte-zerg/aimdrill/internal/geom"
	"github.com/verte-zerg/aimdrill/internal/model"
	"github.com/verte-zerg/aimdrill/internal/rig"
	"github.com/verte-zerg/aimdrill/internal/session"
	"github.com/verte-zerg/aimdrill/internal/shoot"
	"github.com/verte-zerg/aimdrill/internal/target"
	"github.com/verte-zerg/aimdrill/internal/wave"
)

const (
	// TargetRadius is the size of both target kinds.
	TargetRadius = 0.5
	// EyeHeight is the fixed camera height above the floor.
	EyeHeight = 1.6
	// BackstopDistance places the wall behind the spawn volume.
	BackstopDistance = 25
	recoilTargets    = 2
)

// DefaultConfig returns the stock drill settings.
func DefaultConfig() model.Config {
	return model.Config{
		SessionDuration: 90,
		MaxRounds:       1,
		Wave1Duration:   30,
		Wave2Hits:       target.DefaultHitsToDestroy,
		Wave2Spacing:    3,
		InsideRadius:    0.15,
		Magazine:        shoot.DefaultMagazine,
		FireRate:        shoot.DefaultFireRate,
		ReloadDuration:  shoot.DefaultReloadDuration,
		Range:           shoot.DefaultRange,
		Sensitivity:     rig.DefaultSensitivity,
		MoveSpeed:       rig.DefaultMoveSpeed,
		FPS:             60,
	}
}

// Input is the player's controls for one tick. Axes are in [-1, 1].
type Input struct {
	LookX   float64
	LookY   float64
	Strafe  float64
	Forward float64
	Fire    bool
	Reload  bool
}

// Options are the outside collaborators of a drill. Nil fields degrade to no-ops.
type Options struct {
	Sink    session.Sink
	History session.History
	Rand    arena.Rand
	Wall    func() time.Time
	Log     zerolog.Logger
}

// Drill is the composition root. It is driven from a single goroutine.
type Drill struct {
	cfg   model.Config
	log   zerolog.Logger
	clock *session.ManualClock

	world   *arena.World
	flick   *target.Flick
	recoil  []*target.Recoil
	waves   *wave.Controller
	session *session.Manager
	gun     *shoot.Controller
	look    *rig.Look
	mover   *rig.Mover
	kick    *rig.GunKick

	panels  *Panels
	toggles *toggles
}

// New builds and wires a drill. Call Init before the first tick.
func New(cfg model.Config, opts Options) *Drill {
	rnd := opts.Rand
	if rnd == nil {
		rnd = arena.NewRand()
	}
	d := &Drill{
		cfg:    cfg,
		log:    opts.Log,
		clock:  &session.ManualClock{},
		world:  arena.NewWorld(),
		look:   rig.NewLook(cfg.Sensitivity),
		kick:   rig.NewGunKick(),
		panels: newPanels(),
	}
	d.mover = rig.NewMover(geom.V(0, EyeHeight, 0), cfg.MoveSpeed)

	d.world.SpawnPlane(geom.V(0, 0, 0), geom.V(0, 1, 0))
	d.world.SpawnPlane(geom.V(0, 0, BackstopDistance), geom.V(0, 0, -1))

	ws := wave.DefaultSettings()
	ws.Wave1Duration = cfg.Wave1Duration
	ws.Wave2Hits = cfg.Wave2Hits
	ws.MinSpacing = cfg.Wave2Spacing

	d.flick = target.NewFlick(d.world, ws.Wave1Area, TargetRadius, rnd, d.log)
	for i := 0; i < recoilTargets; i++ {
		d.recoil = append(d.recoil, target.NewRecoil(d.world, TargetRadius, cfg.InsideRadius, d.log))
	}
	d.waves = wave.New(ws, d.flick, d.recoil, rnd, d.log)

	d.gun = shoot.New(shoot.Settings{
		Range:          cfg.Range,
		FireRate:       cfg.FireRate,
		Magazine:       cfg.Magazine,
		ReloadDuration: cfg.ReloadDuration,
		RecoilUp:       shoot.DefaultRecoilUp,
		RecoilSide:     shoot.DefaultRecoilSide,
	}, shoot.Options{
		World:  d.world,
		Aim:    d.look,
		Origin: d.mover.Position,
		Kicker: d.kick,
		Rand:   rnd,
		Log:    d.log,
	})
	d.gun.AddFlick(d.flick)
	for _, r := range d.recoil {
		d.gun.AddRecoil(r)
	}

	d.toggles = &toggles{gun: d.gun, look: d.look, mover: d.mover, visible: map[session.Component]bool{}}
	d.session = session.New(session.Settings{
		SessionDuration: cfg.SessionDuration,
		MaxRounds:       cfg.MaxRounds,
		Wave1Duration:   cfg.Wave1Duration,
	}, session.Deps{
		Clock:    d.clock,
		HUD:      d.panels,
		Toggler:  d.toggles,
		Waves:    d.waves,
		Magazine: d.gun,
		Sink:     opts.Sink,
		History:  opts.History,
		Wall:     opts.Wall,
		Log:      d.log,
	})

	d.waves.SetSession(d.session)
	d.waves.SetMagazine(d.gun)
	d.gun.SetTracker(d.session)
	return d
}

// Init shows the menu.
func (d *Drill) Init() {
	d.session.Init()
}

// SetPlayer records the typed player id. It is ignored once the first session starts.
func (d *Drill) SetPlayer(id string) {
	d.session.SetPlayerInput(id)
}

// Start begins a session from the menu or the summary screen.
func (d *Drill) Start() {
	if d.session.State() == session.StateRunning {
		return
	}
	d.mover.Reset()
	d.look.LookAt(d.aimPoint().Sub(d.mover.Position()))
	d.session.StartSession()
}

// ResetRounds abandons the current round cycle.
func (d *Drill) ResetRounds() {
	d.session.ResetRounds()
}

// Tick advances the simulation by dt seconds.
func (d *Drill) Tick(dt float64, in Input) {
	if dt < 0 {
		dt = 0
	}
	d.clock.Advance(dt)

	d.look.Apply(in.LookX, in.LookY, dt)
	d.mover.Move(d.look, in.Strafe, in.Forward, dt)
	d.gun.Tick(dt, shoot.Input{Fire: in.Fire, Reload: in.Reload})
	d.kick.Tick(dt)
	d.flick.Tick(dt)
	d.waves.Tick(dt)
	d.session.Tick(dt)
}

// Session exposes the session manager for read access.
func (d *Drill) Session() *session.Manager {
	return d.session
}

// Look exposes the player's view.
func (d *Drill) Look() *rig.Look {
	return d.look
}

// Eye returns the camera position.
func (d *Drill) Eye() geom.Vec3 {
	return d.mover.Position()
}

// Config returns the settings the drill was built with.
func (d *Drill) Config() model.Config {
	return d.cfg
}

func (d *Drill) aimPoint() geom.Vec3 {
	return wave.DefaultSettings().Wave1Area.Center
}
