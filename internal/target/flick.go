// Package target implements the two target kinds of the drill.
package target

import (
	"github.com/rs/zerolog"

	"github.com/verte-zerg/aimdrill/internal/arena"
	"github.com/verte-zerg/aimdrill/internal/geom"
	"github.com/verte-zerg/aimdrill/internal/timer"
)

// FlashDuration is how long a flick target stays highlighted after a hit.
const FlashDuration = 0.05

// Flick is the single wave 1 target. It is never destroyed; every hit moves it.
type Flick struct {
	world *arena.World
	id    arena.EntityID
	box   arena.Box
	rnd   arena.Rand
	log   zerolog.Logger

	flash timer.Countdown

	// OnRespawn, when set, is told the new center after every relocation.
	OnRespawn func(center geom.Vec3)
}

// NewFlick registers an inactive flick sphere in world.
func NewFlick(world *arena.World, box arena.Box, radius float64, rnd arena.Rand, log zerolog.Logger) *Flick {
	id := world.SpawnSphere(arena.KindFlick, box.Center, radius)
	return &Flick{world: world, id: id, box: box, rnd: rnd, log: log}
}

// ID returns the arena entity id.
func (f *Flick) ID() arena.EntityID {
	return f.id
}

// Center returns the current world position.
func (f *Flick) Center() geom.Vec3 {
	e, _ := f.world.Get(f.id)
	return e.Center
}

// Active reports whether the target is in play.
func (f *Flick) Active() bool {
	e, _ := f.world.Get(f.id)
	return e.Active
}

// SetActive shows or hides the target.
func (f *Flick) SetActive(active bool) {
	f.world.SetActive(f.id, active)
	if !active {
		f.flash.Stop()
	}
}

// Respawn moves the target to a fresh uniform point in its box.
func (f *Flick) Respawn() {
	pos := f.box.Sample(f.rnd)
	f.world.Move(f.id, pos)
	f.log.Debug().
		Float64("x", pos.X).
		Float64("y", pos.Y).
		Float64("z", pos.Z).
		Msg("flick target respawned")
	if f.OnRespawn != nil {
		f.OnRespawn(pos)
	}
}

// OnHit flashes the target and relocates it.
func (f *Flick) OnHit() {
	f.flash.Start(FlashDuration, nil)
	f.Respawn()
}

// Tick advances the flash timer.
func (f *Flick) Tick(dt float64) {
	f.flash.Tick(dt)
}

// Flashing reports whether the hit flash is showing.
func (f *Flick) Flashing() bool {
	return f.flash.Running()
}
