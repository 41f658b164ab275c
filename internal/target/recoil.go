package target

import (
	"github.com/rs/zerolog"

	"github.com/verte-zerg/aimdrill/internal/arena"
	"github.com/verte-zerg/aimdrill/internal/geom"
	"github.com/verte-zerg/aimdrill/internal/scoring"
)

// DefaultHitsToDestroy matches the wave 2 default.
const DefaultHitsToDestroy = 30

// Recoil is a wave 2 target that needs sustained fire to clear.
type Recoil struct {
	world        *arena.World
	id           arena.EntityID
	log          zerolog.Logger
	insideRadius float64

	hitsToDestroy int
	currentHits   int
	destroyed     bool
	onDestroyed   func(*Recoil)
}

// NewRecoil registers an inactive recoil sphere in world.
func NewRecoil(world *arena.World, radius, insideRadius float64, log zerolog.Logger) *Recoil {
	if insideRadius <= 0 {
		insideRadius = scoring.DefaultInsideRadius
	}
	return &Recoil{
		world:         world,
		id:            world.SpawnSphere(arena.KindRecoil, geom.Vec3{}, radius),
		log:           log,
		insideRadius:  insideRadius,
		hitsToDestroy: DefaultHitsToDestroy,
	}
}

// Setup binds the destruction callback and the hit threshold.
func (r *Recoil) Setup(onDestroyed func(*Recoil), hitsToDestroy int) {
	r.onDestroyed = onDestroyed
	if hitsToDestroy > 0 {
		r.hitsToDestroy = hitsToDestroy
	}
	r.currentHits = 0
	r.destroyed = false
}

// ID returns the arena entity id.
func (r *Recoil) ID() arena.EntityID {
	return r.id
}

// ResetHits starts a new spawn cycle.
func (r *Recoil) ResetHits() {
	r.currentHits = 0
	r.destroyed = false
}

// SpawnAt moves the target, activates it and resets its hits.
func (r *Recoil) SpawnAt(pos geom.Vec3) {
	r.world.Move(r.id, pos)
	r.world.SetActive(r.id, true)
	r.ResetHits()
}

// SetActive shows or hides the target without touching its hit count.
func (r *Recoil) SetActive(active bool) {
	r.world.SetActive(r.id, active)
}

// Active reports whether the target is in play.
func (r *Recoil) Active() bool {
	e, _ := r.world.Get(r.id)
	return e.Active
}

// Center returns the point recoil samples are measured against.
func (r *Recoil) Center() geom.Vec3 {
	e, _ := r.world.Get(r.id)
	return e.Center
}

// InsideRadius is the tightness threshold for samples on this target.
func (r *Recoil) InsideRadius() float64 {
	return r.insideRadius
}

// Hits returns the hits taken in the current spawn cycle.
func (r *Recoil) Hits() int {
	return r.currentHits
}

// HitsToDestroy returns the threshold.
func (r *Recoil) HitsToDestroy() int {
	return r.hitsToDestroy
}

// Progress returns currentHits/hitsToDestroy.
func (r *Recoil) Progress() float64 {
	if r.hitsToDestroy <= 0 {
		return 0
	}
	return float64(r.currentHits) / float64(r.hitsToDestroy)
}

// OnHit counts a hit and returns the progress fraction. Reaching the threshold
// deactivates the target and reports destruction once per spawn cycle.
func (r *Recoil) OnHit() float64 {
	if r.destroyed {
		return 1
	}
	r.currentHits++
	r.log.Debug().Int("hits", r.currentHits).Int("needed", r.hitsToDestroy).Msg("recoil target hit")
	if r.currentHits < r.hitsToDestroy {
		return r.Progress()
	}
	r.destroyed = true
	r.world.SetActive(r.id, false)
	if r.onDestroyed != nil {
		r.onDestroyed(r)
	}
	return 1
}
