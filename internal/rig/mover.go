package rig

import "github.com/verte-zerg/aimdrill/internal/geom"

// DefaultMoveSpeed is metres per second.
const DefaultMoveSpeed = 5

// Mover walks the player on a horizontal plane. Height never changes.
type Mover struct {
	Speed float64

	pos     geom.Vec3
	spawn   geom.Vec3
	enabled bool
}

// NewMover places the player at spawn.
func NewMover(spawn geom.Vec3, speed float64) *Mover {
	if speed <= 0 {
		speed = DefaultMoveSpeed
	}
	return &Mover{Speed: speed, pos: spawn, spawn: spawn}
}

// SetEnabled gates movement input.
func (m *Mover) SetEnabled(enabled bool) {
	m.enabled = enabled
}

// Position returns the eye position.
func (m *Mover) Position() geom.Vec3 {
	return m.pos
}

// Move steps along the look's horizontal axes. strafe and forward are in [-1, 1].
func (m *Mover) Move(look *Look, strafe, forward, dt float64) {
	if !m.enabled || look == nil {
		return
	}
	f := look.Forward()
	f.Y = 0
	f = f.Normalize()
	dir := look.Right().Scale(strafe).Add(f.Scale(forward))
	next := m.pos.Add(dir.Scale(m.Speed * dt))
	next.Y = m.pos.Y
	m.pos = next
}

// Reset returns the player to spawn.
func (m *Mover) Reset() {
	m.pos = m.spawn
}
