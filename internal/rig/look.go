// Package rig models the player's body: view angles, planar movement and the
// weapon's kick offset.
package rig

import (
	"math"

	"github.com/verte-zerg/aimdrill/internal/geom"
)

const (
	// DefaultSensitivity is degrees per second at full axis deflection.
	DefaultSensitivity = 120
	// PitchLimit clamps the view pitch in degrees either side of level.
	PitchLimit = 80
)

// Look holds the camera angles. Positive pitch looks up, positive yaw turns right.
type Look struct {
	Sensitivity float64

	pitch   float64
	yaw     float64
	enabled bool
}

// NewLook returns a level look facing +Z.
func NewLook(sensitivity float64) *Look {
	if sensitivity <= 0 {
		sensitivity = DefaultSensitivity
	}
	return &Look{Sensitivity: sensitivity}
}

// SetEnabled gates axis input. Recoil is applied regardless.
func (l *Look) SetEnabled(enabled bool) {
	l.enabled = enabled
}

// Enabled reports whether axis input is applied.
func (l *Look) Enabled() bool {
	return l.enabled
}

// Apply turns the view by axis deflections in [-1, 1] over dt seconds.
func (l *Look) Apply(axisX, axisY, dt float64) {
	if !l.enabled {
		return
	}
	l.yaw = wrapDegrees(l.yaw + axisX*l.Sensitivity*dt)
	l.pitch = geom.Clamp(l.pitch+axisY*l.Sensitivity*dt, -PitchLimit, PitchLimit)
}

// AddRecoil kicks the view up by pitchUp degrees and sideways by yaw degrees.
func (l *Look) AddRecoil(pitchUp, yaw float64) {
	l.pitch = geom.Clamp(l.pitch+pitchUp, -PitchLimit, PitchLimit)
	l.yaw = wrapDegrees(l.yaw + yaw)
}

// LookAt turns the view toward dir. A zero dir leaves the view unchanged.
func (l *Look) LookAt(dir geom.Vec3) {
	n := dir.Normalize()
	if n == (geom.Vec3{}) {
		return
	}
	l.yaw = math.Atan2(n.X, n.Z) * 180 / math.Pi
	l.pitch = geom.Clamp(math.Asin(geom.Clamp(n.Y, -1, 1))*180/math.Pi, -PitchLimit, PitchLimit)
}

// Reset levels the view and faces +Z.
func (l *Look) Reset() {
	l.pitch = 0
	l.yaw = 0
}

// Pitch returns the pitch in degrees.
func (l *Look) Pitch() float64 {
	return l.pitch
}

// Yaw returns the yaw in degrees.
func (l *Look) Yaw() float64 {
	return l.yaw
}

// Forward returns the unit view direction.
func (l *Look) Forward() geom.Vec3 {
	p := l.pitch * math.Pi / 180
	y := l.yaw * math.Pi / 180
	return geom.V(math.Cos(p)*math.Sin(y), math.Sin(p), math.Cos(p)*math.Cos(y))
}

// Right returns the unit horizontal direction to the right of the view.
func (l *Look) Right() geom.Vec3 {
	y := l.yaw * math.Pi / 180
	return geom.V(math.Cos(y), 0, -math.Sin(y))
}

// Up returns the unit direction above the view.
func (l *Look) Up() geom.Vec3 {
	f := l.Forward()
	r := l.Right()
	// up = forward x right
	return geom.V(
		f.Y*r.Z-f.Z*r.Y,
		f.Z*r.X-f.X*r.Z,
		f.X*r.Y-f.Y*r.X,
	).Normalize()
}

func wrapDegrees(v float64) float64 {
	v = math.Mod(v, 360)
	if v > 180 {
		v -= 360
	} else if v <= -180 {
		v += 360
	}
	return v
}
