package rig

import "github.com/charmbracelet/harmonica"

const (
	DefaultKickBack    = 0.12
	DefaultKickUp      = 0.06
	DefaultReturnSpeed = 12
)

// GunKick is the weapon's visual offset from rest. Each shot pushes it back and up;
// a critically damped spring returns it.
type GunKick struct {
	KickBack    float64
	KickUp      float64
	ReturnSpeed float64

	back, backVel float64
	up, upVel     float64
}

// NewGunKick returns a kick at rest with the stock tuning.
func NewGunKick() *GunKick {
	return &GunKick{
		KickBack:    DefaultKickBack,
		KickUp:      DefaultKickUp,
		ReturnSpeed: DefaultReturnSpeed,
	}
}

// Kick applies one shot's displacement.
func (g *GunKick) Kick() {
	g.back += g.KickBack
	g.up += g.KickUp
}

// Tick springs the offset back toward rest.
func (g *GunKick) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	s := harmonica.NewSpring(dt, g.ReturnSpeed, 1)
	g.back, g.backVel = s.Update(g.back, g.backVel, 0)
	g.up, g.upVel = s.Update(g.up, g.upVel, 0)
}

// Offset returns the current back and up displacement.
func (g *GunKick) Offset() (back, up float64) {
	return g.back, g.up
}
