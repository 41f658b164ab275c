package arena

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/aimdrill/internal/geom"
)

// Rand supplies uniform samples in [min, max).
type Rand interface {
	Uniform(min, max float64) float64
}

// MathRand adapts math/rand to Rand.
type MathRand struct {
	rnd *rand.Rand
}

// NewRand returns a Rand seeded with the current time.
func NewRand() *MathRand {
	return NewSeededRand(time.Now().UnixNano())
}

// NewSeededRand returns a deterministic Rand.
func NewSeededRand(seed int64) *MathRand {
	return &MathRand{rnd: rand.New(rand.NewSource(seed))}
}

// Uniform implements Rand.
func (r *MathRand) Uniform(min, max float64) float64 {
	return min + r.rnd.Float64()*(max-min)
}

// Box is an axis-aligned spawn volume.
type Box struct {
	Center geom.Vec3
	Size   geom.Vec3
}

// Sample returns an independent uniform point inside the box.
func (b Box) Sample(r Rand) geom.Vec3 {
	return geom.Vec3{
		X: b.Center.X + r.Uniform(-b.Size.X*0.5, b.Size.X*0.5),
		Y: b.Center.Y + r.Uniform(-b.Size.Y*0.5, b.Size.Y*0.5),
		Z: b.Center.Z + r.Uniform(-b.Size.Z*0.5, b.Size.Z*0.5),
	}
}

// Contains reports whether p lies inside the box, edges included.
func (b Box) Contains(p geom.Vec3) bool {
	h := b.Size.Scale(0.5)
	d := p.Sub(b.Center)
	return d.X >= -h.X && d.X <= h.X &&
		d.Y >= -h.Y && d.Y <= h.Y &&
		d.Z >= -h.Z && d.Z <= h.Z
}
