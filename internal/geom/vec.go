// Package geom provides the small amount of 3D vector math the drill needs.
package geom

import "math"

// Vec3 is a point or direction in world space.
type Vec3 struct {
	X, Y, Z float64
}

// V is shorthand for building a Vec3.
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale returns a * s.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// Dot returns the dot product.
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// SqrMagnitude returns the squared length.
func (a Vec3) SqrMagnitude() float64 {
	return a.Dot(a)
}

// Length returns the Euclidean length.
func (a Vec3) Length() float64 {
	return math.Sqrt(a.SqrMagnitude())
}

// Normalize returns a unit vector, or the zero vector for zero input.
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

// Distance returns |a - b|.
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Length()
}

// Lerp moves a toward b by t, clamped to [0,1].
func Lerp(a, b Vec3, t float64) Vec3 {
	t = Clamp01(t)
	return a.Add(b.Sub(a).Scale(t))
}

// Clamp01 clamps v into [0,1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Clamp clamps v into [lo,hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
