// Package arena holds the entities of the shooting range and answers ray queries
// against them.
package arena

import (
	"math"

	"github.com/verte-zerg/aimdrill/internal/geom"
)

// EntityID indexes the entity table.
type EntityID int

// Kind tells the shooter what a ray hit.
type Kind int

const (
	KindScenery Kind = iota
	KindFlick
	KindRecoil
)

// Shape selects the intersection routine for an entity.
type Shape int

const (
	ShapeSphere Shape = iota
	ShapePlane
)

// Entity is a row of the table. Entities are never freed, only deactivated.
type Entity struct {
	ID     EntityID
	Kind   Kind
	Shape  Shape
	Center geom.Vec3
	Radius float64
	// Normal is used by planes; Center is any point on the plane.
	Normal geom.Vec3
	Active bool
}

// Hit describes the nearest intersection of a ray.
type Hit struct {
	Point    geom.Vec3
	Normal   geom.Vec3
	Entity   EntityID
	Kind     Kind
	Distance float64
}

// World is the entity table.
type World struct {
	entities []Entity
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{}
}

// SpawnSphere adds an inactive sphere and returns its id.
func (w *World) SpawnSphere(kind Kind, center geom.Vec3, radius float64) EntityID {
	id := EntityID(len(w.entities))
	w.entities = append(w.entities, Entity{
		ID:     id,
		Kind:   kind,
		Shape:  ShapeSphere,
		Center: center,
		Radius: radius,
	})
	return id
}

// SpawnPlane adds an always-active plane, such as the floor or the backstop.
func (w *World) SpawnPlane(point, normal geom.Vec3) EntityID {
	id := EntityID(len(w.entities))
	w.entities = append(w.entities, Entity{
		ID:     id,
		Kind:   KindScenery,
		Shape:  ShapePlane,
		Center: point,
		Normal: normal.Normalize(),
		Active: true,
	})
	return id
}

// Get returns a copy of the entity and whether the id exists.
func (w *World) Get(id EntityID) (Entity, bool) {
	if id < 0 || int(id) >= len(w.entities) {
		return Entity{}, false
	}
	return w.entities[id], true
}

// Move relocates an entity.
func (w *World) Move(id EntityID, center geom.Vec3) {
	if e := w.entity(id); e != nil {
		e.Center = center
	}
}

// SetActive toggles whether an entity can be hit and drawn.
func (w *World) SetActive(id EntityID, active bool) {
	if e := w.entity(id); e != nil {
		e.Active = active
	}
}

// Active returns copies of every active entity.
func (w *World) Active() []Entity {
	out := make([]Entity, 0, len(w.entities))
	for _, e := range w.entities {
		if e.Active {
			out = append(out, e)
		}
	}
	return out
}

// CastRay returns the nearest active entity hit within maxRange.
func (w *World) CastRay(origin, dir geom.Vec3, maxRange float64) (Hit, bool) {
	dir = dir.Normalize()
	if dir == (geom.Vec3{}) || maxRange <= 0 {
		return Hit{}, false
	}
	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, e := range w.entities {
		if !e.Active {
			continue
		}
		var dist float64
		var ok bool
		switch e.Shape {
		case ShapeSphere:
			dist, ok = intersectSphere(origin, dir, e.Center, e.Radius)
		case ShapePlane:
			dist, ok = intersectPlane(origin, dir, e.Center, e.Normal)
		}
		if !ok || dist > maxRange || dist >= best.Distance {
			continue
		}
		point := origin.Add(dir.Scale(dist))
		normal := e.Normal
		if e.Shape == ShapeSphere {
			normal = point.Sub(e.Center).Normalize()
		}
		best = Hit{Point: point, Normal: normal, Entity: e.ID, Kind: e.Kind, Distance: dist}
		found = true
	}
	return best, found
}

func (w *World) entity(id EntityID) *Entity {
	if id < 0 || int(id) >= len(w.entities) {
		return nil
	}
	return &w.entities[id]
}

func intersectSphere(origin, dir, center geom.Vec3, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.SqrMagnitude() - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

func intersectPlane(origin, dir, point, normal geom.Vec3) (float64, bool) {
	den := normal.Dot(dir)
	if math.Abs(den) < 1e-9 {
		return 0, false
	}
	t := point.Sub(origin).Dot(normal) / den
	if t < 0 {
		return 0, false
	}
	return t, true
}
