package room

import (
	"math"

	"github.com/fogleman/pt/pt"
)

// Listener is the capture sphere that records arriving rays
type Listener struct {
	Position pt.Vector
	// Rays passing within Radius meters of Position are recorded as arrivals
	Radius float64
}

// Intersect returns the distance along the ray to the listener sphere
func (l Listener) Intersect(origin, direction pt.Vector) (float64, bool) {
	return SphereHit(origin, direction, l.Position, l.Radius)
}

// SphereHit solves |origin + t*direction - center| = radius for the nearest positive t.
//
// direction need not be unit length; t is in units of direction. Degenerate input
// (zero direction, negative discriminant, sphere entirely behind the origin) reports
// no intersection.
func SphereHit(origin, direction, center pt.Vector, radius float64) (float64, bool) {
	a := direction.Dot(direction)
	if a == 0 || radius <= 0 {
		return 0, false
	}
	oc := origin.Sub(center)
	b := 2 * direction.Dot(oc)
	c := oc.Dot(oc) - radius*radius
	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}
	sq := math.Sqrt(discriminant)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	switch {
	case t1 > 0:
		return t1, true
	case t2 > 0:
		return t2, true
	}
	return 0, false
}
