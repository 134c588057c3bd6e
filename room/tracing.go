package room

import (
	"math"

	"github.com/fogleman/pt/pt"
)

// TraceParams contains parameters to guide tracing
type TraceParams struct {
	// A ray stops without arriving once it has been reflected more than this many times
	MaxBounces int
	// Fraction of energy kept at each reflection
	DecayFactor float64
	// Stop tracing after the reflection loses this many dB relative to the direct signal.
	//
	// Zero or positive disables the check, so only MaxBounces terminates a ray.
	GainThreshold float64
	// Reflected rays start this far along their new direction to avoid hitting the
	// surface they just left
	//
	// Distance in meters
	Epsilon float64
}

// DefaultTraceParams returns the bounce-limited policy: 10 reflections, half the
// energy lost at each.
func DefaultTraceParams() TraceParams {
	return TraceParams{
		MaxBounces:  10,
		DecayFactor: 0.5,
		Epsilon:     0.01,
	}
}

// RayState is the history of a ray up to its current segment. It is passed by value
// so every reflection works on its own copy.
type RayState struct {
	// Total distance travelled across all previous segments, in meters
	Distance float64
	// Energy this ray still carries
	Energy float64
	// Number of reflections so far
	Bounces int
}

// next returns the state after reflecting at a surface hitDistance meters away
func (s RayState) next(hitDistance, decay float64) RayState {
	return RayState{
		Distance: s.Distance + hitDistance,
		Energy:   s.Energy * decay,
		Bounces:  s.Bounces + 1,
	}
}

// AcousticPath is a ray that reached the listener
type AcousticPath struct {
	// Total distance from the source to the listener sphere, in meters
	Distance float64
	// Energy delivered to the listener
	Energy float64
	// Number of reflections on the way
	Bounces int
}

// PathSink receives arrivals. PathBuffer is the usual sink.
type PathSink interface {
	Add(path AcousticPath)
}

// exhausted reports whether a ray in this state may not be reflected again
func (p TraceParams) exhausted(s RayState) bool {
	if s.Bounces > p.MaxBounces {
		return true
	}
	if p.GainThreshold < 0 && s.Bounces > 0 {
		return toDB(math.Pow(p.DecayFactor, float64(s.Bounces))) <= p.GainThreshold
	}
	return false
}

// TraceRay follows a ray through scene until it arrives at the listener, escapes the
// scene or is exhausted.
//
// An arrival only counts when the listener sphere is closer than the nearest surface;
// a listener behind a wall is blocked and the ray reflects instead.
func TraceRay(scene Intersector, origin, direction pt.Vector, listener Listener, state RayState, params TraceParams) (AcousticPath, bool) {
	if direction.Length() == 0 || !isFinite(direction) {
		return AcousticPath{}, false
	}
	direction = direction.Normalize()
	for {
		hit := scene.Intersect(origin, direction)
		listenDist, heard := listener.Intersect(origin, direction)

		if !hit.Hit {
			if !heard {
				return AcousticPath{}, false
			}
			return arrival(state, listenDist), true
		}
		if heard && listenDist < hit.Distance {
			return arrival(state, listenDist), true
		}
		if params.exhausted(state) {
			return AcousticPath{}, false
		}

		normal := hit.Normal.Normalize()
		if direction.Dot(normal) > 0 {
			normal = normal.Negate()
		}
		reflected := reflect(direction, normal)
		verifyReflectionLaw(direction, normal, reflected)

		position := origin.Add(direction.MulScalar(hit.Distance))
		origin = position.Add(reflected.MulScalar(params.Epsilon))
		direction = reflected
		state = state.next(hit.Distance, params.DecayFactor)
	}
}

func arrival(state RayState, listenDist float64) AcousticPath {
	return AcousticPath{
		Distance: state.Distance + listenDist,
		Energy:   state.Energy,
		Bounces:  state.Bounces,
	}
}

// Trace traces a single ray and adds its arrival, if any, to sink
func Trace(scene Intersector, origin, direction pt.Vector, listener Listener, state RayState, params TraceParams, sink PathSink) bool {
	path, ok := TraceRay(scene, origin, direction, listener, state, params)
	if ok {
		sink.Add(path)
	}
	return ok
}
