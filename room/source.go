package room

import (
	"math"
	"math/rand"
	"sort"

	"github.com/fogleman/pt/pt"
	lin "github.com/sgreben/piecewiselinear"
)

// UniformSphereDirection maps two uniform samples in [0, 1) to a unit vector uniformly
// distributed over the sphere.
func UniformSphereDirection(u1, u2 float64) pt.Vector {
	theta := 2 * math.Pi * u1
	phi := math.Acos(1 - 2*u2)
	return pt.Vector{
		X: math.Sin(phi) * math.Cos(theta),
		Y: math.Sin(phi) * math.Sin(theta),
		Z: math.Cos(phi),
	}
}

// DirectionSampler produces initial ray directions.
//
// A sampler is used by a single casting worker and need not be safe for concurrent use.
type DirectionSampler interface {
	Direction() pt.Vector
}

// UniformSphereSampler draws directions uniformly over the sphere
type UniformSphereSampler struct {
	rng *rand.Rand
}

func NewUniformSphereSampler(seed int64) *UniformSphereSampler {
	return &UniformSphereSampler{rng: rand.New(rand.NewSource(seed))}
}

func (s *UniformSphereSampler) Direction() pt.Vector {
	return UniformSphereDirection(s.rng.Float64(), s.rng.Float64())
}

// FixedDirectionSampler always returns the same direction. Useful to aim every ray of
// a batch at the listener.
type FixedDirectionSampler struct {
	D pt.Vector
}

func (s FixedDirectionSampler) Direction() pt.Vector {
	return s.D.Normalize()
}

// Directivity computes the gain of a ray shot in a given direction relative to the
// facing direction of a source.
type Directivity struct {
	horizFunc, vertFunc lin.Function
}

// Returns a Directivity, which can compute the gain of a ray shot from a given direction
//
// horiz and vert are maps of angle in degrees to gain in dB. Gain should always be negative.
// Angles outside the map are clamped to the nearest entry.
func NewDirectivity(horiz, vert map[float64]float64) *Directivity {
	return &Directivity{
		horizFunc: sortedFunction(horiz),
		vertFunc:  sortedFunction(vert),
	}
}

func sortedFunction(m map[float64]float64) lin.Function {
	X := make([]float64, 0, len(m))
	for k := range m {
		X = append(X, k)
	}
	sort.Float64s(X)
	Y := make([]float64, len(X))
	for i, x := range X {
		Y[i] = m[x]
	}
	return lin.Function{X: X, Y: Y}
}

func clampedAt(f lin.Function, x float64) float64 {
	if len(f.X) == 0 {
		return 0
	}
	if x <= f.X[0] {
		return f.Y[0]
	}
	if x >= f.X[len(f.X)-1] {
		return f.Y[len(f.Y)-1]
	}
	return f.At(x)
}

// GainDB returns the gain in dB at horiz and vert degrees off axis
func (d *Directivity) GainDB(horiz, vert float64) float64 {
	return clampedAt(d.horizFunc, math.Abs(horiz)) + clampedAt(d.vertFunc, math.Abs(vert))
}

// Source is the sound emitter of the scene.
type Source struct {
	Position pt.Vector
	// Facing is only consulted when Directivity is set. Z is up.
	Facing pt.Vector
	// Directivity is nil for an omnidirectional source
	Directivity *Directivity
}

// EnergyScale returns the factor applied to the energy of a ray leaving the source in
// direction. An omnidirectional source always returns 1.
func (s Source) EnergyScale(direction pt.Vector) float64 {
	if s.Directivity == nil || s.Facing.Length() == 0 {
		return 1
	}
	horiz, vert := offAxisAngles(s.Facing.Normalize(), direction.Normalize())
	return fromDB(s.Directivity.GainDB(horiz, vert))
}

// offAxisAngles returns the azimuth and elevation in degrees of direction relative to
// facing, with Z up
func offAxisAngles(facing, direction pt.Vector) (float64, float64) {
	azimuth := func(v pt.Vector) float64 { return math.Atan2(v.Y, v.X) }
	elevation := func(v pt.Vector) float64 { return math.Asin(math.Max(-1, math.Min(1, v.Z))) }

	horiz := azimuth(direction) - azimuth(facing)
	for horiz > math.Pi {
		horiz -= 2 * math.Pi
	}
	for horiz < -math.Pi {
		horiz += 2 * math.Pi
	}
	vert := elevation(direction) - elevation(facing)
	return horiz * 180 / math.Pi, vert * 180 / math.Pi
}
