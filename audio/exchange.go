package audio

import (
	"sync/atomic"
)

// Tap is a non-zero coefficient of an impulse response
type Tap struct {
	Index  int
	Weight float32
}

// Snapshot is one published impulse response. It is never modified after NewSnapshot
// returns, so the audio context may read it without locking.
type Snapshot struct {
	// Simulation tick that produced the response
	Tick     uint64
	Response []float32
	// Number of acoustic paths that contributed
	Paths int
	// Total energy received within the response window
	Energy float64

	taps []Tap
}

// NewSnapshot takes ownership of response and indexes its non-zero taps
func NewSnapshot(tick uint64, response []float32, paths int, energy float64) *Snapshot {
	s := &Snapshot{
		Tick:     tick,
		Response: response,
		Paths:    paths,
		Energy:   energy,
	}
	for i, w := range response {
		if w != 0 {
			s.taps = append(s.taps, Tap{Index: i, Weight: w})
		}
	}
	return s
}

// Taps returns the non-zero coefficients in increasing index order
func (s *Snapshot) Taps() []Tap {
	return s.taps
}

// Exchange hands snapshots from the simulation context to the audio context. Only the
// latest published snapshot is kept; a snapshot that is replaced before the audio
// context reads it is discarded.
type Exchange struct {
	current   atomic.Pointer[Snapshot]
	published atomic.Uint64
}

// Publish makes s current and returns the snapshot it replaced
func (e *Exchange) Publish(s *Snapshot) *Snapshot {
	e.published.Add(1)
	return e.current.Swap(s)
}

// Load returns the current snapshot, or nil before the first publish. It never blocks.
func (e *Exchange) Load() *Snapshot {
	return e.current.Load()
}

// Published counts calls to Publish
func (e *Exchange) Published() uint64 {
	return e.published.Load()
}
