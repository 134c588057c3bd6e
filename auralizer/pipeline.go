// Package auralizer runs the simulation side of an auralization: each tick casts a
// batch of rays, bins the arrivals into an impulse response and publishes it to the
// audio context.
package auralizer

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jdginn/go-auralizer/audio"
	"github.com/jdginn/go-auralizer/room"
)

// ErrTickInProgress is returned by Tick under TickDrop when another tick is running
var ErrTickInProgress = errors.New("tick already in progress")

// Logger is satisfied by *log.Logger
type Logger interface {
	Printf(format string, args ...interface{})
}

// DefaultLogger writes through the standard logger
type DefaultLogger struct{}

func (DefaultLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// State is the stage of the current tick
type State int32

const (
	Idle State = iota
	Tracing
	Built
	Published
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Tracing:
		return "tracing"
	case Built:
		return "built"
	case Published:
		return "published"
	}
	return "unknown"
}

// TickPolicy decides what happens to a tick requested while another one runs
type TickPolicy int

const (
	// TickDrop rejects the request with ErrTickInProgress
	TickDrop TickPolicy = iota
	// TickSerialize waits for the running tick to finish
	TickSerialize
)

type Options struct {
	Cast         room.CastParams
	SampleRate   int
	SpeedOfSound float64
	// Response length in samples
	Length int
	// Scale each response to unit sum before publishing
	Normalize bool
	Policy    TickPolicy
	Logger    Logger
}

// TickResult describes one published response
type TickResult struct {
	Tick     uint64
	Paths    []room.AcousticPath
	Response room.ImpulseResponse
	Snapshot *audio.Snapshot
	Elapsed  time.Duration
}

// Simulator owns the path buffer of the simulation context. Tick may be called from
// any goroutine.
type Simulator struct {
	scene    room.Intersector
	exchange *audio.Exchange
	options  Options
	paths    *room.PathBuffer

	mutex   sync.Mutex
	state   atomic.Int32
	ticks   atomic.Uint64
	dropped atomic.Uint64
}

func NewSimulator(scene room.Intersector, exchange *audio.Exchange, options Options) *Simulator {
	if options.Logger == nil {
		options.Logger = DefaultLogger{}
	}
	if options.SpeedOfSound == 0 {
		options.SpeedOfSound = room.SPEED_OF_SOUND
	}
	return &Simulator{
		scene:    scene,
		exchange: exchange,
		options:  options,
		paths:    room.NewPathBuffer(0),
	}
}

// Tick traces a new response for listener and source and publishes it. The previous
// response stays current until the new one is complete.
func (s *Simulator) Tick(listener room.Listener, source room.Source) (TickResult, error) {
	if s.options.Policy == TickSerialize {
		s.mutex.Lock()
	} else if !s.mutex.TryLock() {
		s.dropped.Add(1)
		return TickResult{}, ErrTickInProgress
	}
	defer s.mutex.Unlock()
	defer s.state.Store(int32(Idle))

	start := time.Now()
	tick := s.ticks.Add(1)

	s.state.Store(int32(Tracing))
	room.CastOmnidirectionalBatch(s.scene, listener, source, s.options.Cast, s.paths)
	paths := s.paths.Snapshot()

	ir := room.BuildImpulseResponse(paths, s.options.Length, s.options.SampleRate, s.options.SpeedOfSound)
	s.state.Store(int32(Built))

	response := ir
	if s.options.Normalize {
		response = ir.Normalized()
	}
	snapshot := audio.NewSnapshot(tick, response.Float32(), len(paths), ir.Sum())
	s.exchange.Publish(snapshot)
	s.state.Store(int32(Published))

	elapsed := time.Since(start)
	s.options.Logger.Printf("tick %d: %d paths, %.4g energy in window, %v", tick, len(paths), ir.Sum(), elapsed)
	return TickResult{
		Tick:     tick,
		Paths:    paths,
		Response: ir,
		Snapshot: snapshot,
		Elapsed:  elapsed,
	}, nil
}

func (s *Simulator) State() State {
	return State(s.state.Load())
}

// Ticks counts ticks that ran, including the current one
func (s *Simulator) Ticks() uint64 {
	return s.ticks.Load()
}

// Dropped counts requests rejected under TickDrop
func (s *Simulator) Dropped() uint64 {
	return s.dropped.Load()
}
