package auralizer

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fogleman/pt/pt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdginn/go-auralizer/audio"
	"github.com/jdginn/go-auralizer/room"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// aimedOptions fires every ray straight down the X axis. With a sample rate equal to
// the speed of sound one sample is one meter.
func aimedOptions(rays int, logger Logger) Options {
	return Options{
		Cast: room.CastParams{
			RayCount:    rays,
			SourcePower: float64(rays),
			Workers:     2,
			NewSampler: func(int64) room.DirectionSampler {
				return room.FixedDirectionSampler{D: room.V(1, 0, 0)}
			},
			Trace: room.DefaultTraceParams(),
		},
		SampleRate:   343,
		SpeedOfSound: 343,
		Length:       20,
		Logger:       logger,
	}
}

var (
	origin   = room.Source{Position: room.V(0, 0, 0)}
	listener = room.Listener{Position: room.V(8, 0, 0), Radius: 1}
)

func TestTickPublishesResponse(t *testing.T) {
	assert := assert.New(t)
	logger := &recordingLogger{}
	exchange := &audio.Exchange{}
	sim := NewSimulator(room.NewEmptyRoom(), exchange, aimedOptions(10, logger))

	result, err := sim.Tick(listener, origin)
	require.NoError(t, err)
	assert.Equal(uint64(1), result.Tick)
	assert.Len(result.Paths, 10)
	require.Len(t, result.Response, 20)
	assert.InDelta(10, result.Response[7], 1e-9)
	assert.InDelta(10, result.Response.Sum(), 1e-9)

	assert.Same(result.Snapshot, exchange.Load())
	assert.Equal([]audio.Tap{{Index: 7, Weight: 10}}, result.Snapshot.Taps())
	assert.Equal(10, result.Snapshot.Paths)
	assert.Equal(Idle, sim.State())
	assert.Len(logger.lines, 1)

	// The buffer is reset between ticks
	result, err = sim.Tick(listener, origin)
	require.NoError(t, err)
	assert.Equal(uint64(2), result.Tick)
	assert.Len(result.Paths, 10)
	assert.Equal(uint64(2), exchange.Published())
}

func TestTickNormalize(t *testing.T) {
	options := aimedOptions(4, &recordingLogger{})
	options.Normalize = true
	exchange := &audio.Exchange{}
	sim := NewSimulator(room.NewEmptyRoom(), exchange, options)

	result, err := sim.Tick(listener, origin)
	require.NoError(t, err)
	// The published response is normalized, the returned one keeps its energy
	assert.InDelta(t, 4, result.Response.Sum(), 1e-9)
	assert.Equal(t, []audio.Tap{{Index: 7, Weight: 1}}, exchange.Load().Taps())
}

// gate blocks the first intersection until released
type gate struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) Intersect(origin, direction pt.Vector) room.Intersection {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return room.NoIntersection
}

func TestTickDropsWhileBusy(t *testing.T) {
	assert := assert.New(t)
	g := newGate()
	exchange := &audio.Exchange{}
	options := aimedOptions(1, &recordingLogger{})
	sim := NewSimulator(g, exchange, options)

	done := make(chan error)
	go func() {
		_, err := sim.Tick(listener, origin)
		done <- err
	}()
	<-g.entered
	assert.Equal(Tracing, sim.State())

	_, err := sim.Tick(listener, origin)
	assert.ErrorIs(err, ErrTickInProgress)
	assert.Equal(uint64(1), sim.Dropped())

	close(g.release)
	require.NoError(t, <-done)
	assert.Equal(uint64(1), sim.Ticks())
	assert.Equal(uint64(1), exchange.Published())
}

func TestTickSerializeWaits(t *testing.T) {
	assert := assert.New(t)
	g := newGate()
	exchange := &audio.Exchange{}
	options := aimedOptions(1, &recordingLogger{})
	options.Policy = TickSerialize
	sim := NewSimulator(g, exchange, options)

	results := make(chan TickResult, 2)
	tick := func() {
		result, err := sim.Tick(listener, origin)
		assert.NoError(err)
		results <- result
	}
	go tick()
	<-g.entered
	go tick()

	close(g.release)
	first, second := <-results, <-results
	assert.ElementsMatch([]uint64{1, 2}, []uint64{first.Tick, second.Tick})
	assert.Zero(sim.Dropped())
	assert.Equal(uint64(2), exchange.Load().Tick)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "tracing", Tracing.String())
	assert.Equal(t, "unknown", State(9).String())
}
