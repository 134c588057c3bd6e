package audio

import (
	"errors"
	"sync/atomic"
	"time"
)

// Status reports device conditions for the block being processed
type Status uint32

const (
	StatusInputOverflow Status = 1 << iota
	StatusOutputUnderflow
)

var ErrInvalidStreamConfig = errors.New("invalid stream config")

// StreamConfig describes the device side of a stream
type StreamConfig struct {
	SampleRate  int
	BlockFrames int
	// Output channels. Every channel carries the same signal.
	Channels int
	// Interleaved input channels, mixed to mono before rendering
	InputChannels int
	// Samples of input history, at least the response length
	History int
	Gain    float32
}

// Stats are diagnostics of the audio context, safe to read from any goroutine
type Stats struct {
	// Device callbacks, each rendered as one or more blocks
	Callbacks uint64
	// Blocks of at most BlockFrames frames rendered
	Blocks uint64
	// Callbacks the device flagged as over or underflowing
	Xruns uint64
	// Callbacks whose processing took longer than their playback time
	Overruns uint64
	// Blocks that panicked while rendering and were replaced with silence
	Failures    uint64
	LastProcess time.Duration
	PeakProcess time.Duration
	// Tick of the snapshot used by the latest block, zero before the first publish
	Tick uint64
}

// Stream is the state owned by one audio stream: input history, scratch space and
// counters. Process is called from the device callback only.
type Stream struct {
	config   StreamConfig
	renderer *Renderer
	exchange *Exchange
	mono     []float32
	deadline time.Duration
	now      func() time.Time

	callbacks atomic.Uint64
	blocks    atomic.Uint64
	xruns     atomic.Uint64
	overruns  atomic.Uint64
	failures  atomic.Uint64
	last      atomic.Int64
	peak      atomic.Int64
	tick      atomic.Uint64
}

func NewStream(config StreamConfig, exchange *Exchange) (*Stream, error) {
	if config.SampleRate <= 0 || config.BlockFrames <= 0 || config.Channels <= 0 {
		return nil, ErrInvalidStreamConfig
	}
	if config.InputChannels <= 0 {
		config.InputChannels = 1
	}
	if config.History < config.BlockFrames {
		config.History = config.BlockFrames
	}
	if config.Gain == 0 {
		config.Gain = 1
	}
	return &Stream{
		config:   config,
		renderer: NewRenderer(config.History, config.Gain),
		exchange: exchange,
		mono:     make([]float32, config.BlockFrames),
		deadline: time.Duration(config.BlockFrames) * time.Second / time.Duration(config.SampleRate),
		now:      time.Now,
	}, nil
}

func (s *Stream) Config() StreamConfig {
	return s.config
}

// Process renders one device callback. in is interleaved input with InputChannels per
// frame and may be shorter than out, in which case the missing input is silence. out is
// interleaved with Channels per frame; any number of frames is accepted and rendered in
// blocks of BlockFrames.
func (s *Stream) Process(in, out []float32, status Status) {
	start := s.now()
	if status != 0 {
		s.xruns.Add(1)
	}

	snapshot := s.exchange.Load()
	if snapshot != nil {
		s.tick.Store(snapshot.Tick)
	}

	frames := len(out) / s.config.Channels
	for done := 0; done < frames; {
		n := min(s.config.BlockFrames, frames-done)
		s.mixInput(in, done, n)
		block := out[done*s.config.Channels : (done+n)*s.config.Channels]
		s.render(block, n, snapshot)
		s.blocks.Add(1)
		done += n
	}

	elapsed := s.now().Sub(start)
	s.callbacks.Add(1)
	s.last.Store(int64(elapsed))
	if int64(elapsed) > s.peak.Load() {
		s.peak.Store(int64(elapsed))
	}
	allowed := time.Duration(frames) * time.Second / time.Duration(s.config.SampleRate)
	if frames > 0 && elapsed > allowed {
		s.overruns.Add(1)
	}
}

func (s *Stream) render(out []float32, frames int, snapshot *Snapshot) {
	defer func() {
		if recover() != nil {
			s.failures.Add(1)
			clear(out)
		}
	}()
	s.renderer.Process(s.mono[:frames], out, s.config.Channels, snapshot)
}

// mixInput averages the input channels of frames [from, from+n) into the mono scratch
func (s *Stream) mixInput(in []float32, from, n int) {
	ch := s.config.InputChannels
	scale := 1 / float32(ch)
	for i := 0; i < n; i++ {
		base := (from + i) * ch
		var sum float32
		for c := 0; c < ch; c++ {
			if base+c < len(in) {
				sum += in[base+c]
			}
		}
		s.mono[i] = sum * scale
	}
}

// Stats returns a copy of the counters
func (s *Stream) Stats() Stats {
	return Stats{
		Callbacks:   s.callbacks.Load(),
		Blocks:      s.blocks.Load(),
		Xruns:       s.xruns.Load(),
		Overruns:    s.overruns.Load(),
		Failures:    s.failures.Load(),
		LastProcess: time.Duration(s.last.Load()),
		PeakProcess: time.Duration(s.peak.Load()),
		Tick:        s.tick.Load(),
	}
}

// Deadline is the playback time of one block
func (s *Stream) Deadline() time.Duration {
	return s.deadline
}
