// Package device connects audio streams to the outside world: sound cards, WAV files
// and synthetic test signals.
package device

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// ErrNoAudioDevice is returned by NewPlayer in builds without an audio backend
var ErrNoAudioDevice = errors.New("no audio device available")

// Input produces the mono signal fed to a stream
type Input interface {
	// Read fills block with the next samples and reports whether the input has more.
	// Once exhausted, block is filled with silence.
	Read(block []float32) bool
}

// ToneSource is a click train: a single sample impulse every Period samples
type ToneSource struct {
	Period    int
	Amplitude float32
	pos       int
}

// NewToneSource returns a click train with one click every interval
func NewToneSource(sampleRate int, interval time.Duration, amplitude float32) *ToneSource {
	period := int(math.Round(interval.Seconds() * float64(sampleRate)))
	if period < 1 {
		period = 1
	}
	return &ToneSource{Period: period, Amplitude: amplitude}
}

func (t *ToneSource) Read(block []float32) bool {
	for i := range block {
		if t.pos == 0 {
			block[i] = t.Amplitude
		} else {
			block[i] = 0
		}
		t.pos = (t.pos + 1) % t.Period
	}
	return true
}

// StreamerSource mixes a beep.Streamer down to mono
type StreamerSource struct {
	s      beep.Streamer
	buf    [][2]float64
	done   bool
	closer func() error
	frames int
}

func NewStreamerSource(s beep.Streamer) *StreamerSource {
	return &StreamerSource{s: s, frames: -1}
}

// Frames is the length of the source in frames, or -1 when unknown or endless
func (s *StreamerSource) Frames() int {
	return s.frames
}

func (s *StreamerSource) Read(block []float32) bool {
	if len(s.buf) < len(block) {
		s.buf = make([][2]float64, len(block))
	}
	filled := 0
	for !s.done && filled < len(block) {
		n, ok := s.s.Stream(s.buf[:len(block)-filled])
		for i, frame := range s.buf[:n] {
			block[filled+i] = float32((frame[0] + frame[1]) / 2)
		}
		filled += n
		if !ok || n == 0 {
			s.done = true
		}
	}
	clear(block[filled:])
	return !s.done
}

// Err returns the error of the underlying streamer, if any
func (s *StreamerSource) Err() error {
	return s.s.Err()
}

func (s *StreamerSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// OpenWAVSource streams a WAV file at sampleRate, resampling when the file was
// recorded at a different rate. With loop set the file restarts when it ends.
func OpenWAVSource(filename string, sampleRate int, loop bool) (*StreamerSource, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}

	var s beep.Streamer = streamer
	if loop {
		s = &looping{s: streamer}
	}
	if int(format.SampleRate) != sampleRate {
		s = beep.Resample(4, format.SampleRate, beep.SampleRate(sampleRate), s)
	}
	source := NewStreamerSource(s)
	source.closer = streamer.Close
	if !loop {
		source.frames = int(math.Round(float64(streamer.Len()) * float64(sampleRate) / float64(format.SampleRate)))
	}
	return source, nil
}

// looping rewinds s every time it runs out
type looping struct {
	s beep.StreamSeeker
}

func (l *looping) Stream(samples [][2]float64) (int, bool) {
	if l.s.Len() == 0 {
		return 0, false
	}
	filled := 0
	for filled < len(samples) {
		n, ok := l.s.Stream(samples[filled:])
		filled += n
		if !ok || n == 0 {
			if err := l.s.Seek(0); err != nil {
				return filled, filled > 0
			}
		}
	}
	return filled, true
}

func (l *looping) Err() error {
	return l.s.Err()
}
