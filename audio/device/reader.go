package device

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/jdginn/go-auralizer/audio"
)

// frameReader renders a stream as float32 little endian bytes. Its scratch is sized
// once so Read never allocates on the device goroutine.
type frameReader struct {
	stream   *audio.Stream
	input    Input
	channels int
	in       []float32
	out      []float32
}

// bufferFrames is the number of frames a device buffer of length d holds, and at
// least one block
func bufferFrames(config audio.StreamConfig, d time.Duration) int {
	frames := int(math.Round(d.Seconds() * float64(config.SampleRate)))
	return max(frames, config.BlockFrames)
}

func newFrameReader(stream *audio.Stream, input Input, frames int) *frameReader {
	channels := stream.Config().Channels
	return &frameReader{
		stream:   stream,
		input:    input,
		channels: channels,
		in:       make([]float32, frames),
		out:      make([]float32, frames*channels),
	}
}

// Read renders as many whole frames as fit in b and in the scratch buffers
func (r *frameReader) Read(b []byte) (int, error) {
	frames := min(len(b)/(4*r.channels), len(r.in))
	if frames == 0 {
		clear(b)
		return len(b), nil
	}
	in, out := r.in[:frames], r.out[:frames*r.channels]
	r.input.Read(in)
	r.stream.Process(in, out, 0)

	for i, v := range out {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return len(out) * 4, nil
}
