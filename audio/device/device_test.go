package device

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdginn/go-auralizer/audio"
)

func TestToneSource(t *testing.T) {
	assert := assert.New(t)
	tone := NewToneSource(1000, 3*time.Millisecond, 0.5)
	assert.Equal(3, tone.Period)

	block := make([]float32, 4)
	assert.True(tone.Read(block))
	assert.Equal([]float32{0.5, 0, 0, 0.5}, block)
	assert.True(tone.Read(block))
	assert.Equal([]float32{0, 0, 0.5, 0}, block)
}

// frames streams a fixed list of stereo frames
func frames(data [][2]float64) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(out [][2]float64) (int, bool) {
		n := copy(out, data[pos:])
		pos += n
		return n, n > 0
	})
}

func TestStreamerSourceMixesToMono(t *testing.T) {
	assert := assert.New(t)
	s := NewStreamerSource(frames([][2]float64{{1, 0}, {0.5, 0.5}, {-1, 0}}))

	block := make([]float32, 2)
	assert.True(s.Read(block))
	assert.Equal([]float32{0.5, 0.5}, block)
	assert.False(s.Read(block))
	assert.Equal([]float32{-0.5, 0}, block)
	assert.False(s.Read(block))
	assert.Equal([]float32{0, 0}, block)
	assert.NoError(s.Err())
	assert.NoError(s.Close())
}

func newOfflineStream(t *testing.T, response []float32) *audio.Stream {
	t.Helper()
	exchange := &audio.Exchange{}
	exchange.Publish(audio.NewSnapshot(1, response, 1, 1))
	stream, err := audio.NewStream(audio.StreamConfig{
		SampleRate:  1000,
		BlockFrames: 4,
		Channels:    1,
		History:     len(response),
	}, exchange)
	require.NoError(t, err)
	return stream
}

func TestRenderOfflineEcho(t *testing.T) {
	stream := newOfflineStream(t, []float32{0, 0, 0, 0, 0, 0, 0, 0.5})
	click := NewToneSource(1000, time.Second, 1)

	out := RenderOffline(stream, click, 16)
	require.Len(t, out, 16)
	// The history fills with the second block, whose last frame reaches back to the
	// click at frame 0. The next click is a second later.
	expected := make([]float32, 16)
	expected[7] = 0.5
	assert.Equal(t, expected, out)

	stream = newOfflineStream(t, []float32{0, 0, 0, 0, 0, 0, 0, 0.5})
	s := NewStreamerSource(frames([][2]float64{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {1, 1}}))
	out = RenderOffline(stream, s, 24)
	expected = make([]float32, 24)
	expected[15] = 0.5
	assert.Equal(t, expected, out)
}

func TestWriteWAV(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "out.wav")
	require.NoError(t, WriteWAV(filename, []float32{0, 0.5, -0.5, 0.25, 0, 0}, 2, 8000))

	source, err := OpenWAVSource(filename, 8000, false)
	require.NoError(t, err)
	defer source.Close()
	assert.Equal(t, 3, source.Frames())
	block := make([]float32, 4)
	assert.False(t, source.Read(block))
	assert.InDelta(t, 0.25, block[0], 1e-3)
	assert.InDelta(t, -0.125, block[1], 1e-3)
	assert.InDelta(t, 0, block[2], 1e-3)
	assert.Equal(t, float32(0), block[3])

	assert.Error(t, WriteWAV(filename, nil, 3, 8000))
}

func TestOpenWAVSourceLoops(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "loop.wav")
	require.NoError(t, WriteWAV(filename, []float32{0.5, 0, 0}, 1, 8000))

	source, err := OpenWAVSource(filename, 8000, true)
	require.NoError(t, err)
	defer source.Close()
	assert.Equal(t, -1, source.Frames())
	block := make([]float32, 7)
	assert.True(t, source.Read(block))
	for i, v := range block {
		if i%3 == 0 {
			assert.InDelta(t, 0.5, v, 1e-3)
		} else {
			assert.InDelta(t, 0, v, 1e-3)
		}
	}
}

func TestFrameReader(t *testing.T) {
	assert := assert.New(t)

	stream := newOfflineStream(t, []float32{0.5, 0, 0, 0})
	assert.Equal(6, bufferFrames(stream.Config(), 6*time.Millisecond))
	assert.Equal(4, bufferFrames(stream.Config(), time.Millisecond))

	r := newFrameReader(stream, NewToneSource(1000, time.Second, 1), 6)

	// A request larger than the scratch renders only what the scratch holds
	b := make([]byte, 10*4)
	n, err := r.Read(b)
	require.NoError(t, err)
	assert.Equal(6*4, n)
	for i := 0; i < 6; i++ {
		v := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		if i == 0 {
			assert.Equal(float32(0.5), v)
		} else {
			assert.Equal(float32(0), v)
		}
	}
	assert.Equal(uint64(1), stream.Stats().Callbacks)

	// Less than a frame is silence
	short := []byte{1, 2, 3}
	n, err = r.Read(short)
	require.NoError(t, err)
	assert.Equal(3, n)
	assert.Equal([]byte{0, 0, 0}, short)

	allocs := testing.AllocsPerRun(10, func() {
		r.Read(b)
	})
	assert.Zero(allocs)
}
