package device

import (
	"fmt"
	"os"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"

	"github.com/jdginn/go-auralizer/audio"
)

// RenderOffline drives stream block by block without a device and returns frames of
// interleaved output. Input that ends early is followed by silence so the tail of the
// response is still rendered.
func RenderOffline(stream *audio.Stream, input Input, frames int) []float32 {
	config := stream.Config()
	out := make([]float32, frames*config.Channels)
	block := make([]float32, config.BlockFrames)
	exhausted := false
	for done := 0; done < frames; {
		n := min(config.BlockFrames, frames-done)
		if exhausted {
			clear(block[:n])
		} else {
			exhausted = !input.Read(block[:n])
		}
		stream.Process(block[:n], out[done*config.Channels:(done+n)*config.Channels], 0)
		done += n
	}
	return out
}

// WriteWAV writes interleaved samples as a 16 bit WAV file
func WriteWAV(filename string, samples []float32, channels, sampleRate int) error {
	if channels < 1 || channels > 2 {
		return fmt.Errorf("unsupported channel count %d", channels)
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: channels,
		Precision:   2,
	}
	if err := wav.Encode(f, interleaved(samples, channels), format); err != nil {
		return fmt.Errorf("encoding %s: %w", filename, err)
	}
	return nil
}

// interleaved streams float32 frames. Mono frames are duplicated on both beep channels.
func interleaved(samples []float32, channels int) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(out [][2]float64) (int, bool) {
		n := 0
		for n < len(out) && pos+channels <= len(samples) {
			left := float64(samples[pos])
			right := left
			if channels == 2 {
				right = float64(samples[pos+1])
			}
			out[n] = [2]float64{left, right}
			pos += channels
			n++
		}
		return n, n > 0
	})
}
