package audio

// Renderer convolves live input with the current impulse response
type Renderer struct {
	ring *CircularBuffer
	gain float32
}

// NewRenderer returns a renderer keeping history samples of input
func NewRenderer(history int, gain float32) *Renderer {
	return &Renderer{
		ring: NewCircularBuffer(history),
		gain: gain,
	}
}

func (r *Renderer) History() *CircularBuffer {
	return r.ring
}

// Process renders one block. in holds one mono sample per frame; out is interleaved
// with channels samples per frame and must hold len(in)*channels samples.
//
// Output is silent until the history is full or while snapshot is nil. Frame i of the
// block sees the input sample at offset len(in)-1-i from the newest one, so a unit
// response reproduces the input.
func (r *Renderer) Process(in, out []float32, channels int, snapshot *Snapshot) {
	r.ring.Insert(in)

	frames := len(in)
	if !r.ring.Full() || snapshot == nil {
		clear(out[:frames*channels])
		return
	}

	taps := snapshot.Taps()
	capacity := r.ring.Capacity()
	for i := 0; i < frames; i++ {
		offset := frames - 1 - i
		limit := capacity - offset
		var acc float32
		for _, tap := range taps {
			if tap.Index >= limit {
				break
			}
			acc += tap.Weight * r.ring.ElementRelativeToTail(offset+tap.Index)
		}
		acc *= r.gain
		if acc > 1 {
			acc = 1
		} else if acc < -1 {
			acc = -1
		}
		frame := out[i*channels : (i+1)*channels]
		for c := range frame {
			frame[c] = acc
		}
	}
}
