package room

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ImpulseResponse is a histogram of energy indexed by arrival sample
type ImpulseResponse []float64

// ResponseLength is the number of samples needed to cover windowSeconds
func ResponseLength(sampleRate int, windowSeconds float64) int {
	if sampleRate <= 0 || windowSeconds <= 0 {
		return 0
	}
	return int(math.Round(float64(sampleRate) * windowSeconds))
}

// BuildImpulseResponse bins paths by arrival time. A path's slot is its travel time
// rounded to the nearest sample; paths landing outside [0, length) are dropped.
func BuildImpulseResponse(paths []AcousticPath, length, sampleRate int, speedOfSound float64) ImpulseResponse {
	if length < 0 {
		length = 0
	}
	ir := make(ImpulseResponse, length)
	if speedOfSound <= 0 {
		return ir
	}
	for _, p := range paths {
		slot := math.Round(ArrivalTime(p.Distance, speedOfSound) * float64(sampleRate))
		if math.IsNaN(slot) || slot < 0 || slot >= float64(length) {
			continue
		}
		ir[int(slot)] += p.Energy
	}
	return ir
}

// Sum is the total energy received within the window
func (ir ImpulseResponse) Sum() float64 {
	if len(ir) == 0 {
		return 0
	}
	return floats.Sum(ir)
}

// Peak returns the slot and energy of the strongest arrival, or (-1, 0) when the
// response is empty or silent.
func (ir ImpulseResponse) Peak() (int, float64) {
	if len(ir) == 0 {
		return -1, 0
	}
	i := floats.MaxIdx(ir)
	if ir[i] <= 0 {
		return -1, 0
	}
	return i, ir[i]
}

// Normalized returns a copy scaled to unit sum. A silent response is returned unchanged.
func (ir ImpulseResponse) Normalized() ImpulseResponse {
	out := make(ImpulseResponse, len(ir))
	copy(out, ir)
	sum := ir.Sum()
	if sum == 0 {
		return out
	}
	floats.Scale(1/sum, out)
	return out
}

// Float32 converts to the sample format of the audio context
func (ir ImpulseResponse) Float32() []float32 {
	out := make([]float32, len(ir))
	for i, v := range ir {
		out[i] = float32(v)
	}
	return out
}
