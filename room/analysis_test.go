package room

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnergyOverWindow(t *testing.T) {
	paths := []AcousticPath{
		{Distance: SPEED_OF_SOUND * 10 * MS, Energy: 1},
		{Distance: SPEED_OF_SOUND * 100 * MS, Energy: 2},
	}
	assert.InDelta(t, 1, EnergyOverWindow(paths, 50, SPEED_OF_SOUND), 1e-12)
	assert.InDelta(t, 3, EnergyOverWindow(paths, 150, SPEED_OF_SOUND), 1e-12)
}

func TestArrivalPeaks(t *testing.T) {
	ir := ImpulseResponse{0, 1, 0, 0, 0.15, 0.2, 0, 0.0001}
	peaks := ArrivalPeaks(ir, 1000, -10)
	require.Len(t, peaks, 2)
	assert.InDelta(t, 1, peaks[0].TimeMs, 1e-9)
	assert.InDelta(t, 0, peaks[0].GainDb, 1e-9)
	assert.InDelta(t, 5, peaks[1].TimeMs, 1e-9)
	assert.InDelta(t, -6.9897, peaks[1].GainDb, 1e-4)

	assert.Empty(t, ArrivalPeaks(make(ImpulseResponse, 4), 1000, -10))
}

func TestClusterPeaks(t *testing.T) {
	peaks := []Peak{{1.03, -8}, {0, 0}, {1, -10}, {0.02, -1}}
	assert.Equal(t, []Peak{{0, 0}, {1.03, -8}}, ClusterPeaks(peaks, 0.05, 4))
	assert.Nil(t, ClusterPeaks(nil, 0.05, 4))
}

func TestEnergyDecayCurve(t *testing.T) {
	edc := EnergyDecayCurve(ImpulseResponse{1, 1, 0, 0})
	require.Len(t, edc, 4)
	assert.InDelta(t, 0, edc[0], 1e-12)
	assert.InDelta(t, -3.0103, edc[1], 1e-4)
	assert.True(t, math.IsInf(edc[2], -1))
	assert.True(t, math.IsInf(edc[3], -1))
}

func TestDecayTime(t *testing.T) {
	// 60 dB of decay per 1000 samples
	r := math.Pow(10, -0.006)
	ir := make(ImpulseResponse, 5000)
	for i := range ir {
		ir[i] = math.Pow(r, float64(i))
	}
	seconds, ok := DecayTime(EnergyDecayCurve(ir), 1000, -5, -25)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, seconds, 0.01)

	_, ok = DecayTime(EnergyDecayCurve(ImpulseResponse{1, 1}), 1000, -5, -25)
	assert.False(t, ok)
}
