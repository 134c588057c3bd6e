package room

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// EnergyOverWindow sums the energy of paths that arrive within windowMS
func EnergyOverWindow(paths []AcousticPath, windowMS float64, speedOfSound float64) float64 {
	total := 0.0
	for _, p := range paths {
		if ArrivalTime(p.Distance, speedOfSound)/MS < windowMS {
			total += p.Energy
		}
	}
	return total
}

// Peak is a local maximum of a response
type Peak struct {
	TimeMs float64
	// Relative to the strongest slot of the response
	GainDb float64
}

// ArrivalPeaks finds the strongest slot of every contiguous span of the response within
// thresholdDb of its overall peak. thresholdDb should be negative.
func ArrivalPeaks(ir ImpulseResponse, sampleRate int, thresholdDb float64) []Peak {
	_, peak := ir.Peak()
	if peak <= 0 || sampleRate <= 0 {
		return nil
	}
	floor := peak * fromDB(thresholdDb)

	var peaks []Peak
	best := -1
	flush := func() {
		if best >= 0 {
			peaks = append(peaks, Peak{
				TimeMs: float64(best) / float64(sampleRate) / MS,
				GainDb: toDB(ir[best] / peak),
			})
			best = -1
		}
	}
	for i, v := range ir {
		if v > 0 && v >= floor {
			if best < 0 || v > ir[best] {
				best = i
			}
			continue
		}
		flush()
	}
	flush()
	return peaks
}

// ClusterPeaks merges peaks that are "close enough" into a single representative peak.
// - timeThreshold: max allowed time difference in ms within a cluster
// - gainThreshold: max allowed gain difference in dB within a cluster
func ClusterPeaks(peaks []Peak, timeThreshold, gainThreshold float64) []Peak {
	if len(peaks) == 0 {
		return nil
	}
	sorted := make([]Peak, len(peaks))
	copy(sorted, peaks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TimeMs < sorted[j].TimeMs
	})

	var clusters [][]Peak
	current := []Peak{sorted[0]}
	for _, p := range sorted[1:] {
		last := current[len(current)-1]
		if p.TimeMs-last.TimeMs <= timeThreshold && math.Abs(p.GainDb-last.GainDb) <= gainThreshold {
			current = append(current, p)
		} else {
			clusters = append(clusters, current)
			current = []Peak{p}
		}
	}
	clusters = append(clusters, current)

	// Highest gain wins; ties go to the earliest peak
	result := make([]Peak, 0, len(clusters))
	for _, cluster := range clusters {
		best := cluster[0]
		for _, p := range cluster[1:] {
			if p.GainDb > best.GainDb {
				best = p
			}
		}
		result = append(result, best)
	}
	return result
}

// EnergyDecayCurve is the Schroeder backward integral of the response in dB relative
// to the total energy. Slots past the last arrival are -Inf.
func EnergyDecayCurve(ir ImpulseResponse) []float64 {
	edc := make([]float64, len(ir))
	if len(ir) == 0 {
		return edc
	}
	cumulative := make([]float64, len(ir))
	for i := range ir {
		cumulative[i] = ir[len(ir)-1-i]
	}
	floats.CumSum(cumulative, cumulative)
	total := cumulative[len(cumulative)-1]
	for i := range edc {
		remaining := cumulative[len(ir)-1-i]
		if total <= 0 || remaining <= 0 {
			edc[i] = math.Inf(-1)
			continue
		}
		edc[i] = toDB(remaining / total)
	}
	return edc
}

// DecayTime estimates the reverberation time in seconds by extrapolating the decay
// between startDb and endDb on the energy decay curve to 60 dB, e.g. -5 and -25 for T20.
//
// Returns false when the curve never reaches endDb.
func DecayTime(edc []float64, sampleRate int, startDb, endDb float64) (float64, bool) {
	if sampleRate <= 0 || endDb >= startDb {
		return 0, false
	}
	start, end := -1, -1
	for i, v := range edc {
		if start < 0 && v <= startDb {
			start = i
		}
		if v <= endDb {
			end = i
			break
		}
	}
	if start < 0 || end <= start {
		return 0, false
	}
	seconds := float64(end-start) / float64(sampleRate)
	return seconds * 60 / (startDb - endDb), true
}
