package room

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gopxl/beep/v2/wav"
	lin "github.com/sgreben/piecewiselinear"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Measurement is a measured impulse response, amplitude per sample
type Measurement struct {
	Samples    []float64
	SampleRate int
	// Index of the direct arrival. Zero when unknown.
	PeakIndex int
}

// LoadMeasurementWAV reads a measured impulse response from a WAV file, mixing stereo
// to mono. The peak is the sample of largest magnitude.
func LoadMeasurementWAV(filename string) (Measurement, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Measurement{}, err
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return Measurement{}, fmt.Errorf("decoding %s: %w", filename, err)
	}
	defer streamer.Close()

	samples := make([]float64, 0, streamer.Len())
	buf := make([][2]float64, 4096)
	for {
		n, ok := streamer.Stream(buf)
		for _, s := range buf[:n] {
			samples = append(samples, (s[0]+s[1])/2)
		}
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return Measurement{}, fmt.Errorf("reading %s: %w", filename, err)
	}
	if len(samples) == 0 {
		return Measurement{}, fmt.Errorf("%s: no samples", filename)
	}
	abs := make([]float64, len(samples))
	for i, v := range samples {
		abs[i] = math.Abs(v)
	}
	return Measurement{
		Samples:    samples,
		SampleRate: int(format.SampleRate),
		PeakIndex:  floats.MaxIdx(abs),
	}, nil
}

// LoadMeasurementREW reads an impulse response exported by REW as text
func LoadMeasurementREW(filename string) (Measurement, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Measurement{}, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	peakIndex := -1
	sampleInterval := 0.0
	foundDataStart := false

	// Header
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "// Peak index") {
			parts := strings.Fields(line)
			peakIndex, _ = strconv.Atoi(parts[0])
		} else if strings.Contains(line, "// Sample interval (seconds)") {
			parts := strings.Fields(line)
			sampleInterval, _ = strconv.ParseFloat(parts[0], 64)
		} else if line == "* Data start" {
			foundDataStart = true
			break
		}
	}
	if !foundDataStart {
		return Measurement{}, fmt.Errorf("%s: * Data start not found", filename)
	}
	if peakIndex < 0 || sampleInterval <= 0 {
		return Measurement{}, fmt.Errorf("%s: metadata missing or malformed", filename)
	}

	var samples []float64
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		val, err := strconv.ParseFloat(line, 64)
		if err != nil {
			continue
		}
		samples = append(samples, val)
	}
	if err := scanner.Err(); err != nil {
		return Measurement{}, err
	}
	if peakIndex >= len(samples) {
		return Measurement{}, fmt.Errorf("%s: peak index %d past %d samples", filename, peakIndex, len(samples))
	}
	return Measurement{
		Samples:    samples,
		SampleRate: int(math.Round(1 / sampleInterval)),
		PeakIndex:  peakIndex,
	}, nil
}

// ResampleLinear resamples samples from fromRate to toRate by linear interpolation,
// returning exactly length samples. Times past the input are zero.
func ResampleLinear(samples []float64, fromRate, toRate, length int) []float64 {
	out := make([]float64, length)
	if len(samples) == 0 || fromRate <= 0 || toRate <= 0 {
		return out
	}
	if len(samples) == 1 {
		out[0] = samples[0]
		return out
	}
	f := lin.Function{
		X: lin.Span(0, float64(len(samples)-1)/float64(fromRate), len(samples)),
		Y: samples,
	}
	last := f.X[len(f.X)-1]
	for i := range out {
		t := float64(i) / float64(toRate)
		if t > last {
			break
		}
		out[i] = clampedAt(f, t)
	}
	return out
}

// Energy returns the squared amplitude from the direct arrival on, at sampleRate and
// truncated or zero padded to length
func (m Measurement) Energy(sampleRate, length int) ImpulseResponse {
	tail := m.Samples[m.PeakIndex:]
	resampled := ResampleLinear(tail, m.SampleRate, sampleRate, length)
	ir := make(ImpulseResponse, length)
	for i, v := range resampled {
		ir[i] = v * v
	}
	return ir
}

// Comparison summarizes how well a simulated response matches a measurement
type Comparison struct {
	// Pearson correlation of the normalized energy envelopes, aligned at their peaks
	Correlation float64
	// Total energy of each response before normalization
	SimulatedEnergy float64
	MeasuredEnergy  float64
	// Decay times in seconds, zero when the curve is too short to estimate
	SimulatedT20 float64
	MeasuredT20  float64
}

// Compare aligns both responses at their strongest arrival and correlates the energy
// envelopes. measured must already be at the simulation sample rate.
func Compare(simulated, measured ImpulseResponse, sampleRate int) Comparison {
	c := Comparison{
		SimulatedEnergy: simulated.Sum(),
		MeasuredEnergy:  measured.Sum(),
	}
	sim := fromPeak(simulated).Normalized()
	meas := fromPeak(measured).Normalized()
	n := len(sim)
	if len(meas) < n {
		n = len(meas)
	}
	if n >= 2 {
		c.Correlation = stat.Correlation(sim[:n], meas[:n], nil)
		if math.IsNaN(c.Correlation) {
			c.Correlation = 0
		}
	}
	if t, ok := DecayTime(EnergyDecayCurve(simulated), sampleRate, -5, -25); ok {
		c.SimulatedT20 = t
	}
	if t, ok := DecayTime(EnergyDecayCurve(measured), sampleRate, -5, -25); ok {
		c.MeasuredT20 = t
	}
	return c
}

func fromPeak(ir ImpulseResponse) ImpulseResponse {
	i, _ := ir.Peak()
	if i < 0 {
		return ir
	}
	return ir[i:]
}
