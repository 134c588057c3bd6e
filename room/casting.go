package room

import (
	"runtime"
	"sync"
)

// CastParams controls a batch of omnidirectional rays
type CastParams struct {
	RayCount int
	// Total energy emitted by the source, shared equally among the rays
	SourcePower float64
	// Number of goroutines casting rays. Zero means runtime.NumCPU().
	Workers int
	// Worker w draws directions from NewSampler(Seed ^ w)
	Seed int64
	// Defaults to NewUniformSphereSampler
	NewSampler func(seed int64) DirectionSampler
	Trace      TraceParams
}

// BatchSink receives the arrivals of a batch
type BatchSink interface {
	Reset()
	Merge(batch []AcousticPath)
}

func (p CastParams) workers() int {
	w := p.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	if w > p.RayCount {
		w = p.RayCount
	}
	if w < 1 {
		w = 1
	}
	return w
}

func (p CastParams) sampler(seed int64) DirectionSampler {
	if p.NewSampler != nil {
		return p.NewSampler(seed)
	}
	return NewUniformSphereSampler(seed)
}

// CastOmnidirectionalBatch clears sink and fills it with the arrivals of RayCount rays
// leaving source. Each ray starts with SourcePower/RayCount energy, scaled by the
// source directivity when it has one.
//
// Returns the number of arrivals recorded.
func CastOmnidirectionalBatch(scene Intersector, listener Listener, source Source, params CastParams, sink BatchSink) int {
	sink.Reset()
	if params.RayCount <= 0 {
		return 0
	}
	energy := params.SourcePower / float64(params.RayCount)
	workers := params.workers()
	base, rem := params.RayCount/workers, params.RayCount%workers

	var mu sync.Mutex
	total := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		n := base
		if w < rem {
			n++
		}
		sampler := params.sampler(params.Seed ^ int64(w))
		go func() {
			defer wg.Done()
			local := make([]AcousticPath, 0, n/64+1)
			for i := 0; i < n; i++ {
				direction := sampler.Direction()
				state := RayState{Energy: energy * source.EnergyScale(direction)}
				if path, ok := TraceRay(scene, source.Position, direction, listener, state, params.Trace); ok {
					local = append(local, path)
				}
			}
			sink.Merge(local)
			mu.Lock()
			total += len(local)
			mu.Unlock()
		}()
	}
	wg.Wait()
	return total
}
