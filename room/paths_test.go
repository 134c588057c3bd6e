package room

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathBufferConcurrentAdds(t *testing.T) {
	buf := NewPathBuffer(0)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				buf.Add(AcousticPath{Distance: float64(i), Energy: 1})
			}
			buf.Merge([]AcousticPath{{Energy: 2}, {Energy: 3}})
		}()
	}
	wg.Wait()
	assert.Equal(t, 8*1002, buf.Len())
}

func TestPathBufferDrainAndSnapshot(t *testing.T) {
	assert := assert.New(t)
	buf := NewPathBuffer(4)
	buf.Merge([]AcousticPath{{Distance: 1}, {Distance: 2}})
	buf.Merge(nil)

	snap := buf.Snapshot()
	snap[0].Distance = 100
	assert.Equal(2, buf.Len())

	drained := buf.Drain()
	assert.Equal([]AcousticPath{{Distance: 1}, {Distance: 2}}, drained)
	assert.Equal(0, buf.Len())

	buf.Add(AcousticPath{Distance: 3})
	assert.Equal(1.0, drained[0].Distance, "drained slice is not reused")

	buf.Reset()
	assert.Equal(0, buf.Len())
}
