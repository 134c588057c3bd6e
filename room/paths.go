package room

import "sync"

// PathBuffer collects arrivals from concurrent tracing workers
type PathBuffer struct {
	mu    sync.Mutex
	paths []AcousticPath
}

func NewPathBuffer(capacity int) *PathBuffer {
	return &PathBuffer{paths: make([]AcousticPath, 0, capacity)}
}

func (b *PathBuffer) Add(path AcousticPath) {
	b.mu.Lock()
	b.paths = append(b.paths, path)
	b.mu.Unlock()
}

// Merge appends a worker's local batch in one critical section
func (b *PathBuffer) Merge(batch []AcousticPath) {
	if len(batch) == 0 {
		return
	}
	b.mu.Lock()
	b.paths = append(b.paths, batch...)
	b.mu.Unlock()
}

// Reset empties the buffer, keeping its storage
func (b *PathBuffer) Reset() {
	b.mu.Lock()
	b.paths = b.paths[:0]
	b.mu.Unlock()
}

func (b *PathBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.paths)
}

// Drain returns the collected paths and leaves the buffer empty. The caller owns the
// returned slice.
func (b *PathBuffer) Drain() []AcousticPath {
	b.mu.Lock()
	defer b.mu.Unlock()
	paths := b.paths
	b.paths = make([]AcousticPath, 0, cap(paths))
	return paths
}

// Snapshot returns a copy of the collected paths
func (b *PathBuffer) Snapshot() []AcousticPath {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]AcousticPath, len(b.paths))
	copy(out, b.paths)
	return out
}
