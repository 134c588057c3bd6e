package audio

// CircularBuffer holds the most recent input samples. It is owned by the audio
// context and is not safe for concurrent use.
type CircularBuffer struct {
	data []float32
	// Index of the most recent sample
	tail int
	// Index of the oldest sample, meaningful once full
	head  int
	count int
	full  bool
}

func NewCircularBuffer(capacity int) *CircularBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &CircularBuffer{
		data: make([]float32, capacity),
		tail: capacity - 1,
	}
}

// Insert appends batch after the current tail, wrapping around the end of the buffer.
// A batch larger than the buffer keeps only its most recent samples.
func (b *CircularBuffer) Insert(batch []float32) {
	c := len(b.data)
	if len(batch) == 0 {
		return
	}
	if len(batch) > c {
		batch = batch[len(batch)-c:]
	}
	start := (b.tail + 1) % c
	n := copy(b.data[start:], batch)
	if n < len(batch) {
		copy(b.data, batch[n:])
	}
	b.tail = (start + len(batch) - 1) % c

	b.count += len(batch)
	if b.count >= c {
		b.count = c
		b.full = true
	}
	if b.full {
		b.head = (b.tail + 1) % c
	}
}

// ElementRelativeToTail returns the sample written k positions before the most recent
// one. k must be less than the capacity.
func (b *CircularBuffer) ElementRelativeToTail(k int) float32 {
	c := len(b.data)
	return b.data[((b.tail-k)%c+c)%c]
}

// Full reports whether the buffer has been filled at least once
func (b *CircularBuffer) Full() bool {
	return b.full
}

// Len is the number of samples held
func (b *CircularBuffer) Len() int {
	return b.count
}

func (b *CircularBuffer) Capacity() int {
	return len(b.data)
}

// Head returns the oldest retained sample
func (b *CircularBuffer) Head() float32 {
	if !b.full {
		return b.data[0]
	}
	return b.data[b.head]
}

// CopyRecent fills dst with the most recent samples in chronological order, oldest
// first, and returns how many were copied.
func (b *CircularBuffer) CopyRecent(dst []float32) int {
	n := len(dst)
	if n > b.count {
		n = b.count
	}
	for i := 0; i < n; i++ {
		dst[i] = b.ElementRelativeToTail(n - 1 - i)
	}
	return n
}
