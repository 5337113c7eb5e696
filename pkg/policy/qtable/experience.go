package qtable

import (
	"sync"

	"aegis-hq/aegis/pkg/remedy"
)

// Experience is one learning tuple. The default update rule consumes these
// immediately; the buffer exists for algorithms that replay.
type Experience struct {
	State     StateID
	Action    remedy.Action
	Reward    float64
	NextState StateID
}

// ExperienceBuffer is a bounded FIFO ring: once capacity is reached, the
// oldest entry is evicted on append. Safe for concurrent use.
type ExperienceBuffer struct {
	mu       sync.Mutex
	entries  []Experience
	capacity int
	start    int
	size     int
}

// NewExperienceBuffer creates a buffer holding at most capacity entries.
func NewExperienceBuffer(capacity int) *ExperienceBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &ExperienceBuffer{
		entries:  make([]Experience, capacity),
		capacity: capacity,
	}
}

// Append adds exp, evicting the oldest entry when full.
func (b *ExperienceBuffer) Append(exp Experience) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := (b.start + b.size) % b.capacity
	b.entries[idx] = exp
	if b.size < b.capacity {
		b.size++
	} else {
		b.start = (b.start + 1) % b.capacity
	}
}

// Len returns the number of buffered experiences.
func (b *ExperienceBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Items returns the buffered experiences oldest-first.
func (b *ExperienceBuffer) Items() []Experience {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := make([]Experience, b.size)
	for i := 0; i < b.size; i++ {
		items[i] = b.entries[(b.start+i)%b.capacity]
	}
	return items
}
