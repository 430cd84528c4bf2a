package command

import (
	"sync"

	"github.com/normanking/cortexface/internal/metrics"
)

// Queue is the single hand-off point between connection goroutines and the
// render loop. Push and Drain are mutually exclusive and preserve arrival
// order; neither ever blocks beyond the slice operation, so a stalled client
// cannot hold up the loop.
type Queue struct {
	mu    sync.Mutex
	items []Command
}

func NewQueue() *Queue {
	return &Queue{}
}

// Push appends cmd in arrival order.
func (q *Queue) Push(cmd Command) {
	q.mu.Lock()
	q.items = append(q.items, cmd)
	depth := len(q.items)
	q.mu.Unlock()

	metrics.QueueDepth.Set(float64(depth))
}

// Drain removes and returns all queued commands, oldest first. The returned
// slice is owned by the caller.
func (q *Queue) Drain() []Command {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()

	if len(items) > 0 {
		metrics.QueueDepth.Set(0)
	}
	return items
}

// Len is the number of commands waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
