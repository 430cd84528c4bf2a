package face

import "sync/atomic"

// Status is the face snapshot published once per tick. Network
// goroutines answer get_status from it without touching the render
// loop.
type Status struct {
	State      Expression         `json:"state"`
	Parameters map[string]float64 `json:"parameters"`
	FPS        float64            `json:"fps"`
	Frame      uint64             `json:"frame"`
	UptimeSec  float64            `json:"uptime_seconds"`
	QueueDepth int                `json:"queue_depth"`
}

// Board hands Status snapshots from the render loop to any number of
// readers, lock-free on both sides.
type Board struct {
	cur atomic.Pointer[Status]
}

func NewBoard() *Board {
	b := &Board{}
	b.cur.Store(&Status{State: Idle, Parameters: map[string]float64{}})
	return b
}

// Publish replaces the snapshot. The parameter map is copied, so the
// caller may keep mutating its own.
func (b *Board) Publish(s Status) {
	params := make(map[string]float64, len(s.Parameters))
	for k, v := range s.Parameters {
		params[k] = v
	}
	s.Parameters = params
	b.cur.Store(&s)
}

// Current returns the latest snapshot. The contained map must be
// treated as read-only.
func (b *Board) Current() Status {
	return *b.cur.Load()
}
