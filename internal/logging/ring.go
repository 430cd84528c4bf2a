package logging

import (
	"bytes"
	"sync"
)

// Ring keeps the most recent log event lines in memory. zerolog hands each
// event to Write as a single call, so one Write is one entry.
type Ring struct {
	mu    sync.Mutex
	lines [][]byte
	next  int
	full  bool
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring{lines: make([][]byte, capacity)}
}

// Write stores a copy of the event line. It never fails.
func (r *Ring) Write(p []byte) (int, error) {
	line := bytes.TrimRight(p, "\n")
	cp := make([]byte, len(line))
	copy(cp, line)

	r.mu.Lock()
	r.lines[r.next] = cp
	r.next = (r.next + 1) % len(r.lines)
	if r.next == 0 {
		r.full = true
	}
	r.mu.Unlock()

	return len(p), nil
}

// Tail returns up to limit entries, oldest first. limit <= 0 means all.
func (r *Ring) Tail(limit int) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ordered [][]byte
	if r.full {
		ordered = append(ordered, r.lines[r.next:]...)
		ordered = append(ordered, r.lines[:r.next]...)
	} else {
		ordered = append(ordered, r.lines[:r.next]...)
	}

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[len(ordered)-limit:]
	}

	out := make([][]byte, len(ordered))
	for i, line := range ordered {
		out[i] = make([]byte, len(line))
		copy(out[i], line)
	}
	return out
}

// Len is the number of stored entries.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return len(r.lines)
	}
	return r.next
}
