// Package anim drives the per-state animation primitives: named value
// channels, the blink cycle, and gaze wandering. Everything here is advanced
// by the render loop's delta time and is only ever touched from that loop,
// so none of it is synchronized.
package anim

import (
	"time"

	"github.com/normanking/cortexface/internal/easing"
)

// Channel is one in-flight interpolation.
type Channel struct {
	From     float64
	To       float64
	Elapsed  float64 // seconds
	Duration float64 // seconds
	Ease     easing.Func
}

func (c *Channel) value() float64 {
	if c.Duration <= 0 || c.Elapsed >= c.Duration {
		return c.To
	}
	p := c.Ease(c.Elapsed / c.Duration)
	return c.From + (c.To-c.From)*p
}

func (c *Channel) done() bool {
	return c.Elapsed >= c.Duration
}

// Controller manages a set of named channels. Completed channels are pruned
// on Tick but their end values remain readable, so Value never jumps back
// to zero when an interpolation finishes.
type Controller struct {
	channels map[string]*Channel
	settled  map[string]float64
}

func NewController() *Controller {
	return &Controller{
		channels: make(map[string]*Channel),
		settled:  make(map[string]float64),
	}
}

// Start creates or replaces the channel id. Restarting an in-flight channel
// anchors the new interpolation at the live value, not the caller's from,
// so a mid-flight retarget never produces a visible jump.
func (ctl *Controller) Start(id string, from, to float64, d time.Duration, ease easing.Func) {
	if ease == nil {
		ease = easing.Linear
	}
	if cur, ok := ctl.channels[id]; ok {
		from = cur.value()
	}
	ctl.channels[id] = &Channel{
		From:     from,
		To:       to,
		Duration: d.Seconds(),
		Ease:     ease,
	}
}

// Tick advances every channel and prunes the completed ones.
func (ctl *Controller) Tick(dt float64) {
	for id, ch := range ctl.channels {
		ch.Elapsed += dt
		if ch.done() {
			ctl.settled[id] = ch.To
			delete(ctl.channels, id)
		}
	}
}

// Value returns the current interpolated value, or the last end value for a
// channel that already completed, or 0 for an id that was never started.
func (ctl *Controller) Value(id string) float64 {
	v, _ := ctl.Lookup(id)
	return v
}

// Lookup is Value plus whether the id has any history.
func (ctl *Controller) Lookup(id string) (float64, bool) {
	if ch, ok := ctl.channels[id]; ok {
		return ch.value(), true
	}
	if v, ok := ctl.settled[id]; ok {
		return v, true
	}
	return 0, false
}

// Active reports whether id has an interpolation still in flight.
func (ctl *Controller) Active(id string) bool {
	_, ok := ctl.channels[id]
	return ok
}

// Len counts in-flight channels.
func (ctl *Controller) Len() int {
	return len(ctl.channels)
}
