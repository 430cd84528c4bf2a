package anim

import (
	"math/rand"
	"time"

	"github.com/normanking/cortexface/internal/easing"
)

type BlinkPhase int

const (
	BlinkOpen BlinkPhase = iota
	BlinkClosing
	BlinkClosed
	BlinkOpening
)

// Phase shares of the total blink duration. Closing is snappier than
// opening, which reads as more lifelike.
const (
	blinkClosingShare = 0.4
	blinkClosedShare  = 0.1
	blinkOpeningShare = 0.5
)

// Blinker runs the four-phase blink cycle on a randomized interval.
// Amount reports how closed the eyes are, 0 (open) to 1 (closed).
type Blinker struct {
	phase    BlinkPhase
	progress float64 // 0..1 within the current phase
	wait     float64 // seconds until the next blink while open

	duration float64 // seconds for a full blink
	minGap   time.Duration
	maxGap   time.Duration
}

func NewBlinker(duration, minGap, maxGap time.Duration) *Blinker {
	b := &Blinker{
		duration: duration.Seconds(),
		minGap:   minGap,
		maxGap:   maxGap,
	}
	b.wait = randomDuration(minGap, maxGap).Seconds()
	return b
}

// Force starts a blink immediately if the eyes are open.
func (b *Blinker) Force() {
	if b.phase == BlinkOpen {
		b.phase = BlinkClosing
		b.progress = 0
	}
}

func (b *Blinker) Update(dt float64) {
	switch b.phase {
	case BlinkOpen:
		b.wait -= dt
		if b.wait <= 0 {
			b.phase = BlinkClosing
			b.progress = 0
		}

	case BlinkClosing:
		b.progress += dt / (b.duration * blinkClosingShare)
		if b.progress >= 1 {
			b.progress = 0
			b.phase = BlinkClosed
		}

	case BlinkClosed:
		b.progress += dt / (b.duration * blinkClosedShare)
		if b.progress >= 1 {
			b.progress = 1
			b.phase = BlinkOpening
		}

	case BlinkOpening:
		b.progress -= dt / (b.duration * blinkOpeningShare)
		if b.progress <= 0 {
			b.progress = 0
			b.phase = BlinkOpen
			b.wait = randomDuration(b.minGap, b.maxGap).Seconds()
		}
	}
}

func (b *Blinker) Amount() float64 {
	switch b.phase {
	case BlinkClosing:
		return easing.EaseOutQuad(b.progress)
	case BlinkClosed:
		return 1
	case BlinkOpening:
		return easing.EaseInQuad(b.progress)
	default:
		return 0
	}
}

func (b *Blinker) Phase() BlinkPhase {
	return b.phase
}

func (b *Blinker) Blinking() bool {
	return b.phase != BlinkOpen
}

func randomDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Float64()*float64(max-min))
}
