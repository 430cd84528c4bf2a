package face

import (
	"time"

	"github.com/normanking/cortexface/internal/render"
)

// Handle is one live expression variant. The machine constructs a
// handle on transition-in and discards it on transition-out; a handle
// is never shared between two expressions, so variants keep their
// continuous state (gaze, blink phase, pulse phase) as plain fields.
type Handle interface {
	Kind() Expression
	Enter(params Params)
	Update(dt float64)
	Render(dst *render.Surface) error
	Exit()
	SetParameter(name string, value float64)
	Parameters() Params
}

// Renderers bundles the drawing components the variants share. The
// variants own animation state; the renderers own pixels.
type Renderers struct {
	Eyes   *render.EyeRenderer
	Border render.Border
}

// Tunables are the animation timings the variants are built with.
// Zero values fall back to the stock face.
type Tunables struct {
	BlinkDuration time.Duration
	BlinkGapMin   time.Duration
	BlinkGapMax   time.Duration
	GazeIdleMin   time.Duration
	GazeIdleMax   time.Duration
	GazeGlideMin  time.Duration
	GazeGlideMax  time.Duration
}

func (t Tunables) withDefaults() Tunables {
	def := func(d *time.Duration, v time.Duration) {
		if *d <= 0 {
			*d = v
		}
	}
	def(&t.BlinkDuration, 200*time.Millisecond)
	def(&t.BlinkGapMin, 2*time.Second)
	def(&t.BlinkGapMax, 6*time.Second)
	def(&t.GazeIdleMin, 1500*time.Millisecond)
	def(&t.GazeIdleMax, 4*time.Second)
	def(&t.GazeGlideMin, 400*time.Millisecond)
	def(&t.GazeGlideMax, 900*time.Millisecond)
	return t
}

// NewBuilder returns the constructor the machine calls on every
// transition: a fresh handle each time, sharing the renderers.
func NewBuilder(r Renderers, tun Tunables) func(Expression) Handle {
	tun = tun.withDefaults()
	return func(e Expression) Handle {
		switch e {
		case Thinking:
			return NewThinkingVariant(r, tun)
		case Speaking:
			return NewSpeakingVariant(r, tun)
		case Resting:
			return NewRestingVariant(r)
		default:
			return NewIdleVariant(r, tun)
		}
	}
}
