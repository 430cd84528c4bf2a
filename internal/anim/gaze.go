package anim

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/normanking/cortexface/internal/easing"
)

// gazeSmoothing is the exponential pull toward the glide value. Higher is
// snappier.
const gazeSmoothing = 8.0

// Gaze wanders a normalized look target inside [-1,1]x[-1,1]. A new target
// is picked at a random interval and the position glides there with an
// easing curve over a random duration; an exponential smoothing pass on top
// keeps retargets from kinking the path.
type Gaze struct {
	current mgl64.Vec2
	from    mgl64.Vec2
	to      mgl64.Vec2

	elapsed  float64
	duration float64
	wait     float64
	ease     easing.Func

	pinned bool

	minIdle  time.Duration
	maxIdle  time.Duration
	minGlide time.Duration
	maxGlide time.Duration

	saccade     mgl64.Vec2
	saccadeWait float64
	saccadeAmp  float64
}

func NewGaze(minIdle, maxIdle, minGlide, maxGlide time.Duration) *Gaze {
	g := &Gaze{
		ease:       easing.EaseInOutCubic,
		minIdle:    minIdle,
		maxIdle:    maxIdle,
		minGlide:   minGlide,
		maxGlide:   maxGlide,
		saccadeAmp: 0.05,
	}
	g.wait = randomDuration(minIdle, maxIdle).Seconds()
	g.saccadeWait = randomDuration(300*time.Millisecond, 1500*time.Millisecond).Seconds()
	return g
}

// LookAt pins the gaze on a fixed target until Wander is called.
func (g *Gaze) LookAt(x, y float64) {
	g.retarget(mgl64.Vec2{clampUnit(x), clampUnit(y)})
	g.pinned = true
}

// Wander resumes random target picking.
func (g *Gaze) Wander() {
	g.pinned = false
	g.wait = 0
}

func (g *Gaze) retarget(target mgl64.Vec2) {
	g.from = g.glideValue()
	g.to = target
	g.elapsed = 0
	g.duration = randomDuration(g.minGlide, g.maxGlide).Seconds()
}

func (g *Gaze) glideValue() mgl64.Vec2 {
	if g.duration <= 0 || g.elapsed >= g.duration {
		return g.to
	}
	p := g.ease(g.elapsed / g.duration)
	return g.from.Add(g.to.Sub(g.from).Mul(p))
}

func (g *Gaze) Update(dt float64) {
	g.elapsed += dt

	if !g.pinned {
		g.wait -= dt
		if g.wait <= 0 {
			g.retarget(mgl64.Vec2{
				rand.Float64()*2 - 1,
				rand.Float64()*2 - 1,
			})
			g.wait = randomDuration(g.minIdle, g.maxIdle).Seconds()
		}
	}

	g.saccadeWait -= dt
	if g.saccadeWait <= 0 {
		g.saccade = mgl64.Vec2{
			(rand.Float64()*2 - 1) * g.saccadeAmp,
			(rand.Float64()*2 - 1) * g.saccadeAmp * 0.5,
		}
		g.saccadeWait = randomDuration(300*time.Millisecond, 1500*time.Millisecond).Seconds()
	}

	target := g.glideValue().Add(g.saccade)
	pull := 1 - math.Exp(-gazeSmoothing*dt)
	g.current = g.current.Add(target.Sub(g.current).Mul(pull))
}

// Vec is the smoothed gaze position, each axis in [-1,1] (saccade jitter can
// push it slightly past).
func (g *Gaze) Vec() mgl64.Vec2 {
	return g.current
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
