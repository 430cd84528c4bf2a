// Package easing provides the interpolation curves used by the animation
// layer. All functions map normalized time t in [0,1] to progress in [0,1];
// inputs outside that range are clamped.
package easing

import "math"

// Func shapes the speed of an interpolation.
type Func func(t float64) float64

func Linear(t float64) float64 {
	return clamp01(t)
}

func EaseInQuad(t float64) float64 {
	t = clamp01(t)
	return t * t
}

func EaseOutQuad(t float64) float64 {
	t = clamp01(t)
	return t * (2 - t)
}

func EaseInOutQuad(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

func EaseInCubic(t float64) float64 {
	t = clamp01(t)
	return t * t * t
}

func EaseOutCubic(t float64) float64 {
	t = clamp01(t)
	return 1 - math.Pow(1-t, 3)
}

func EaseInOutCubic(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func EaseInOutSine(t float64) float64 {
	t = clamp01(t)
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// EaseOutElastic overshoots before settling; not monotonic, so it is not
// suitable for channels that feed geometry the cache keys on.
func EaseOutElastic(t float64) float64 {
	t = clamp01(t)
	switch t {
	case 0:
		return 0
	case 1:
		return 1
	}
	const c4 = (2 * math.Pi) / 3
	return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
}

// ByName resolves a curve from configuration. Unknown names fall back to
// Linear so a typo in a config file degrades rather than fails.
func ByName(name string) Func {
	if f, ok := byName[name]; ok {
		return f
	}
	return Linear
}

var byName = map[string]Func{
	"linear":            Linear,
	"ease_in_quad":      EaseInQuad,
	"ease_out_quad":     EaseOutQuad,
	"ease_in_out_quad":  EaseInOutQuad,
	"ease_in_cubic":     EaseInCubic,
	"ease_out_cubic":    EaseOutCubic,
	"ease_in_out_cubic": EaseInOutCubic,
	"ease_in_out_sine":  EaseInOutSine,
	"ease_out_elastic":  EaseOutElastic,
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
