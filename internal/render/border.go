package render

import (
	"image"
	"image/color"
	"math"

	"github.com/normanking/cortexface/internal/easing"
)

const (
	defaultBorderWidth  = 8
	defaultBorderMargin = 10
)

// thinkingPalette cycles while the face is thinking: soft versions of
// distinct hues so the border reads as activity, not alarm.
var thinkingPalette = []color.RGBA{
	{R: 100, G: 200, B: 255, A: 255},
	{R: 255, G: 200, B: 100, A: 255},
	{R: 200, G: 255, B: 100, A: 255},
	{R: 255, G: 100, B: 200, A: 255},
	{R: 200, G: 100, B: 255, A: 255},
}

// Border draws the animated frame overlays around the screen edge. It
// carries layout only; animation phase comes in from the caller, so a
// single instance serves every expression.
type Border struct {
	rect  image.Rectangle
	width int
}

func NewBorder(screenW, screenH int) Border {
	m := defaultBorderMargin
	return Border{
		rect:  image.Rect(m, m, screenW-m, screenH-m),
		width: defaultBorderWidth,
	}
}

func (b Border) Rect() image.Rectangle { return b.rect }
func (b Border) Width() int            { return b.width }

func (b Border) DrawSolid(dst *Surface, c color.RGBA) {
	dst.StrokeRect(b.rect, b.width, c)
}

// DrawBlinking dims and brightens the border on a smoothed sine, so
// the frame appears to breathe light rather than cut on and off.
func (b Border) DrawBlinking(dst *Surface, c color.RGBA, t, speed float64) {
	phase := (math.Sin(t*speed*4) + 1) / 2
	k := 0.2 + 0.8*easing.EaseInOutCubic(phase)
	b.DrawSolid(dst, ScaleRGB(c, k))
}

// DrawFlash draws the border only on the high half of a square wave:
// the hard on/off pattern used while speaking.
func (b Border) DrawFlash(dst *Surface, c color.RGBA, t, speed float64) {
	if math.Mod(t*speed, 1) < 0.5 {
		b.DrawSolid(dst, c)
	}
}

// DrawPulsing swells the stroke width and brightness together. amp
// scales how far the stroke grows past its resting width.
func (b Border) DrawPulsing(dst *Surface, c color.RGBA, t, speed, amp float64) {
	p := easing.EaseInOutSine((math.Sin(t*speed*2) + 1) / 2)
	width := b.width + int(float64(b.width)*amp*p)
	k := 0.5 + 0.5*p
	dst.StrokeRect(b.rect, width, ScaleRGB(c, k))
}

// DrawRainbow walks the full hue circle at speed*60 degrees a second.
func (b Border) DrawRainbow(dst *Surface, t, speed float64) {
	hue := math.Mod(t*speed*60, 360)
	cr, cg, cb := hsvColor(hue, 1, 1)
	b.DrawSolid(dst, color.RGBA{R: cr, G: cg, B: cb, A: 255})
}

// DrawGradient shades the stroke from the outer edge inward through
// the given stops, one pixel ring at a time.
func (b Border) DrawGradient(dst *Surface, stops []color.RGBA) {
	if len(stops) < 2 {
		stops = []color.RGBA{White, CyanGlow}
	}
	if b.width < 2 {
		b.DrawSolid(dst, stops[0])
		return
	}
	seg := 1.0 / float64(len(stops)-1)
	for i := 0; i < b.width; i++ {
		ratio := float64(i) / float64(b.width-1)
		idx := int(ratio / seg)
		if idx > len(stops)-2 {
			idx = len(stops) - 2
		}
		local := (ratio - float64(idx)*seg) / seg
		dst.StrokeRect(b.rect.Inset(i), 1, LerpRGB(stops[idx], stops[idx+1], local))
	}
}

// DrawThinking cycles the pastel palette with a pulse on top. The
// intensity parameter speeds the cycle and widens the pulse together.
func (b Border) DrawThinking(dst *Surface, t, speed, intensity float64) {
	cycle := t * speed * intensity
	idx := int(cycle) % len(thinkingPalette)
	next := (idx + 1) % len(thinkingPalette)
	c := LerpRGB(thinkingPalette[idx], thinkingPalette[next], easing.EaseInOutCubic(math.Mod(cycle, 1)))
	b.DrawPulsing(dst, c, t, speed*0.7*intensity, intensity)
}
