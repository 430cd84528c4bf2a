package render

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Face palette. The eyes glow cyan around a white-hot core on a black
// field; blue-white is reserved for HUD text.
var (
	Black     = color.RGBA{0, 0, 0, 255}
	White     = color.RGBA{255, 255, 255, 255}
	CyanGlow  = color.RGBA{0, 255, 255, 255}
	BlueWhite = color.RGBA{180, 200, 255, 255}
)

// ParseHex reads "#rrggbb" or "#rgb" into an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}, nil
}

// LerpRGB blends a toward b component-wise. t outside [0,1] is clamped.
func LerpRGB(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return color.RGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: 255,
	}
}

// ScaleRGB multiplies the color channels by k, saturating at white.
// Dimming a border happens here rather than through alpha, since the
// frame is composed on an opaque surface.
func ScaleRGB(c color.RGBA, k float64) color.RGBA {
	if k < 0 {
		k = 0
	}
	scale := func(v uint8) uint8 {
		s := float64(v) * k
		if s > 255 {
			return 255
		}
		return uint8(s)
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: 255}
}

func hsvOf(c color.RGBA) (h, s, v float64) {
	cc, _ := colorful.MakeColor(color.RGBA{c.R, c.G, c.B, 255})
	return cc.Hsv()
}

func hsvColor(h, s, v float64) (r, g, b uint8) {
	return colorful.Hsv(h, s, v).Clamped().RGB255()
}
