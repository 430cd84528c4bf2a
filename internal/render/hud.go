package render

import (
	"image"
	"image/color"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	hudMargin   = 6
	hudLineGap  = 3
	hudCacheCap = 256
)

// HUD draws the debug text overlay. Lines are rasterized whole and
// cached by string; the overlay repeats the same strings for long
// stretches (state names, rounded FPS), so most frames never touch the
// rasterizer.
type HUD struct {
	face  font.Face
	color color.RGBA
	lines *lru.Cache[string, *image.NRGBA]
}

func NewHUD() *HUD {
	cache, _ := lru.New[string, *image.NRGBA](hudCacheCap) // errors only on non-positive size
	return &HUD{
		face:  basicfont.Face7x13,
		color: BlueWhite,
		lines: cache,
	}
}

// Draw stacks the lines down the top-left corner. An empty string
// leaves a blank row.
func (h *HUD) Draw(dst *Surface, lines []string) {
	y := hudMargin
	for _, line := range lines {
		if line == "" {
			y += h.face.Metrics().Height.Ceil() + hudLineGap
			continue
		}
		img := h.renderLine(line)
		dst.Blit(img, image.Point{X: hudMargin, Y: y})
		y += img.Bounds().Dy() + hudLineGap
	}
}

// CachedLines reports how many rasterized lines are resident.
func (h *HUD) CachedLines() int { return h.lines.Len() }

func (h *HUD) renderLine(s string) *image.NRGBA {
	if img, ok := h.lines.Get(s); ok {
		return img
	}

	m := h.face.Metrics()
	w := font.MeasureString(h.face, s).Ceil()
	img := image.NewNRGBA(image.Rect(0, 0, w, m.Height.Ceil()))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(h.color),
		Face: h.face,
		Dot:  fixed.P(0, m.Ascent.Ceil()),
	}
	d.DrawString(s)

	h.lines.Add(s, img)
	return img
}
