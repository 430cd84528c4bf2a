package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/normanking/cortexface/internal/texcache"
)

const (
	glowLayerCount  = 8
	glowRadiusRatio = 0.4

	// Below this rendered height the eye is simply shut; drawing a
	// sliver of glow reads worse than drawing nothing.
	minVisibleHeight = 5

	arcStartDeg = 15.0
	arcEndDeg   = 165.0
	arcSegments = 60
	arcPasses   = 7
)

// blinkPresets are the openness levels warmed at startup. Runtime
// bucketing is finer, but a blink spends most of its time near these.
var blinkPresets = [...]float64{1.0, 0.8, 0.6, 0.4, 0.2}

// EyeRenderer draws the glowing eyes. Every texture is pulled through
// the cache keyed on quantized blink and intensity, so a steady gaze
// costs two additive blits per frame and nothing else.
type EyeRenderer struct {
	geo   Geometry
	cache *texcache.Cache
	glow  color.RGBA
	log   zerolog.Logger
}

func NewEyeRenderer(geo Geometry, cache *texcache.Cache, glow color.RGBA, log zerolog.Logger) *EyeRenderer {
	return &EyeRenderer{
		geo:   geo,
		cache: cache,
		glow:  glow,
		log:   log.With().Str("component", "eye").Logger(),
	}
}

func (r *EyeRenderer) Geometry() Geometry { return r.geo }

// DrawEyes paints both eyes at the given openness and glow intensity,
// shifted by the gaze vector. A nearly shut eye draws nothing, which
// reads as the closed frame of a blink.
func (r *EyeRenderer) DrawEyes(dst *Surface, gaze mgl64.Vec2, openness, intensity float64) error {
	key := r.glowKey(openness, intensity)
	if int(float64(key.Height)*key.BlinkAmount()) <= minVisibleHeight {
		return nil
	}
	tex, err := r.cache.GetOrCreate(key, func() (*image.NRGBA, error) {
		return glowTexture(key)
	})
	if err != nil {
		return &ResourceError{Op: "eye glow", Err: err}
	}

	off := r.geo.GazeOffset(gaze)
	r.blitCentered(dst, tex, r.geo.LeftCenter.Add(off))
	r.blitCentered(dst, tex, r.geo.RightCenter.Add(off))
	return nil
}

// DrawRestingEyes paints the sleeping face: two glowing arcs that
// swell and shrink with the breathing value instead of blinking or
// wandering. The breath is folded into the texture dimensions, whole
// pixels only, so a full cycle touches a dozen cache entries and then
// reuses them forever.
func (r *EyeRenderer) DrawRestingEyes(dst *Surface, breath float64) error {
	key := r.arcKey(breath)
	tex, err := r.cache.GetOrCreate(key, func() (*image.NRGBA, error) {
		return arcTexture(key)
	})
	if err != nil {
		return &ResourceError{Op: "eye arc", Err: err}
	}

	r.blitCentered(dst, tex, r.geo.LeftCenter)
	r.blitCentered(dst, tex, r.geo.RightCenter)
	return nil
}

// Preload warms the textures a session touches in its first seconds:
// every blink preset at unit intensity plus the resting arcs. Entries
// already persisted load instead of synthesizing, which is the point.
func (r *EyeRenderer) Preload() error {
	for _, openness := range blinkPresets {
		key := r.glowKey(openness, 1.0)
		if _, err := r.cache.GetOrCreate(key, func() (*image.NRGBA, error) {
			return glowTexture(key)
		}); err != nil {
			return err
		}
	}
	arc := r.arcKey(0)
	if _, err := r.cache.GetOrCreate(arc, func() (*image.NRGBA, error) {
		return arcTexture(arc)
	}); err != nil {
		return err
	}
	r.log.Debug().Int("textures", r.cache.Len()).Msg("textures preloaded")
	return nil
}

func (r *EyeRenderer) glowKey(openness, intensity float64) texcache.Key {
	return texcache.Key{
		Kind:            texcache.KindEyeGlow,
		Width:           r.geo.EyeW,
		Height:          r.geo.EyeH,
		Color:           texcache.RGB{R: r.glow.R, G: r.glow.G, B: r.glow.B},
		Layers:          glowLayerCount,
		BlinkBucket:     texcache.BucketBlink(openness),
		IntensityBucket: texcache.BucketIntensity(intensity),
	}
}

func (r *EyeRenderer) arcKey(breath float64) texcache.Key {
	swell := int(math.Round(breath))
	return texcache.Key{
		Kind:            texcache.KindEyeArc,
		Width:           r.geo.EyeW + swell,
		Height:          r.geo.EyeH + swell,
		Color:           texcache.RGB{R: 255, G: 255, B: 255},
		Layers:          arcPasses,
		BlinkBucket:     texcache.BucketBlink(1.0),
		IntensityBucket: texcache.BucketIntensity(1.0),
	}
}

func (r *EyeRenderer) blitCentered(dst *Surface, tex *image.NRGBA, center image.Point) {
	sz := tex.Bounds().Size()
	dst.BlitAdd(tex, image.Point{X: center.X - sz.X/2, Y: center.Y - sz.Y/2})
}

// glowTexture synthesizes one eye: concentric flat ellipses stepping
// from black at the rim through the glow color to a white core, the
// core sized to the eye box and the halo extending one glow radius
// beyond it. Layers paint opaquely back to front; softness comes from
// the additive screen blit, where the dark outer bands sink into the
// background. Content is a pure function of the key, which is what
// lets the cache silently reuse or regenerate entries.
func glowTexture(key texcache.Key) (*image.NRGBA, error) {
	w := key.Width
	h := int(float64(key.Height) * key.BlinkAmount())
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("degenerate eye box %dx%d", w, h)
	}

	glow := int(float64(min(w, h)) * glowRadiusRatio)
	img := image.NewNRGBA(image.Rect(0, 0, w+glow*2, h+glow*2))

	glowColor := color.RGBA{R: key.Color.R, G: key.Color.G, B: key.Color.B, A: 255}
	for _, l := range glowLayers(White, glowColor, key.Layers, key.Intensity()) {
		lw := int(float64(w) + float64(glow*2)*l.size)
		lh := int(float64(h) + float64(glow*2)*l.size)
		if lw <= 0 || lh <= 0 {
			continue
		}
		fillEllipse(img, centeredRect(img.Bounds(), lw, lh), l.color)
	}
	return img, nil
}

type glowLayer struct {
	size  float64 // 1.0 at the rim, 0.0 at the core
	color color.NRGBA
}

// glowLayers builds the color ramp with the hue anchored to the glow
// color: the outer half rises out of black, the inner half blends
// toward the core. Intensity scales the glow brightness before the
// ramp is built, so a dim eye stays dim all the way in.
func glowLayers(core, glow color.RGBA, n int, intensity float64) []glowLayer {
	if n < 2 {
		n = 2
	}
	glowH, glowS, glowV := hsvOf(glow)
	_, coreS, coreV := hsvOf(core)
	glowV *= intensity
	if glowV > 1 {
		glowV = 1
	}

	layers := make([]glowLayer, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		var s, v float64
		if t < 0.5 {
			k := t * 2
			s = glowS
			v = glowV * k
		} else {
			k := (t - 0.5) * 2
			s = glowS + (coreS-glowS)*k
			v = glowV + (coreV-glowV)*k
		}
		cr, cg, cb := hsvColor(glowH, s, v)
		layers = append(layers, glowLayer{
			size:  1 - t,
			color: color.NRGBA{R: cr, G: cg, B: cb, A: 255},
		})
	}
	return layers
}

// arcTexture synthesizes the resting eye: a circular arc from 15 to
// 165 degrees brushed in white, wrapped in progressively wider and
// fainter passes for the glow falloff. Like the ellipse glow, content
// is a pure function of the key.
func arcTexture(key texcache.Key) (*image.NRGBA, error) {
	w, h := key.Width, key.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("degenerate arc box %dx%d", w, h)
	}

	thickness := int(float64(h) * 0.05)
	if thickness < 3 {
		thickness = 3
	}
	glow := min(w, h) / 6
	img := image.NewNRGBA(image.Rect(0, 0, w+glow*2, h+glow*2))

	cx := float64(img.Bounds().Dx()) / 2
	cy := float64(img.Bounds().Dy()) / 2
	radius := float64(min(w, h)) / 2
	pts := arcPoints(cx, cy, radius, arcStartDeg, arcEndDeg, arcSegments)

	passes := []struct {
		width int
		alpha uint8
	}{
		{glow, 5},
		{glow * 3 / 4, 10},
		{glow / 2, 20},
		{glow / 3, 30},
		{glow / 4, 40},
		{thickness * 2, 60},
		{thickness, 80},
	}
	for _, p := range passes {
		brushStroke(img, pts, p.width, color.NRGBA{R: 255, G: 255, B: 255, A: p.alpha})
	}
	brushStroke(img, pts, thickness, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return img, nil
}

func arcPoints(cx, cy, radius, startDeg, endDeg float64, segments int) []mgl64.Vec2 {
	start := startDeg * math.Pi / 180
	end := endDeg * math.Pi / 180
	pts := make([]mgl64.Vec2, 0, segments+1)
	for i := 0; i <= segments; i++ {
		a := start + (end-start)*float64(i)/float64(segments)
		pts = append(pts, mgl64.Vec2{cx + radius*math.Cos(a), cy + radius*math.Sin(a)})
	}
	return pts
}

// brushStroke stamps discs along the polyline, spaced at half the
// brush width so the stroke reads as a continuous line.
func brushStroke(img *image.NRGBA, pts []mgl64.Vec2, width int, c color.NRGBA) {
	r := width / 2
	if r < 1 {
		r = 1
	}
	for i, p := range pts {
		stampDisc(img, p, r, c)
		if i+1 >= len(pts) {
			continue
		}
		seg := pts[i+1].Sub(p)
		steps := int(seg.Len() / float64(r))
		for j := 1; j < steps; j++ {
			stampDisc(img, p.Add(seg.Mul(float64(j)/float64(steps))), r, c)
		}
	}
}

// stampDisc overwrites a filled disc. Glow passes rely on replacement
// rather than blending, so overlapping stamps stay flat.
func stampDisc(img *image.NRGBA, at mgl64.Vec2, r int, c color.NRGBA) {
	b := img.Bounds()
	rf := float64(r)
	for y := int(math.Floor(at.Y() - rf)); y <= int(math.Ceil(at.Y()+rf)); y++ {
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		dy := float64(y) + 0.5 - at.Y()
		rem := rf*rf - dy*dy
		if rem < 0 {
			continue
		}
		span := math.Sqrt(rem)
		for x := int(math.Ceil(at.X() - span - 0.5)); float64(x)+0.5 <= at.X()+span; x++ {
			if x < b.Min.X || x >= b.Max.X {
				continue
			}
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
}

// fillEllipse paints an opaque axis-aligned ellipse inscribed in r,
// overwriting whatever is below it.
func fillEllipse(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return
	}
	cx := float64(r.Min.X) + float64(r.Dx())/2
	cy := float64(r.Min.Y) + float64(r.Dy())/2
	rx := float64(r.Dx()) / 2
	ry := float64(r.Dy()) / 2

	clip := r.Intersect(img.Bounds())
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		dy := (float64(y) + 0.5 - cy) / ry
		rem := 1 - dy*dy
		if rem < 0 {
			continue
		}
		span := rx * math.Sqrt(rem)
		for x := int(math.Ceil(cx - span - 0.5)); float64(x)+0.5 <= cx+span; x++ {
			if x < clip.Min.X || x >= clip.Max.X {
				continue
			}
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
}

func centeredRect(in image.Rectangle, w, h int) image.Rectangle {
	x := in.Min.X + (in.Dx()-w)/2
	y := in.Min.Y + (in.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}
