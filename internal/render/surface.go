package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Surface is the CPU-side frame target. One instance is allocated at
// startup and reused every tick; all drawing happens on the render loop
// goroutine, so none of it is synchronized.
type Surface struct {
	img *image.RGBA
}

func NewSurface(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, &ResourceError{Op: "surface", Err: fmt.Errorf("invalid size %dx%d", width, height)}
	}
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}, nil
}

func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }
func (s *Surface) Width() int              { return s.img.Bounds().Dx() }
func (s *Surface) Height() int             { return s.img.Bounds().Dy() }

// RGBA exposes the backing image for presentation sinks.
func (s *Surface) RGBA() *image.RGBA { return s.img }

// Snapshot copies the current frame so it can leave the render loop.
func (s *Surface) Snapshot() *image.RGBA {
	dup := image.NewRGBA(s.img.Bounds())
	copy(dup.Pix, s.img.Pix)
	return dup
}

// Fill paints the whole surface with an opaque color.
func (s *Surface) Fill(c color.RGBA) {
	c.A = 255
	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
}

// FillRect paints an opaque axis-aligned rectangle, clipped to the surface.
func (s *Surface) FillRect(r image.Rectangle, c color.RGBA) {
	c.A = 255
	draw.Draw(s.img, r.Intersect(s.img.Bounds()), &image.Uniform{c}, image.Point{}, draw.Src)
}

// StrokeRect paints the four edges of r at the given stroke width,
// growing inward like a picture frame.
func (s *Surface) StrokeRect(r image.Rectangle, width int, c color.RGBA) {
	if width <= 0 || r.Empty() {
		return
	}
	if width*2 >= r.Dx() || width*2 >= r.Dy() {
		s.FillRect(r, c)
		return
	}
	s.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), c)
	s.FillRect(image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), c)
	s.FillRect(image.Rect(r.Min.X, r.Min.Y+width, r.Min.X+width, r.Max.Y-width), c)
	s.FillRect(image.Rect(r.Max.X-width, r.Min.Y+width, r.Max.X, r.Max.Y-width), c)
}

// Blit composites src over the surface with ordinary alpha blending.
func (s *Surface) Blit(src image.Image, at image.Point) {
	r := src.Bounds().Sub(src.Bounds().Min).Add(at)
	draw.Draw(s.img, r, src, src.Bounds().Min, draw.Over)
}

// BlitAdd composites src additively: each channel is scaled by the
// source alpha and added to the destination, saturating at white. This
// is what makes overlapping glow halos brighten instead of occlude.
func (s *Surface) BlitAdd(src *image.NRGBA, at image.Point) {
	sb := src.Bounds()
	dst := image.Rectangle{Min: at, Max: at.Add(sb.Size())}.Intersect(s.img.Bounds())
	if dst.Empty() {
		return
	}

	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		sy := sb.Min.Y + (y - at.Y)
		di := s.img.PixOffset(dst.Min.X, y)
		si := src.PixOffset(sb.Min.X+(dst.Min.X-at.X), sy)
		for x := dst.Min.X; x < dst.Max.X; x++ {
			a := uint32(src.Pix[si+3])
			if a != 0 {
				s.img.Pix[di+0] = addClamp(s.img.Pix[di+0], uint8(uint32(src.Pix[si+0])*a/255))
				s.img.Pix[di+1] = addClamp(s.img.Pix[di+1], uint8(uint32(src.Pix[si+1])*a/255))
				s.img.Pix[di+2] = addClamp(s.img.Pix[di+2], uint8(uint32(src.Pix[si+2])*a/255))
				s.img.Pix[di+3] = 255
			}
			di += 4
			si += 4
		}
	}
}

func addClamp(a, b uint8) uint8 {
	v := uint16(a) + uint16(b)
	if v > 255 {
		return 255
	}
	return uint8(v)
}
