package render

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Geometry fixes the face layout for a surface size. Two tall ellipses
// sit either side of the screen centre, and every dimension derives
// from the smaller screen edge so the face scales with the panel.
type Geometry struct {
	ScreenW, ScreenH int
	EyeW, EyeH       int
	Spacing          int
	LeftCenter       image.Point
	RightCenter      image.Point
}

func FaceGeometry(width, height int) Geometry {
	base := width
	if height < base {
		base = height
	}
	base /= 3

	g := Geometry{
		ScreenW: width,
		ScreenH: height,
		EyeW:    int(float64(base) * 0.6),
		EyeH:    int(float64(base) * 1.4),
		Spacing: int(float64(base) * 1.2),
	}
	g.LeftCenter = image.Point{X: width/2 - g.Spacing, Y: height / 2}
	g.RightCenter = image.Point{X: width/2 + g.Spacing, Y: height / 2}
	return g
}

// GazeOffset maps a unit gaze vector to a pixel offset. The wander box
// is a fraction of the eye size, so the eyes shift without sliding off
// the face.
func (g Geometry) GazeOffset(v mgl64.Vec2) image.Point {
	return image.Point{
		X: int(math.Round(v.X() * float64(g.EyeW) / 1.5)),
		Y: int(math.Round(v.Y() * float64(g.EyeH) / 2.5)),
	}
}
