package face

import (
	"math"

	"github.com/normanking/cortexface/internal/render"
)

const (
	breathSpeed     = 0.5 // breath cycles per second
	breathAmplitude = 5.0 // px of size swell at full inhale
)

// RestingVariant draws the sleeping face: closed arc eyes swelling
// and shrinking on a slow sinusoidal breath. No blinking, no gaze,
// no border.
type RestingVariant struct {
	r      Renderers
	phase  float64
	params Params
}

func NewRestingVariant(r Renderers) *RestingVariant {
	return &RestingVariant{r: r, params: Params{}}
}

func (v *RestingVariant) Kind() Expression { return Resting }

func (v *RestingVariant) Enter(params Params) {
	v.params.Merge(params)
	v.phase = 0
}

func (v *RestingVariant) Update(dt float64) {
	v.phase += dt * breathSpeed * 2 * math.Pi
}

func (v *RestingVariant) Render(dst *render.Surface) error {
	dst.Fill(render.Black)
	return v.r.Eyes.DrawRestingEyes(dst, math.Sin(v.phase)*breathAmplitude)
}

func (v *RestingVariant) Exit() {}

func (v *RestingVariant) SetParameter(name string, value float64) {
	v.params[name] = ClampParam(value)
}

func (v *RestingVariant) Parameters() Params { return v.params.Clone() }
