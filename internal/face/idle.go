package face

import (
	"github.com/normanking/cortexface/internal/anim"
	"github.com/normanking/cortexface/internal/render"
)

// blinkHeightRatio is the openness floor mid-blink. The eyes never
// render below a fifth of their height, so a blink reads as a lid
// coming down rather than the eye vanishing.
const blinkHeightRatio = 0.2

// IdleVariant blinks and wanders: the awake, unoccupied face every
// other expression builds on.
type IdleVariant struct {
	r      Renderers
	blink  *anim.Blinker
	gaze   *anim.Gaze
	params Params
}

func NewIdleVariant(r Renderers, tun Tunables) *IdleVariant {
	return &IdleVariant{
		r:      r,
		blink:  anim.NewBlinker(tun.BlinkDuration, tun.BlinkGapMin, tun.BlinkGapMax),
		gaze:   anim.NewGaze(tun.GazeIdleMin, tun.GazeIdleMax, tun.GazeGlideMin, tun.GazeGlideMax),
		params: Params{},
	}
}

func (v *IdleVariant) Kind() Expression { return Idle }

func (v *IdleVariant) Enter(params Params) {
	v.params.Merge(params)
}

func (v *IdleVariant) Update(dt float64) {
	v.blink.Update(dt)
	v.gaze.Update(dt)
}

func (v *IdleVariant) Render(dst *render.Surface) error {
	dst.Fill(render.Black)
	openness := 1 - v.blink.Amount()*(1-blinkHeightRatio)
	return v.r.Eyes.DrawEyes(dst, v.gaze.Vec(), openness, v.params.Value(ParamIntensity, 1.0))
}

func (v *IdleVariant) Exit() {}

func (v *IdleVariant) SetParameter(name string, value float64) {
	v.params[name] = ClampParam(value)
}

func (v *IdleVariant) Parameters() Params { return v.params.Clone() }
