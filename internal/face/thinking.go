package face

import (
	"github.com/normanking/cortexface/internal/anim"
	"github.com/normanking/cortexface/internal/render"
)

// thinkingCycleSpeed is the pastel cycle rate at unit intensity, in
// palette slots per second.
const thinkingCycleSpeed = 0.5

// ThinkingVariant keeps the idle eyes underneath and layers the
// cycling pastel border on top. Intensity speeds the cycle and widens
// the pulse together.
type ThinkingVariant struct {
	r       Renderers
	blink   *anim.Blinker
	gaze    *anim.Gaze
	elapsed float64
	params  Params
}

func NewThinkingVariant(r Renderers, tun Tunables) *ThinkingVariant {
	return &ThinkingVariant{
		r:      r,
		blink:  anim.NewBlinker(tun.BlinkDuration, tun.BlinkGapMin, tun.BlinkGapMax),
		gaze:   anim.NewGaze(tun.GazeIdleMin, tun.GazeIdleMax, tun.GazeGlideMin, tun.GazeGlideMax),
		params: Params{},
	}
}

func (v *ThinkingVariant) Kind() Expression { return Thinking }

func (v *ThinkingVariant) Enter(params Params) {
	v.params.Merge(params)
	v.elapsed = 0
}

func (v *ThinkingVariant) Update(dt float64) {
	v.blink.Update(dt)
	v.gaze.Update(dt)
	v.elapsed += dt
}

func (v *ThinkingVariant) Render(dst *render.Surface) error {
	dst.Fill(render.Black)
	intensity := v.params.Value(ParamIntensity, 1.0)
	openness := 1 - v.blink.Amount()*(1-blinkHeightRatio)
	if err := v.r.Eyes.DrawEyes(dst, v.gaze.Vec(), openness, intensity); err != nil {
		return err
	}
	v.r.Border.DrawThinking(dst, v.elapsed, thinkingCycleSpeed, intensity)
	return nil
}

func (v *ThinkingVariant) Exit() {}

func (v *ThinkingVariant) SetParameter(name string, value float64) {
	v.params[name] = ClampParam(value)
}

func (v *ThinkingVariant) Parameters() Params { return v.params.Clone() }
