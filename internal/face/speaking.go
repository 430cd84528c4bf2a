package face

import (
	"github.com/normanking/cortexface/internal/anim"
	"github.com/normanking/cortexface/internal/render"
)

// speakingFlashSpeed is the flash rate in cycles per second.
const speakingFlashSpeed = 4.0

// SpeakingVariant flashes the border white on a hard duty cycle while
// the eyes keep their idle motion. Intensity scales flash brightness.
// Setting paused >= 0.5 freezes the flash phase in place, so resuming
// picks up exactly where speech stopped.
type SpeakingVariant struct {
	r      Renderers
	blink  *anim.Blinker
	gaze   *anim.Gaze
	phase  float64 // advances only while unpaused
	params Params
}

func NewSpeakingVariant(r Renderers, tun Tunables) *SpeakingVariant {
	return &SpeakingVariant{
		r:      r,
		blink:  anim.NewBlinker(tun.BlinkDuration, tun.BlinkGapMin, tun.BlinkGapMax),
		gaze:   anim.NewGaze(tun.GazeIdleMin, tun.GazeIdleMax, tun.GazeGlideMin, tun.GazeGlideMax),
		params: Params{},
	}
}

func (v *SpeakingVariant) Kind() Expression { return Speaking }

func (v *SpeakingVariant) Enter(params Params) {
	v.params.Merge(params)
	v.phase = 0
}

func (v *SpeakingVariant) Paused() bool {
	return v.params.Value(ParamPaused, 0) >= 0.5
}

func (v *SpeakingVariant) Update(dt float64) {
	v.blink.Update(dt)
	v.gaze.Update(dt)
	if !v.Paused() {
		v.phase += dt
	}
}

func (v *SpeakingVariant) Render(dst *render.Surface) error {
	dst.Fill(render.Black)
	intensity := v.params.Value(ParamIntensity, 1.0)
	openness := 1 - v.blink.Amount()*(1-blinkHeightRatio)
	if err := v.r.Eyes.DrawEyes(dst, v.gaze.Vec(), openness, intensity); err != nil {
		return err
	}
	v.r.Border.DrawFlash(dst, render.ScaleRGB(render.White, intensity), v.phase, speakingFlashSpeed)
	return nil
}

func (v *SpeakingVariant) Exit() {}

func (v *SpeakingVariant) SetParameter(name string, value float64) {
	v.params[name] = ClampParam(value)
}

func (v *SpeakingVariant) Parameters() Params { return v.params.Clone() }
