// Package face holds the expression state machine and its variants.
// Exactly one variant is live at a time; the machine swaps them
// synchronously on the render loop goroutine, so nothing here is
// locked except the status board.
package face

// Expression is the coarse emotional state selected over the wire.
type Expression string

const (
	Idle     Expression = "idle"
	Thinking Expression = "thinking"
	Speaking Expression = "speaking"
	Resting  Expression = "resting"
)

// Expressions lists every legal value in display order.
func Expressions() []Expression {
	return []Expression{Idle, Thinking, Speaking, Resting}
}

// ParseExpression validates a wire-supplied name.
func ParseExpression(s string) (Expression, bool) {
	switch Expression(s) {
	case Idle, Thinking, Speaking, Resting:
		return Expression(s), true
	}
	return "", false
}

// Well-known parameter names. Unknown names are stored and echoed in
// status but ignored by rendering.
const (
	ParamIntensity = "intensity"
	ParamPaused    = "paused"
)

// Parameter values are clamped to this range on the way in. Clamping
// is silent: controllers ramping a value routinely overshoot, and
// bouncing those requests would churn the wire for no benefit.
const (
	ParamMin = 0.1
	ParamMax = 3.0
)

func ClampParam(v float64) float64 {
	if v < ParamMin {
		return ParamMin
	}
	if v > ParamMax {
		return ParamMax
	}
	return v
}

// Params carries the per-expression tuning values.
type Params map[string]float64

// Value reads a parameter with a fallback for ones never set.
func (p Params) Value(name string, fallback float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return fallback
}

// Merge copies src values in, clamping each.
func (p Params) Merge(src Params) {
	for k, v := range src {
		p[k] = ClampParam(v)
	}
}

func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func (p Params) Equal(o Params) bool {
	if len(p) != len(o) {
		return false
	}
	for k, v := range p {
		if ov, ok := o[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
