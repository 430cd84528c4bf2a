package face

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/normanking/cortexface/internal/metrics"
	"github.com/normanking/cortexface/internal/render"
)

// Machine owns the live expression handle. Transitions, updates and
// renders all happen synchronously on the render loop goroutine; a
// transition always takes effect before the update of the tick that
// carried it.
type Machine struct {
	log    zerolog.Logger
	build  func(Expression) Handle
	active Handle
}

func NewMachine(build func(Expression) Handle, initial Expression, log zerolog.Logger) *Machine {
	m := &Machine{
		log:   log.With().Str("component", "face").Logger(),
		build: build,
	}
	m.swap(initial, Params{})
	return m
}

// Request applies a transition. Requesting the active expression again
// is a no-op unless parameters differ, in which case the changed values
// are routed to the live handle instead of re-entering it; a full
// re-enter would visibly reset blink and border phase for nothing.
func (m *Machine) Request(target Expression, params Params) error {
	if _, ok := ParseExpression(string(target)); !ok {
		return fmt.Errorf("unknown expression %q", target)
	}

	if m.active.Kind() == target {
		current := m.active.Parameters()
		for name, v := range params {
			if cur, ok := current[name]; !ok || cur != ClampParam(v) {
				m.active.SetParameter(name, v)
			}
		}
		return nil
	}

	m.active.Exit()
	m.swap(target, params)
	return nil
}

func (m *Machine) swap(target Expression, params Params) {
	from := ""
	if m.active != nil {
		from = string(m.active.Kind())
	}
	next := m.build(target)
	next.Enter(params)
	m.active = next

	metrics.StateTransitions.WithLabelValues(from, string(target)).Inc()
	m.log.Info().Str("from", from).Str("to", string(target)).Msg("expression changed")
}

// SetParameter updates one tuning value on the live handle.
func (m *Machine) SetParameter(name string, value float64) {
	m.active.SetParameter(name, value)
}

func (m *Machine) Update(dt float64) {
	m.active.Update(dt)
}

func (m *Machine) Render(dst *render.Surface) error {
	return m.active.Render(dst)
}

func (m *Machine) Active() Expression { return m.active.Kind() }

func (m *Machine) Parameters() Params { return m.active.Parameters() }
