package command

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/cortexface/internal/face"
)

func TestParseChangeState(t *testing.T) {
	cmd, perr := Parse([]byte(`{"command":"change_state","state":"thinking","parameters":{"intensity":1.2}}`))

	require.Nil(t, perr)
	assert.Equal(t, KindChangeState, cmd.Kind)
	assert.Equal(t, face.Thinking, cmd.State)
	assert.Equal(t, 1.2, cmd.Params["intensity"])
}

func TestParseChangeStateWithoutParameters(t *testing.T) {
	cmd, perr := Parse([]byte(`{"command":"change_state","state":"resting"}`))

	require.Nil(t, perr)
	assert.Equal(t, face.Resting, cmd.State)
	assert.Empty(t, cmd.Params)
}

func TestParseValueCoercion(t *testing.T) {
	cases := []struct {
		value string
		want  float64
	}{
		{`2`, 2},
		{`0.5`, 0.5},
		{`"1.5"`, 1.5},
		{`"true"`, 1},
		{`"false"`, 0},
		{`true`, 1},
		{`false`, 0},
	}
	for _, tc := range cases {
		line := fmt.Sprintf(`{"command":"set_parameter","name":"paused","value":%s}`, tc.value)
		cmd, perr := Parse([]byte(line))
		require.Nil(t, perr, "value %s", tc.value)
		assert.Equal(t, KindSetParameter, cmd.Kind)
		assert.Equal(t, "paused", cmd.Name)
		assert.Equal(t, tc.want, cmd.Value, "value %s", tc.value)
	}
}

func TestParseQueryKinds(t *testing.T) {
	for _, k := range []Kind{KindGetStatus, KindPing, KindShutdown} {
		cmd, perr := Parse([]byte(fmt.Sprintf(`{"command":%q}`, k)))
		require.Nil(t, perr)
		assert.Equal(t, k, cmd.Kind)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		line string
		code string
	}{
		{"malformed json", `{"command":`, CodeMalformed},
		{"not an object", `[1,2,3]`, CodeMalformed},
		{"empty object", `{}`, CodeMissingCommand},
		{"unknown command", `{"command":"dance"}`, CodeUnknownCommand},
		{"internal kind refused", `{"command":"invalidate_texture"}`, CodeUnknownCommand},
		{"state missing", `{"command":"change_state"}`, CodeMissingState},
		{"state unknown", `{"command":"change_state","state":"flying"}`, CodeUnknownState},
		{"parameter not numeric", `{"command":"change_state","state":"idle","parameters":{"intensity":"warp"}}`, CodeInvalidParameters},
		{"name missing", `{"command":"set_parameter","value":1}`, CodeMissingName},
		{"value missing", `{"command":"set_parameter","name":"intensity"}`, CodeMissingValue},
		{"value not numeric", `{"command":"set_parameter","name":"intensity","value":"loud"}`, CodeInvalidValue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, perr := Parse([]byte(tc.line))
			require.NotNil(t, perr)
			assert.Equal(t, tc.code, perr.Code)
		})
	}
}

func TestQueueDrainsInArrivalOrder(t *testing.T) {
	q := NewQueue()
	q.Push(Command{Kind: KindSetParameter, Name: "a"})
	q.Push(Command{Kind: KindSetParameter, Name: "b"})
	q.Push(Command{Kind: KindSetParameter, Name: "c"})
	assert.Equal(t, 3, q.Len())

	got := q.Drain()
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "b", got[1].Name)
	assert.Equal(t, "c", got[2].Name)

	assert.Zero(t, q.Len())
	assert.Empty(t, q.Drain())
}

func TestQueueKeepsPerWriterOrderUnderContention(t *testing.T) {
	q := NewQueue()
	const writers, perWriter = 8, 200

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			name := fmt.Sprintf("w%d", w)
			for i := 0; i < perWriter; i++ {
				q.Push(Command{Kind: KindSetParameter, Name: name, Value: float64(i)})
			}
		}(w)
	}
	wg.Wait()

	got := q.Drain()
	require.Len(t, got, writers*perWriter)

	last := map[string]float64{}
	for _, cmd := range got {
		if prev, seen := last[cmd.Name]; seen && cmd.Value <= prev {
			t.Fatalf("writer %s: value %v arrived after %v", cmd.Name, cmd.Value, prev)
		}
		last[cmd.Name] = cmd.Value
	}
}
