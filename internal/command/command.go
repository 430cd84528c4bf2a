// Package command is the network face of the renderer: a TCP listener that
// decodes newline-delimited JSON commands, validates them, and hands them to
// the render loop through a single FIFO queue. The queue is the only
// structure shared between the connection goroutines and the loop.
package command

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/normanking/cortexface/internal/face"
)

// Kind discriminates queued commands.
type Kind string

const (
	KindChangeState  Kind = "change_state"
	KindSetParameter Kind = "set_parameter"
	KindGetStatus    Kind = "get_status"
	KindPing         Kind = "ping"
	KindShutdown     Kind = "shutdown"

	// KindInvalidateTexture is internal only: the cache watcher enqueues it
	// when a persisted texture changes on disk, so eviction happens on the
	// loop thread. It is never accepted from the wire.
	KindInvalidateTexture Kind = "invalidate_texture"
)

// Command is one validated client instruction. Immutable once built;
// consumed exactly once by the render loop.
type Command struct {
	Kind      Kind
	State     face.Expression // change_state target
	Name      string          // set_parameter name
	Value     float64         // set_parameter value
	Params    face.Params     // change_state parameters
	TextureID string          // invalidate_texture entry
}

// wire is the raw JSON layout of one command line.
type wire struct {
	Command    string         `json:"command"`
	State      string         `json:"state"`
	Name       string         `json:"name"`
	Value      any            `json:"value"`
	Parameters map[string]any `json:"parameters"`
}

// Parse decodes and validates one JSON line. A returned *Error carries the
// machine-readable code for the reply; the connection stays usable either
// way.
func Parse(line []byte) (Command, *Error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var w wire
	if err := dec.Decode(&w); err != nil {
		return Command{}, errf(CodeMalformed, "not a JSON command: %v", err)
	}
	if w.Command == "" {
		return Command{}, errf(CodeMissingCommand, "no command field")
	}

	switch Kind(w.Command) {
	case KindChangeState:
		return parseChangeState(w)
	case KindSetParameter:
		return parseSetParameter(w)
	case KindGetStatus:
		return Command{Kind: KindGetStatus}, nil
	case KindPing:
		return Command{Kind: KindPing}, nil
	case KindShutdown:
		return Command{Kind: KindShutdown}, nil
	default:
		return Command{}, errf(CodeUnknownCommand, "unknown command %q", w.Command)
	}
}

func parseChangeState(w wire) (Command, *Error) {
	if w.State == "" {
		return Command{}, errf(CodeMissingState, "change_state needs a state")
	}
	target, ok := face.ParseExpression(w.State)
	if !ok {
		return Command{}, errf(CodeUnknownState, "unknown state %q", w.State)
	}

	params := face.Params{}
	for name, raw := range w.Parameters {
		v, ok := coerce(raw)
		if !ok {
			return Command{}, errf(CodeInvalidParameters, "parameter %q is not numeric", name)
		}
		params[name] = v
	}
	return Command{Kind: KindChangeState, State: target, Params: params}, nil
}

func parseSetParameter(w wire) (Command, *Error) {
	if w.Name == "" {
		return Command{}, errf(CodeMissingName, "set_parameter needs a name")
	}
	if w.Value == nil {
		return Command{}, errf(CodeMissingValue, "set_parameter needs a value")
	}
	v, ok := coerce(w.Value)
	if !ok {
		return Command{}, errf(CodeInvalidValue, "value for %q is not numeric", w.Name)
	}
	return Command{Kind: KindSetParameter, Name: w.Name, Value: v}, nil
}

// coerce accepts the value shapes controllers actually send: JSON numbers,
// numeric strings, and booleans (pause toggles arrive as true/false).
func coerce(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f, true
		}
		switch strings.ToLower(t) {
		case "true":
			return 1, true
		case "false":
			return 0, true
		}
		return 0, false
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
