// Package display owns the window the face is shown in.
//
// The render loop draws into a CPU surface; a Sink's only job is to put
// that surface in front of the user. Binaries built with the gl tag get
// a real GLFW window, everything else (tests, headless boards) gets the
// null sink.
package display

import (
	"fmt"
	"image"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/normanking/cortexface/internal/config"
)

// Sink receives one finished frame per tick.
type Sink interface {
	// Present shows the frame. The backing pixels are reused by the
	// caller on the next tick, so implementations must not keep the
	// slice past the call.
	Present(frame *image.RGBA) error
	// ShouldClose reports that the user asked the window to go away.
	ShouldClose() bool
	Close()
	Name() string
}

// New picks a sink for the configured display mode. Mode "auto" tries
// to open a window and falls back to the null sink when the binary or
// the machine has no display support; "gl" fails loudly instead.
func New(cfg config.WindowConfig, log zerolog.Logger) (Sink, error) {
	switch cfg.Display {
	case "none":
		return NewNull(), nil
	case "gl":
		return newWindow(cfg, log)
	case "auto", "":
		sink, err := newWindow(cfg, log)
		if err != nil {
			log.Warn().Err(err).Msg("window unavailable, rendering headless")
			return NewNull(), nil
		}
		return sink, nil
	default:
		return nil, fmt.Errorf("unknown display mode %q", cfg.Display)
	}
}

// Null swallows frames. It never asks to close, so headless instances
// run until a shutdown command or a signal stops them.
type Null struct {
	frames atomic.Uint64
}

func NewNull() *Null { return &Null{} }

func (n *Null) Present(frame *image.RGBA) error {
	n.frames.Add(1)
	return nil
}

func (n *Null) ShouldClose() bool { return false }
func (n *Null) Close()            {}
func (n *Null) Name() string      { return "null" }

// Frames reports how many frames were presented.
func (n *Null) Frames() uint64 { return n.frames.Load() }
