package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/normanking/cortexface/internal/command"
	"github.com/normanking/cortexface/internal/face"
	"github.com/normanking/cortexface/internal/metrics"
)

// maxFrameDelta caps the simulated time of one tick. After a stall the
// face resumes from where it was instead of fast-forwarding blinks and
// pulses through the gap.
const maxFrameDelta = 0.1

// Run starts the servers and drives the render loop until the context
// is cancelled, a shutdown command is honored or the window is closed.
func (a *App) Run(ctx context.Context) error {
	if err := a.cmdSrv.Start(a.cfg.Command.Addr()); err != nil {
		return err
	}
	if a.webSrv != nil {
		if err := a.webSrv.Start(); err != nil {
			a.cmdSrv.Stop()
			return err
		}
	}
	if a.janitor != nil {
		a.janitor.Start()
	}

	a.clock.reset()
	started := a.log.Info().
		Str("command", a.cmdSrv.Addr().String()).
		Str("display", a.sink.Name()).
		Int("target_fps", a.cfg.Window.TargetFPS)
	if a.webSrv != nil {
		started = started.Str("web", a.webSrv.Addr().String())
	}
	started.Msg("face up")

	err := a.loop(ctx)
	a.close()
	return err
}

func (a *App) loop(ctx context.Context) error {
	fps := a.cfg.Window.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	tick := time.NewTicker(time.Second / time.Duration(fps))
	defer tick.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			a.log.Info().Msg("stopping on signal")
			return nil
		case now := <-tick.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > maxFrameDelta {
				dt = maxFrameDelta
			}
			if quit := a.step(dt); quit {
				return nil
			}
			if a.sink.ShouldClose() {
				a.log.Info().Msg("window closed")
				return nil
			}
		}
	}
}

// step runs one tick: drain the queue, apply what arrived, advance the
// animation, draw, publish. It reports whether a shutdown command was
// honored.
func (a *App) step(dt float64) bool {
	frameStart := time.Now()

	quit := false
	for _, cmd := range a.queue.Drain() {
		if cmd.Kind == command.KindShutdown {
			// The frame still finishes; anything queued behind a
			// shutdown never runs.
			a.log.Info().Msg("shutdown command honored")
			quit = true
			break
		}
		a.apply(cmd)
	}

	a.machine.Update(dt)

	if err := a.machine.Render(a.surface); err != nil {
		metrics.RenderSkips.Inc()
		a.log.Warn().Err(err).Msg("frame degraded, not presented")
	} else {
		if a.cfg.Window.HUD {
			a.hud.Draw(a.surface, a.hudLines())
		}
		if a.hub != nil {
			a.hub.Publish(a.surface)
		}
		if err := a.sink.Present(a.surface.RGBA()); err != nil {
			a.log.Warn().Err(err).Msg("present failed")
		}
	}

	a.clock.tally(frameStart)

	a.board.Publish(face.Status{
		State:      a.machine.Active(),
		Parameters: a.machine.Parameters(),
		FPS:        a.clock.fps,
		Frame:      a.clock.frame,
		UptimeSec:  frameStart.Sub(a.clock.start).Seconds(),
		QueueDepth: a.queue.Len(),
	})

	metrics.FramesTotal.Inc()
	metrics.FrameDuration.Observe(time.Since(frameStart).Seconds())
	return quit
}

func (a *App) apply(cmd command.Command) {
	switch cmd.Kind {
	case command.KindChangeState:
		if err := a.machine.Request(cmd.State, cmd.Params); err != nil {
			a.log.Warn().Err(err).Msg("transition rejected")
		}
	case command.KindSetParameter:
		a.machine.SetParameter(cmd.Name, cmd.Value)
	case command.KindInvalidateTexture:
		if a.cache.Invalidate(cmd.TextureID) {
			a.log.Debug().Str("texture", cmd.TextureID).Msg("texture dropped from memory")
		}
	}
}

func (a *App) hudLines() []string {
	lines := []string{
		fmt.Sprintf("state: %s", a.machine.Active()),
		fmt.Sprintf("fps: %.1f  frame: %d", a.clock.fps, a.clock.frame),
		fmt.Sprintf("queue: %d  textures: %d", a.queue.Len(), a.cache.Len()),
	}

	params := a.machine.Parameters()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s: %.2f", name, params[name]))
	}
	return lines
}

// close tears the assembly down, ingress first so nothing new lands in
// the queue while the fan-out side drains.
func (a *App) close() {
	a.cmdSrv.Stop()

	if a.webSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := a.webSrv.Shutdown(ctx); err != nil {
			a.log.Warn().Err(err).Msg("web server shutdown")
		}
		cancel()
	}
	if a.hub != nil {
		a.hub.Close()
	}
	if a.janitor != nil {
		a.janitor.Stop()
	}
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Warn().Err(err).Msg("cache watcher close")
		}
	}
	if err := a.cache.Close(); err != nil {
		a.log.Warn().Err(err).Msg("texture cache close")
	}
	a.sink.Close()

	a.log.Info().Uint64("frames", a.clock.frame).Msg("face down")
}

// loopClock tracks frame count and a once-per-second FPS estimate. Only
// the render loop touches it; readers get the values via the board.
type loopClock struct {
	start    time.Time
	frame    uint64
	fps      float64
	fpsCount int
	fpsSince time.Time
}

func (c *loopClock) reset() {
	c.start = time.Now()
	c.fpsSince = c.start
}

func (c *loopClock) tally(now time.Time) {
	c.frame++
	c.fpsCount++
	if since := now.Sub(c.fpsSince); since >= time.Second {
		c.fps = float64(c.fpsCount) / since.Seconds()
		c.fpsCount = 0
		c.fpsSince = now
		metrics.FPS.Set(c.fps)
	}
}
