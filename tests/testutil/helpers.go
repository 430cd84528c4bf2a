// Package testutil boots fully wired faces inside the test process so the
// e2e and performance suites drive them over real TCP connections.
package testutil

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/normanking/cortexface/internal/app"
	"github.com/normanking/cortexface/internal/config"
	"github.com/normanking/cortexface/internal/logging"
)

const dialTimeout = 2 * time.Second

// Face is a running face under test: the bound command address plus a way
// to observe the render loop ending.
type Face struct {
	Addr string

	stopped chan struct{}
	runErr  error
}

// Stopped is closed once the render loop has returned.
func (f *Face) Stopped() <-chan struct{} { return f.stopped }

// Err reports how the loop ended. Only valid after Stopped is closed.
func (f *Face) Err() error { return f.runErr }

// StartFace builds a headless face, runs it, and registers a cleanup that
// stops it when the test ends. mutate adjusts the test defaults and may be
// nil. The face listens on an ephemeral port; read the address from the
// returned Face.
func StartFace(t *testing.T, mutate func(*config.Config)) *Face {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Window.Width = 240
	cfg.Window.Height = 180
	cfg.Window.Display = "none"
	cfg.Window.TargetFPS = 120
	cfg.Command.Host = "127.0.0.1"
	cfg.Command.Port = 0
	cfg.Web.Enabled = false
	cfg.Cache.Store = "none"
	cfg.Cache.Preload = false
	cfg.Cache.Watch = false
	cfg.Log.Console = false
	if mutate != nil {
		mutate(cfg)
	}

	logger, err := logging.New(logging.Config{Level: "error"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })

	a, err := app.New(cfg, logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	face := &Face{stopped: make(chan struct{})}
	go func() {
		face.runErr = a.Run(ctx)
		close(face.stopped)
	}()

	require.Eventually(t, func() bool {
		face.Addr = a.CommandAddr()
		return face.Addr != ""
	}, 5*time.Second, 10*time.Millisecond, "command listener never came up")

	t.Cleanup(func() {
		cancel()
		select {
		case <-face.stopped:
		case <-time.After(5 * time.Second):
			t.Error("face did not stop on context cancel")
		}
	})
	return face
}

// Send writes one command as a JSON line and decodes the reply line. It
// fails the test on any transport or decode error.
func Send(t *testing.T, addr string, msg map[string]any) map[string]any {
	t.Helper()
	reply, err := Query(addr, msg)
	require.NoError(t, err)
	return reply
}

// SendRaw writes the line as-is, for exercising protocol errors that Send's
// marshalling could never produce.
func SendRaw(t *testing.T, addr, line string) map[string]any {
	t.Helper()
	reply, err := exchange(addr, line)
	require.NoError(t, err)
	return reply
}

// WaitForState polls get_status until the face reports the wanted state.
func WaitForState(t *testing.T, addr, state string) {
	t.Helper()
	require.Eventually(t, func() bool {
		reply, err := Query(addr, map[string]any{"command": "get_status"})
		return err == nil && reply["state"] == state
	}, 3*time.Second, 20*time.Millisecond, "face never reached %q", state)
}

// Query is Send without the test hooks, for polling loops that tolerate
// transient failures.
func Query(addr string, msg map[string]any) (map[string]any, error) {
	line, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return exchange(addr, string(line))
}

func exchange(addr, line string) (map[string]any, error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(dialTimeout)); err != nil {
		return nil, err
	}

	if _, err := fmt.Fprintf(conn, "%s\n", line); err != nil {
		return nil, err
	}
	raw, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return nil, err
	}

	var reply map[string]any
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, fmt.Errorf("undecodable reply %q: %w", raw, err)
	}
	return reply, nil
}
