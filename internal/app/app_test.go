package app

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/cortexface/internal/command"
	"github.com/normanking/cortexface/internal/config"
	"github.com/normanking/cortexface/internal/face"
	"github.com/normanking/cortexface/internal/logging"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Window.Width = 200
	cfg.Window.Height = 160
	cfg.Window.Display = "none"
	cfg.Window.TargetFPS = 120
	cfg.Command.Host = "127.0.0.1"
	cfg.Command.Port = 0
	cfg.Web.Enabled = false
	cfg.Cache.Store = "none"
	cfg.Cache.Preload = false
	cfg.Cache.Watch = false
	cfg.Log.Console = false
	return cfg
}

func testApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()

	logger, err := logging.New(logging.Config{Level: "error"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })

	a, err := New(cfg, logger)
	require.NoError(t, err)
	return a
}

func TestNewRejectsBadConfig(t *testing.T) {
	logger, err := logging.New(logging.Config{Level: "error"})
	require.NoError(t, err)
	defer logger.Close()

	cfg := testConfig()
	cfg.States.Initial = "flying"
	_, err = New(cfg, logger)
	assert.ErrorContains(t, err, "flying")

	cfg = testConfig()
	cfg.Eyes.GlowColor = "teal"
	_, err = New(cfg, logger)
	assert.ErrorContains(t, err, "glow")

	cfg = testConfig()
	cfg.Cache.Store = "tape"
	_, err = New(cfg, logger)
	assert.ErrorContains(t, err, "tape")
}

func TestStepAppliesQueuedCommandsInOrder(t *testing.T) {
	a := testApp(t, testConfig())

	a.queue.Push(command.Command{
		Kind:   command.KindChangeState,
		State:  face.Thinking,
		Params: face.Params{"intensity": 1.2},
	})
	a.queue.Push(command.Command{
		Kind:  command.KindSetParameter,
		Name:  "intensity",
		Value: 2.0,
	})

	quit := a.step(0.016)

	assert.False(t, quit)
	assert.Equal(t, face.Thinking, a.machine.Active())
	assert.InDelta(t, 2.0, a.machine.Parameters()["intensity"], 1e-9)
}

func TestStepHonorsShutdownAndDropsTrailingCommands(t *testing.T) {
	a := testApp(t, testConfig())

	a.queue.Push(command.Command{Kind: command.KindChangeState, State: face.Thinking})
	a.queue.Push(command.Command{Kind: command.KindShutdown})
	a.queue.Push(command.Command{Kind: command.KindChangeState, State: face.Resting})

	quit := a.step(0.016)

	assert.True(t, quit)
	assert.Equal(t, face.Thinking, a.machine.Active(), "commands before the shutdown still apply")
}

func TestStepPublishesStatusSnapshot(t *testing.T) {
	a := testApp(t, testConfig())

	a.step(0.016)
	a.step(0.016)

	st := a.board.Current()
	assert.Equal(t, face.Idle, st.State)
	assert.Equal(t, uint64(2), st.Frame)
	assert.Zero(t, st.QueueDepth)
	assert.GreaterOrEqual(t, st.UptimeSec, 0.0)
}

func TestStepKeepsRunningOnRejectedTransition(t *testing.T) {
	a := testApp(t, testConfig())

	// Forged directly onto the queue; the wire protocol would have
	// rejected it long before this point.
	a.queue.Push(command.Command{Kind: command.KindChangeState, State: face.Expression("flying")})
	a.queue.Push(command.Command{Kind: command.KindChangeState, State: face.Speaking})

	quit := a.step(0.016)

	assert.False(t, quit)
	assert.Equal(t, face.Speaking, a.machine.Active())
}

func TestRunStopsOnShutdownCommand(t *testing.T) {
	a := testApp(t, testConfig())

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	require.Eventually(t, func() bool { return a.CommandAddr() != "" },
		2*time.Second, 5*time.Millisecond, "command listener never came up")

	conn, err := net.Dial("tcp", a.CommandAddr())
	require.NoError(t, err)
	defer conn.Close()

	fmt.Fprintln(conn, `{"command":"shutdown"}`)
	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)

	var reply map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &reply))
	assert.Equal(t, "ok", reply["status"])

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after shutdown command")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	a := testApp(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return a.CommandAddr() != "" },
		2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRunServesStatusWhileLooping(t *testing.T) {
	a := testApp(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return a.CommandAddr() != "" },
		2*time.Second, 5*time.Millisecond)

	conn, err := net.Dial("tcp", a.CommandAddr())
	require.NoError(t, err)
	defer conn.Close()
	r := bufio.NewReader(conn)

	fmt.Fprintln(conn, `{"command":"change_state","state":"speaking"}`)
	_, err = r.ReadString('\n')
	require.NoError(t, err)

	// The loop ticks at 120 Hz; give it a few frames to drain.
	require.Eventually(t, func() bool {
		return a.board.Current().State == face.Speaking
	}, 2*time.Second, 10*time.Millisecond)

	fmt.Fprintln(conn, `{"command":"get_status"}`)
	line, err := r.ReadString('\n')
	require.NoError(t, err)

	var st map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &st))
	assert.Equal(t, "ok", st["status"])
	assert.Equal(t, "speaking", st["state"])

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
