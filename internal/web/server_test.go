package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/cortexface/internal/face"
	"github.com/normanking/cortexface/internal/viewer"
)

type fixedStatus struct{ s face.Status }

func (f fixedStatus) Current() face.Status { return f.s }

type fakeLogs struct{ lines [][]byte }

func (f fakeLogs) History(limit int) [][]byte {
	if limit > 0 && len(f.lines) > limit {
		return f.lines[len(f.lines)-limit:]
	}
	return f.lines
}

func testRouter(hub *viewer.Hub) http.Handler {
	status := fixedStatus{face.Status{
		State:      face.Thinking,
		Parameters: map[string]float64{"intensity": 1.2},
		FPS:        59.9,
	}}
	logs := fakeLogs{lines: [][]byte{
		[]byte(`{"level":"info","message":"one"}`),
		[]byte(`{"level":"warn","message":"two"}`),
	}}
	return NewRouter(status, logs, hub)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, testRouter(nil), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDebugStatus(t *testing.T) {
	rec := get(t, testRouter(nil), "/debug/status")

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "thinking", got["state"])
	assert.Equal(t, 59.9, got["fps"])
	params := got["parameters"].(map[string]any)
	assert.Equal(t, 1.2, params["intensity"])
}

func TestDebugLogs(t *testing.T) {
	rec := get(t, testRouter(nil), "/debug/logs")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0]["message"])
	assert.Equal(t, "two", got[1]["message"])
}

func TestDebugLogsLimit(t *testing.T) {
	rec := get(t, testRouter(nil), "/debug/logs?limit=1")

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "two", got[0]["message"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, testRouter(nil), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestViewerRoutes(t *testing.T) {
	hub := viewer.NewHub(zerolog.Nop())
	t.Cleanup(hub.Close)

	rec := get(t, testRouter(hub), "/viewer")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cortexface viewer")

	rec = get(t, testRouter(nil), "/viewer")
	assert.Equal(t, http.StatusNotFound, rec.Code, "viewer routes stay unmounted when disabled")
}

func TestServerStartAndShutdown(t *testing.T) {
	srv := NewServer("127.0.0.1:0", fixedStatus{face.Status{State: face.Idle}}, fakeLogs{}, nil, zerolog.Nop())
	require.NoError(t, srv.Start())

	url := fmt.Sprintf("http://%s/healthz", srv.Addr())
	resp, err := http.Get(url)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
}
