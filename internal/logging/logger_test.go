package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingKeepsMostRecent(t *testing.T) {
	r := NewRing(3)
	for i := 0; i < 5; i++ {
		_, err := r.Write([]byte(fmt.Sprintf("line-%d\n", i)))
		require.NoError(t, err)
	}

	assert.Equal(t, 3, r.Len())
	tail := r.Tail(0)
	require.Len(t, tail, 3)
	assert.Equal(t, "line-2", string(tail[0]))
	assert.Equal(t, "line-4", string(tail[2]))
}

func TestRingTailLimit(t *testing.T) {
	r := NewRing(10)
	for i := 0; i < 4; i++ {
		r.Write([]byte(fmt.Sprintf("line-%d", i)))
	}

	tail := r.Tail(2)
	require.Len(t, tail, 2)
	assert.Equal(t, "line-2", string(tail[0]))
	assert.Equal(t, "line-3", string(tail[1]))
}

func TestLoggerWritesFileAndHistory(t *testing.T) {
	dir := t.TempDir()
	l, err := New(Config{Dir: dir, Level: "debug", History: 16})
	require.NoError(t, err)
	defer l.Close()

	log := l.Component("test")
	log.Info().Str("key", "value").Msg("hello from test")

	entries := l.History(0)
	require.NotEmpty(t, entries)

	var last map[string]any
	require.NoError(t, json.Unmarshal(entries[len(entries)-1], &last))
	assert.Equal(t, "hello from test", last["message"])
	assert.Equal(t, "test", last["component"])
	assert.Equal(t, "cortexface", last["app"])

	data, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
	assert.Equal(t, dir, filepath.Dir(l.Path()))
}

func TestLoggerLevelFilters(t *testing.T) {
	l, err := New(Config{Level: "warn", History: 16})
	require.NoError(t, err)
	defer l.Close()

	zl := l.Zerolog()
	before := len(l.History(0))
	zl.Debug().Msg("too quiet to store")
	assert.Len(t, l.History(0), before)

	zl.Warn().Msg("loud enough")
	assert.Len(t, l.History(0), before+1)
}

func TestLoggerRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "shouting"})
	assert.Error(t, err)
}
