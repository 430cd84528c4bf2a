// Package logging sets up structured logging with console, file and
// in-memory ring output. The ring feeds the /debug/logs endpoint.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	Dir     string // directory for log files; empty disables the file sink
	Level   string // minimum level name (default: info)
	Console bool   // pretty-print to stdout as well
	History int    // ring capacity (default: 1000)
}

// Logger owns the sinks behind a zerolog root logger. Components take
// child loggers via Component and never see the sinks.
type Logger struct {
	zlog zerolog.Logger
	file *os.File
	ring *Ring
	path string
}

// New builds the root logger. The log file is named by date so restarts
// within a day append to the same file.
func New(cfg Config) (*Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
	}
	if cfg.History <= 0 {
		cfg.History = 1000
	}

	l := &Logger{ring: NewRing(cfg.History)}
	writers := []io.Writer{l.ring}

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		l.path = filepath.Join(cfg.Dir, fmt.Sprintf("cortexface_%s.log", time.Now().Format("2006-01-02")))
		file, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = file
		writers = append(writers, file)
	}

	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}

	l.zlog = zerolog.New(io.MultiWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("app", "cortexface").
		Logger()

	l.zlog.Info().Str("file", l.path).Str("level", level.String()).Msg("logging initialized")
	return l, nil
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) zerolog.Logger {
	return l.zlog.With().Str("component", name).Logger()
}

// Zerolog is the untagged root logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zlog
}

// History returns up to limit recent entries, oldest first, as raw JSON
// event lines.
func (l *Logger) History(limit int) [][]byte {
	return l.ring.Tail(limit)
}

// Path is the active log file, empty when the file sink is disabled.
func (l *Logger) Path() string {
	return l.path
}

func (l *Logger) Close() error {
	l.zlog.Info().Msg("logging shutting down")
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
