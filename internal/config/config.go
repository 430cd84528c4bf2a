// Package config provides configuration management for cortexface.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Window  WindowConfig  `mapstructure:"window"`
	Command CommandConfig `mapstructure:"command"`
	Web     WebConfig     `mapstructure:"web"`
	Eyes    EyesConfig    `mapstructure:"eyes"`
	States  StatesConfig  `mapstructure:"states"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Log     LogConfig     `mapstructure:"log"`
}

// WindowConfig configures the render target.
type WindowConfig struct {
	Title     string `mapstructure:"title"`
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
	TargetFPS int    `mapstructure:"target_fps"`
	Display   string `mapstructure:"display"` // auto, gl, none
	HUD       bool   `mapstructure:"hud"`     // draw the debug overlay
}

// CommandConfig configures the TCP command listener.
type CommandConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr is the listen address in host:port form.
func (c CommandConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// WebConfig configures the HTTP debug/metrics server.
type WebConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Viewer  bool   `mapstructure:"viewer"` // mount /viewer and /ws
}

func (c WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// EyesConfig configures eye rendering.
type EyesConfig struct {
	GlowColor string `mapstructure:"glow_color"` // hex, e.g. #00ffff
}

// StatesConfig holds the per-state animation tunables.
type StatesConfig struct {
	Initial       string        `mapstructure:"initial"`
	BlinkDuration time.Duration `mapstructure:"blink_duration"`
	BlinkMinGap   time.Duration `mapstructure:"blink_min_gap"`
	BlinkMaxGap   time.Duration `mapstructure:"blink_max_gap"`
	GazeMinIdle   time.Duration `mapstructure:"gaze_min_idle"`
	GazeMaxIdle   time.Duration `mapstructure:"gaze_max_idle"`
	GazeMinGlide  time.Duration `mapstructure:"gaze_min_glide"`
	GazeMaxGlide  time.Duration `mapstructure:"gaze_max_glide"`
}

// CacheConfig configures the texture cache's persistent layer.
type CacheConfig struct {
	Store         string        `mapstructure:"store"` // none, fs, redis
	Dir           string        `mapstructure:"dir"`   // fs store location; empty uses <configdir>/cache
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"` // prune entries older than this; 0 keeps forever
	PruneSchedule string        `mapstructure:"prune_schedule"`
	Preload       bool          `mapstructure:"preload"`
	Watch         bool          `mapstructure:"watch"` // react to external changes of the fs store
}

// LogConfig configures logging sinks.
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Dir     string `mapstructure:"dir"` // empty disables the file sink
	Console bool   `mapstructure:"console"`
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "cortexface",
			Width:     720,
			Height:    480,
			TargetFPS: 60,
			Display:   "auto",
		},
		Command: CommandConfig{
			Host: "localhost",
			Port: 8888,
		},
		Web: WebConfig{
			Enabled: true,
			Host:    "localhost",
			Port:    8889,
			Viewer:  true,
		},
		Eyes: EyesConfig{
			GlowColor: "#00ffff",
		},
		States: StatesConfig{
			Initial:       "idle",
			BlinkDuration: 200 * time.Millisecond,
			BlinkMinGap:   2 * time.Second,
			BlinkMaxGap:   6 * time.Second,
			GazeMinIdle:   1500 * time.Millisecond,
			GazeMaxIdle:   4 * time.Second,
			GazeMinGlide:  400 * time.Millisecond,
			GazeMaxGlide:  900 * time.Millisecond,
		},
		Cache: CacheConfig{
			Store:         "fs",
			PruneSchedule: "@hourly",
			Preload:       true,
			Watch:         true,
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Load reads configuration from file and environment. An empty path uses
// <configdir>/config.yaml and writes the defaults there on first run; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)
	v.SetEnvPrefix("CORTEXFACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return cfg, err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return cfg, err
		}

		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return cfg, err
			}
			// First run: persist the defaults so users have a file to edit.
			if err := Save(cfg, filepath.Join(dir, "config.yaml")); err != nil {
				return cfg, err
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Cache.Dir == "" {
		dir, err := Dir()
		if err != nil {
			return cfg, err
		}
		cfg.Cache.Dir = filepath.Join(dir, "cache")
	}
	return cfg, nil
}

// Save writes the configuration to path.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	v := viper.New()
	for key, val := range leaves(cfg) {
		v.Set(key, val)
	}
	return v.WriteConfigAs(path)
}

// Dir returns the configuration directory path.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".cortexface"), nil
}

// setDefaults registers every leaf so partial config files and environment
// overrides merge against the defaults.
func setDefaults(v *viper.Viper, cfg *Config) {
	for key, val := range leaves(cfg) {
		v.SetDefault(key, val)
	}
}

// leaves flattens cfg to dotted keys. Defaults, saves and environment
// lookups all go through this one key set, so a field added here is
// automatically loadable, overridable and persistable.
func leaves(cfg *Config) map[string]any {
	return map[string]any{
		"window.title":      cfg.Window.Title,
		"window.width":      cfg.Window.Width,
		"window.height":     cfg.Window.Height,
		"window.target_fps": cfg.Window.TargetFPS,
		"window.display":    cfg.Window.Display,
		"window.hud":        cfg.Window.HUD,

		"command.host": cfg.Command.Host,
		"command.port": cfg.Command.Port,

		"web.enabled": cfg.Web.Enabled,
		"web.host":    cfg.Web.Host,
		"web.port":    cfg.Web.Port,
		"web.viewer":  cfg.Web.Viewer,

		"eyes.glow_color": cfg.Eyes.GlowColor,

		"states.initial":        cfg.States.Initial,
		"states.blink_duration": cfg.States.BlinkDuration,
		"states.blink_min_gap":  cfg.States.BlinkMinGap,
		"states.blink_max_gap":  cfg.States.BlinkMaxGap,
		"states.gaze_min_idle":  cfg.States.GazeMinIdle,
		"states.gaze_max_idle":  cfg.States.GazeMaxIdle,
		"states.gaze_min_glide": cfg.States.GazeMinGlide,
		"states.gaze_max_glide": cfg.States.GazeMaxGlide,

		"cache.store":          cfg.Cache.Store,
		"cache.dir":            cfg.Cache.Dir,
		"cache.redis_addr":     cfg.Cache.RedisAddr,
		"cache.redis_password": cfg.Cache.RedisPassword,
		"cache.redis_db":       cfg.Cache.RedisDB,
		"cache.ttl":            cfg.Cache.TTL,
		"cache.prune_schedule": cfg.Cache.PruneSchedule,
		"cache.preload":        cfg.Cache.Preload,
		"cache.watch":          cfg.Cache.Watch,

		"log.level":   cfg.Log.Level,
		"log.dir":     cfg.Log.Dir,
		"log.console": cfg.Log.Console,
	}
}
