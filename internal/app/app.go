// Package app assembles the face and runs it: configuration in,
// rendered frames out. Everything the binary owns lives here so the
// command layer stays a thin flag parser.
package app

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/normanking/cortexface/internal/command"
	"github.com/normanking/cortexface/internal/config"
	"github.com/normanking/cortexface/internal/display"
	"github.com/normanking/cortexface/internal/face"
	"github.com/normanking/cortexface/internal/logging"
	"github.com/normanking/cortexface/internal/render"
	"github.com/normanking/cortexface/internal/texcache"
	"github.com/normanking/cortexface/internal/viewer"
	"github.com/normanking/cortexface/internal/web"
)

// App holds the assembled face. The render loop goroutine owns machine,
// surface and cache; the servers only ever touch the queue and the
// board.
type App struct {
	cfg    *config.Config
	logger *logging.Logger
	log    zerolog.Logger

	queue   *command.Queue
	board   *face.Board
	machine *face.Machine
	surface *render.Surface
	eyes    *render.EyeRenderer
	hud     *render.HUD

	cache   *texcache.Cache
	watcher *texcache.Watcher
	janitor *texcache.Janitor

	cmdSrv *command.Server
	webSrv *web.Server
	hub    *viewer.Hub
	sink   display.Sink

	clock loopClock
}

func New(cfg *config.Config, logger *logging.Logger) (*App, error) {
	initial, ok := face.ParseExpression(cfg.States.Initial)
	if !ok {
		return nil, fmt.Errorf("unknown initial expression %q", cfg.States.Initial)
	}
	glow, err := render.ParseHex(cfg.Eyes.GlowColor)
	if err != nil {
		return nil, fmt.Errorf("eye glow color: %w", err)
	}
	surface, err := render.NewSurface(cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		logger:  logger,
		log:     logger.Component("app"),
		queue:   command.NewQueue(),
		board:   face.NewBoard(),
		surface: surface,
		hud:     render.NewHUD(),
	}
	a.clock.reset()

	if err := a.initCache(); err != nil {
		return nil, err
	}

	geo := render.FaceGeometry(cfg.Window.Width, cfg.Window.Height)
	a.eyes = render.NewEyeRenderer(geo, a.cache, glow, logger.Zerolog())
	border := render.NewBorder(cfg.Window.Width, cfg.Window.Height)

	if cfg.Cache.Preload {
		if err := a.eyes.Preload(); err != nil {
			a.log.Warn().Err(err).Msg("texture preload failed")
		}
	}

	build := face.NewBuilder(face.Renderers{Eyes: a.eyes, Border: border}, face.Tunables{
		BlinkDuration: cfg.States.BlinkDuration,
		BlinkGapMin:   cfg.States.BlinkMinGap,
		BlinkGapMax:   cfg.States.BlinkMaxGap,
		GazeIdleMin:   cfg.States.GazeMinIdle,
		GazeIdleMax:   cfg.States.GazeMaxIdle,
		GazeGlideMin:  cfg.States.GazeMinGlide,
		GazeGlideMax:  cfg.States.GazeMaxGlide,
	})
	a.machine = face.NewMachine(build, initial, logger.Zerolog())

	a.cmdSrv = command.NewServer(a.queue, a.board, logger.Zerolog())

	if cfg.Web.Enabled {
		if cfg.Web.Viewer {
			a.hub = viewer.NewHub(logger.Zerolog())
		}
		a.webSrv = web.NewServer(cfg.Web.Addr(), a.board, logger, a.hub, logger.Zerolog())
	}

	sink, err := display.New(cfg.Window, logger.Component("display"))
	if err != nil {
		return nil, err
	}
	a.sink = sink

	return a, nil
}

// initCache picks the persistent texture layer. Store failures here are
// fatal: a misconfigured cache should be fixed, not silently ignored,
// while "none" is the explicit way to run memory-only.
func (a *App) initCache() error {
	root := a.logger.Zerolog()

	switch a.cfg.Cache.Store {
	case "none", "":
		a.cache = texcache.New(nil, root)

	case "fs":
		store, err := texcache.NewFSStore(a.cfg.Cache.Dir, root)
		if err != nil {
			return fmt.Errorf("open texture store: %w", err)
		}
		a.cache = texcache.New(store, root)

		if a.cfg.Cache.Watch {
			w, err := texcache.NewWatcher(store, func(id string) {
				a.queue.Push(command.Command{Kind: command.KindInvalidateTexture, TextureID: id})
			}, root)
			if err != nil {
				// No inotify is a degraded mode, not a reason to refuse to start.
				a.log.Warn().Err(err).Msg("cache watcher unavailable")
			} else {
				a.watcher = w
			}
		}

		if a.cfg.Cache.TTL > 0 {
			j, err := texcache.NewJanitor(store, a.cfg.Cache.PruneSchedule, a.cfg.Cache.TTL, root)
			if err != nil {
				return err
			}
			a.janitor = j
		}

	case "redis":
		var opts []texcache.RedisOption
		if a.cfg.Cache.TTL > 0 {
			opts = append(opts, texcache.WithTTL(a.cfg.Cache.TTL))
		}
		store := texcache.NewRedisStore(a.cfg.Cache.RedisAddr, a.cfg.Cache.RedisPassword, a.cfg.Cache.RedisDB, root, opts...)
		a.cache = texcache.New(store, root)

	default:
		return fmt.Errorf("unknown cache store %q", a.cfg.Cache.Store)
	}
	return nil
}

// CommandAddr returns the live command listener address, or the empty
// string before Run.
func (a *App) CommandAddr() string {
	addr := a.cmdSrv.Addr()
	if addr == nil {
		return ""
	}
	return addr.String()
}
