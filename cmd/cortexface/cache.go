package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/normanking/cortexface/internal/config"
	"github.com/normanking/cortexface/internal/render"
	"github.com/normanking/cortexface/internal/texcache"
)

var pruneAge time.Duration

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the persistent texture cache",
}

var cacheWarmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Pre-render the textures the face needs first",
	Long: `Render the idle eye sprites and every blink step into the persistent
cache, so a freshly booted face never pays synthesis cost on its first
frames.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := openCacheStore()
		if err != nil {
			return err
		}
		defer store.Close()

		glow, err := render.ParseHex(cfg.Eyes.GlowColor)
		if err != nil {
			return err
		}

		log := cliLogger()
		cache := texcache.New(store, log)
		geo := render.FaceGeometry(cfg.Window.Width, cfg.Window.Height)
		eyes := render.NewEyeRenderer(geo, cache, glow, log)

		if err := eyes.Preload(); err != nil {
			return err
		}
		fmt.Printf("warmed %d textures\n", cache.Len())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached texture",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openCacheStore()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := store.Clear(ctx); err != nil {
			return err
		}
		fmt.Println("texture cache cleared")
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove cached textures older than a cutoff",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := openCacheStore()
		if err != nil {
			return err
		}
		defer store.Close()

		fs, ok := store.(*texcache.FSStore)
		if !ok {
			return fmt.Errorf("prune only applies to the fs store; the redis store expires entries itself")
		}

		age := pruneAge
		if age <= 0 {
			age = cfg.Cache.TTL
		}
		if age <= 0 {
			return fmt.Errorf("no cutoff: pass --older-than or set cache.ttl")
		}

		removed, err := fs.Prune(age)
		if err != nil {
			return err
		}
		fmt.Printf("removed %d entries\n", removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheWarmCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cachePruneCmd.Flags().DurationVar(&pruneAge, "older-than", 0, "age cutoff (default cache.ttl from config)")
}

func openCacheStore() (*config.Config, texcache.Store, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	log := cliLogger()
	switch cfg.Cache.Store {
	case "fs":
		store, err := texcache.NewFSStore(cfg.Cache.Dir, log)
		if err != nil {
			return nil, nil, err
		}
		return cfg, store, nil
	case "redis":
		var opts []texcache.RedisOption
		if cfg.Cache.TTL > 0 {
			opts = append(opts, texcache.WithTTL(cfg.Cache.TTL))
		}
		return cfg, texcache.NewRedisStore(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, log, opts...), nil
	default:
		return nil, nil, fmt.Errorf("no persistent cache configured (store=%q)", cfg.Cache.Store)
	}
}

// cliLogger keeps one-shot commands quiet unless something goes wrong.
func cliLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()
}
