package texcache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Prune removes disk entries older than maxAge, leftover temp files, and
// directories from other format versions. The memory layer is untouched;
// the watcher turns the removals into invalidation commands.
func (s *FSStore) Prune(maxAge time.Duration) (int, error) {
	removed := 0
	cutoff := time.Now().Add(-maxAge)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read cache dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() && e.Name() != storeVersion {
			if err := os.RemoveAll(filepath.Join(s.dir, e.Name())); err != nil {
				return removed, fmt.Errorf("remove stale version dir: %w", err)
			}
			removed++
		}
	}

	versioned := filepath.Join(s.dir, storeVersion)
	files, err := os.ReadDir(versioned)
	if err != nil {
		if os.IsNotExist(err) {
			return removed, nil
		}
		return removed, fmt.Errorf("read texture dir: %w", err)
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := f.Name()
		stale := strings.HasPrefix(name, "tmp-")
		if !stale {
			info, err := f.Info()
			if err != nil {
				continue
			}
			stale = maxAge > 0 && info.ModTime().Before(cutoff)
		}
		if stale {
			if err := os.Remove(filepath.Join(versioned, name)); err != nil && !os.IsNotExist(err) {
				return removed, fmt.Errorf("prune %s: %w", name, err)
			}
			removed++
		}
	}
	return removed, nil
}

// Janitor runs Prune on a cron schedule.
type Janitor struct {
	cron   *cron.Cron
	store  *FSStore
	maxAge time.Duration
	log    zerolog.Logger
}

func NewJanitor(store *FSStore, schedule string, maxAge time.Duration, log zerolog.Logger) (*Janitor, error) {
	j := &Janitor{
		cron:   cron.New(),
		store:  store,
		maxAge: maxAge,
		log:    log.With().Str("component", "texjanitor").Logger(),
	}
	if _, err := j.cron.AddFunc(schedule, j.sweep); err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}
	return j, nil
}

func (j *Janitor) sweep() {
	removed, err := j.store.Prune(j.maxAge)
	if err != nil {
		j.log.Warn().Err(err).Msg("cache prune failed")
		return
	}
	if removed > 0 {
		j.log.Info().Int("removed", removed).Msg("pruned texture cache")
	}
}

func (j *Janitor) Start() {
	j.cron.Start()
}

func (j *Janitor) Stop() {
	j.cron.Stop()
}
