package texcache

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher follows the fs store directory and reports externally changed or
// deleted entries. It never touches the Cache itself: invalidations are
// handed to enqueue (wired to the command queue) so eviction happens on the
// render loop's thread.
type Watcher struct {
	watcher *fsnotify.Watcher
	enqueue func(id string)
	log     zerolog.Logger
	done    chan struct{}
}

func NewWatcher(store *FSStore, enqueue func(id string), log zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Join(store.Dir(), storeVersion)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		enqueue: enqueue,
		log:     log.With().Str("component", "texwatcher").Logger(),
		done:    make(chan struct{}),
	}
	go w.watchLoop()
	return w, nil
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// Create is our own atomic save landing; only external
			// modification or removal warrants eviction.
			if !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Base(event.Name)
			if !strings.HasSuffix(name, ".png") || strings.HasPrefix(name, "tmp-") {
				continue
			}
			id := strings.TrimSuffix(name, ".png")
			w.log.Debug().Str("id", id).Str("op", event.Op.String()).Msg("cache file changed on disk")
			w.enqueue(id)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("cache watcher error")
		}
	}
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
