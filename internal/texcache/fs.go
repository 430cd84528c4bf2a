package texcache

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// storeVersion names the on-disk format generation. Bumping it orphans old
// entries rather than misreading them; the janitor removes orphaned dirs.
const storeVersion = "v1"

// FSStore persists one PNG per texture under <dir>/<version>/<id>.png.
type FSStore struct {
	dir string
	log zerolog.Logger
}

func NewFSStore(dir string, log zerolog.Logger) (*FSStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("texcache: empty store directory")
	}
	versioned := filepath.Join(dir, storeVersion)
	if err := os.MkdirAll(versioned, 0o755); err != nil {
		return nil, fmt.Errorf("create texture dir: %w", err)
	}
	return &FSStore{dir: dir, log: log.With().Str("component", "texstore").Logger()}, nil
}

// Dir is the root directory (above the version dir); the watcher and the
// janitor both anchor here.
func (s *FSStore) Dir() string {
	return s.dir
}

func (s *FSStore) path(id string) string {
	return filepath.Join(s.dir, storeVersion, id+".png")
}

func (s *FSStore) Load(_ context.Context, id string) (*image.NRGBA, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read texture %s: %w", id, err)
	}
	img, err := decodePNG(data)
	if err != nil {
		// Corrupt file: drop it so the rewrite is clean, report a miss.
		s.log.Warn().Str("id", id).Err(err).Msg("corrupt cached texture, discarding")
		_ = os.Remove(s.path(id))
		return nil, ErrNotFound
	}
	return img, nil
}

// Save writes atomically: temp file in the same directory, sync, close,
// rename. A crash mid-write can never leave a truncated PNG behind.
func (s *FSStore) Save(_ context.Context, id string, img *image.NRGBA) error {
	data, err := encodePNG(img)
	if err != nil {
		return err
	}

	dir := filepath.Join(s.dir, storeVersion)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure texture dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "tmp-"+id+"-*.png")
	if err != nil {
		return fmt.Errorf("create temp texture: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp texture: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp texture: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp texture: %w", err)
	}
	if err := os.Rename(tmpPath, s.path(id)); err != nil {
		return fmt.Errorf("rename temp texture: %w", err)
	}
	return nil
}

func (s *FSStore) Delete(_ context.Context, id string) error {
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete texture %s: %w", id, err)
	}
	return nil
}

func (s *FSStore) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, storeVersion))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list textures: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".png") || strings.HasPrefix(name, "tmp-") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".png"))
	}
	return ids, nil
}

func (s *FSStore) Clear(ctx context.Context) error {
	ids, err := s.Keys(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *FSStore) Close() error {
	return nil
}
