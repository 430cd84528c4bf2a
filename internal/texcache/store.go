package texcache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// ErrNotFound reports that a store has no entry for the requested id.
// Corrupt entries are reported the same way: the caller regenerates either
// way.
var ErrNotFound = errors.New("texcache: entry not found")

// Store is the persistence port for rendered textures. Implementations must
// treat undecodable payloads as ErrNotFound, never as fatal.
type Store interface {
	Load(ctx context.Context, id string) (*image.NRGBA, error)
	Save(ctx context.Context, id string, img *image.NRGBA) error
	Delete(ctx context.Context, id string) error
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
	Close() error
}

// Textures are straight-alpha NRGBA so the PNG roundtrip is byte-lossless:
// a reloaded entry is identical to a regenerated one.
func encodePNG(img *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode texture: %w", err)
	}
	return buf.Bytes(), nil
}

func decodePNG(data []byte) (*image.NRGBA, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba, nil
	}
	nrgba := image.NewNRGBA(img.Bounds())
	draw.Draw(nrgba, nrgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return nrgba, nil
}
