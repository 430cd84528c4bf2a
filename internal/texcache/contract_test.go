package texcache

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTexture builds a deterministic gradient so content equality checks
// mean something.
func testTexture(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 7 % 256),
				G: uint8(y * 13 % 256),
				B: uint8((x + y) % 256),
				A: uint8((x*y + 1) % 256),
			})
		}
	}
	return img
}

// runStoreContract is the behavior every Store adapter must satisfy.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("roundtrip preserves content", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		img := testTexture(32, 48)
		require.NoError(t, s.Save(ctx, "eye_glow_32x48_00ffff_l8_b100_i100", img))

		got, err := s.Load(ctx, "eye_glow_32x48_00ffff_l8_b100_i100")
		require.NoError(t, err)
		assert.Equal(t, img.Bounds(), got.Bounds())
		assert.Equal(t, img.Pix, got.Pix, "pixels must survive the roundtrip exactly")
	})

	t.Run("missing entry is ErrNotFound", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		_, err := s.Load(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("overwrite replaces content", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		require.NoError(t, s.Save(ctx, "id", testTexture(8, 8)))
		second := testTexture(16, 16)
		require.NoError(t, s.Save(ctx, "id", second))

		got, err := s.Load(ctx, "id")
		require.NoError(t, err)
		assert.Equal(t, second.Bounds(), got.Bounds())
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		require.NoError(t, s.Save(ctx, "gone", testTexture(8, 8)))
		require.NoError(t, s.Delete(ctx, "gone"))
		_, err := s.Load(ctx, "gone")
		assert.ErrorIs(t, err, ErrNotFound)

		// Deleting a missing entry is not an error.
		assert.NoError(t, s.Delete(ctx, "never-existed"))
	})

	t.Run("keys and clear", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		require.NoError(t, s.Save(ctx, "a", testTexture(8, 8)))
		require.NoError(t, s.Save(ctx, "b", testTexture(8, 8)))

		ids, err := s.Keys(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "b"}, ids)

		require.NoError(t, s.Clear(ctx))
		ids, err = s.Keys(ctx)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}
