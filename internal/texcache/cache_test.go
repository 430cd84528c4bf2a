package texcache

import (
	"errors"
	"image"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func glowKey() Key {
	return Key{
		Kind:            KindEyeGlow,
		Width:           32,
		Height:          48,
		Color:           RGB{0, 255, 255},
		Layers:          8,
		BlinkBucket:     100,
		IntensityBucket: 120,
	}
}

func TestGetOrCreateCachesResult(t *testing.T) {
	c := New(nil, zerolog.Nop())

	calls := 0
	factory := func() (*image.NRGBA, error) {
		calls++
		return testTexture(32, 48), nil
	}

	first, err := c.GetOrCreate(glowKey(), factory)
	require.NoError(t, err)
	second, err := c.GetOrCreate(glowKey(), factory)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "factory runs once per key")
	assert.Equal(t, first.Pix, second.Pix, "content must be identical")
	assert.Equal(t, 1, c.Len())
}

func TestGetOrCreateReadsThroughStore(t *testing.T) {
	store := newTestFSStore(t)
	warm := New(store, zerolog.Nop())

	img := testTexture(32, 48)
	_, err := warm.GetOrCreate(glowKey(), func() (*image.NRGBA, error) {
		return img, nil
	})
	require.NoError(t, err)

	// A fresh cache over the same store must find the entry without ever
	// invoking its factory.
	cold := New(store, zerolog.Nop())
	got, err := cold.GetOrCreate(glowKey(), func() (*image.NRGBA, error) {
		t.Fatal("factory must not run on a store hit")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, img.Pix, got.Pix)
}

func TestGetOrCreateRegeneratesCorruptStoreEntry(t *testing.T) {
	store := newTestFSStore(t)
	c := New(store, zerolog.Nop())

	_, err := c.GetOrCreate(glowKey(), func() (*image.NRGBA, error) {
		return testTexture(32, 48), nil
	})
	require.NoError(t, err)

	// Corrupt the persisted entry, then evict memory so the next lookup
	// has to go to disk.
	require.NoError(t, os.WriteFile(store.path(glowKey().ID()), []byte("junk"), 0o644))
	c.Invalidate(glowKey().ID())

	regenerated := false
	_, err = c.GetOrCreate(glowKey(), func() (*image.NRGBA, error) {
		regenerated = true
		return testTexture(32, 48), nil
	})
	require.NoError(t, err)
	assert.True(t, regenerated, "corrupt entry must fall through to the factory")
}

func TestGetOrCreateFactoryErrorPropagates(t *testing.T) {
	c := New(nil, zerolog.Nop())
	boom := errors.New("boom")

	_, err := c.GetOrCreate(glowKey(), func() (*image.NRGBA, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Zero(t, c.Len(), "failures are not cached")

	// The next call tries again.
	calls := 0
	_, err = c.GetOrCreate(glowKey(), func() (*image.NRGBA, error) {
		calls++
		return testTexture(32, 48), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestGetOrCreateRejectsInvalidKey(t *testing.T) {
	c := New(nil, zerolog.Nop())
	bad := glowKey()
	bad.Width = 0

	_, err := c.GetOrCreate(bad, func() (*image.NRGBA, error) {
		t.Fatal("factory must not run for an invalid key")
		return nil, nil
	})
	assert.Error(t, err)
}

func TestInvalidate(t *testing.T) {
	c := New(nil, zerolog.Nop())

	calls := 0
	factory := func() (*image.NRGBA, error) {
		calls++
		return testTexture(32, 48), nil
	}

	_, err := c.GetOrCreate(glowKey(), factory)
	require.NoError(t, err)

	assert.True(t, c.Invalidate(glowKey().ID()))
	assert.False(t, c.Invalidate(glowKey().ID()), "second invalidate finds nothing")

	_, err = c.GetOrCreate(glowKey(), factory)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestInvalidateAll(t *testing.T) {
	c := New(nil, zerolog.Nop())
	for _, bucket := range []int{0, 50, 100} {
		k := glowKey()
		k.BlinkBucket = bucket
		_, err := c.GetOrCreate(k, func() (*image.NRGBA, error) {
			return testTexture(32, 48), nil
		})
		require.NoError(t, err)
	}
	require.Equal(t, 3, c.Len())
	c.InvalidateAll()
	assert.Zero(t, c.Len())
}

func TestBucketing(t *testing.T) {
	tests := []struct {
		name string
		fn   func(float64) int
		in   float64
		want int
	}{
		{"blink zero", BucketBlink, 0, 0},
		{"blink snaps down", BucketBlink, 0.024, 0},
		{"blink snaps up", BucketBlink, 0.026, 5},
		{"blink mid", BucketBlink, 0.63, 65},
		{"blink full", BucketBlink, 1, 100},
		{"blink clamps high", BucketBlink, 1.7, 100},
		{"blink clamps low", BucketBlink, -0.2, 0},
		{"intensity unit", BucketIntensity, 1.0, 100},
		{"intensity rounds", BucketIntensity, 1.204, 120},
		{"intensity rounds up", BucketIntensity, 1.205, 121},
		{"intensity clamps low", BucketIntensity, -3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestKeyID(t *testing.T) {
	assert.Equal(t, "eye_glow_32x48_00ffff_l8_b100_i120", glowKey().ID())

	// Nearby continuous values share an identity once bucketed.
	a, b := glowKey(), glowKey()
	a.BlinkBucket = BucketBlink(0.799)
	b.BlinkBucket = BucketBlink(0.801)
	assert.Equal(t, a.ID(), b.ID())
}

func TestKeyRoundTripValues(t *testing.T) {
	k := glowKey()
	assert.InDelta(t, 1.0, k.BlinkAmount(), 1e-9)
	assert.InDelta(t, 1.2, k.Intensity(), 1e-9)
}
