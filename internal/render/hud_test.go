package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHUDDrawsText(t *testing.T) {
	s, err := NewSurface(200, 60)
	require.NoError(t, err)
	s.Fill(Black)

	h := NewHUD()
	h.Draw(s, []string{"fps 60.0", "state idle"})

	lit := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 120; x++ {
			if s.RGBA().RGBAAt(x, y) != Black {
				lit++
			}
		}
	}
	assert.Greater(t, lit, 20, "glyphs leave pixels behind")
}

func TestHUDCachesLines(t *testing.T) {
	s, err := NewSurface(200, 60)
	require.NoError(t, err)

	h := NewHUD()
	for i := 0; i < 5; i++ {
		s.Fill(Black)
		h.Draw(s, []string{"fps 60.0", "state idle"})
	}
	assert.Equal(t, 2, h.CachedLines())

	h.Draw(s, []string{"fps 59.9"})
	assert.Equal(t, 3, h.CachedLines())
}

func TestHUDSkipsBlankLines(t *testing.T) {
	s, err := NewSurface(200, 60)
	require.NoError(t, err)
	s.Fill(Black)

	h := NewHUD()
	h.Draw(s, []string{"", "queue 3"})

	assert.Equal(t, 1, h.CachedLines())
}
