package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderPaletteTransparentLast(t *testing.T) {
	pal := workingPalette{
		{Color: Pixel{A: 1, R: 1, G: 0, B: 0}, Popularity: 10},
		{Color: Pixel{A: 0, R: 0, G: 0, B: 0}, Popularity: 5},
		{Color: Pixel{A: 1, R: 0, G: 1, B: 0}, Popularity: 20},
	}

	orderPalette(pal, true, nil)

	require.Len(t, pal, 3)
	last := pal[len(pal)-1]
	assert.LessOrEqual(t, last.Color.A, float32(maxTransparentAlpha))
	for _, e := range pal[:len(pal)-1] {
		assert.GreaterOrEqual(t, e.Color.A, last.Color.A)
	}
}

func TestOrderPaletteTransparentFirstByDefault(t *testing.T) {
	pal := workingPalette{
		{Color: Pixel{A: 1, R: 1, G: 0, B: 0}, Popularity: 10},
		{Color: Pixel{A: 0, R: 0, G: 0, B: 0}, Popularity: 5},
	}

	orderPalette(pal, false, nil)

	assert.LessOrEqual(t, pal[0].Color.A, float32(maxTransparentAlpha))
}

func TestOrderPaletteFixedColorsSortFirst(t *testing.T) {
	pal := workingPalette{
		{Color: Pixel{A: 1, R: 1, G: 0, B: 0}, Popularity: 1000},
		{Color: Pixel{A: 1, R: 0, G: 1, B: 0}, Popularity: 1, Fixed: true},
	}

	orderPalette(pal, false, nil)

	assert.True(t, pal[0].Fixed, "a fixed color must outrank a merely-popular mined color")
}
