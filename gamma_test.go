package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPixelRGBARoundTripOnPrimaries(t *testing.T) {
	const gamma = 0.45455
	for _, c := range []RGBA{
		{0, 0, 0, 255},
		{255, 255, 255, 255},
		{255, 0, 0, 255},
		{0, 255, 0, 128},
	} {
		p := PixelFromRGBA(c, gamma)
		got := p.toRGB(gamma)
		assert.InDelta(t, int(c.R), int(got.R), 1)
		assert.InDelta(t, int(c.G), int(got.G), 1)
		assert.InDelta(t, int(c.B), int(got.B), 1)
		assert.InDelta(t, int(c.A), int(got.A), 1)
	}
}

func TestPosterizeChannelZeroIsNoop(t *testing.T) {
	for _, v := range []uint8{0, 17, 128, 255} {
		assert.Equal(t, v, posterizeChannel(v, 0))
	}
}

func TestPosterizeChannelPreservesExtremes(t *testing.T) {
	assert.Equal(t, uint8(0), posterizeChannel(0, 4))
	assert.Equal(t, uint8(255), posterizeChannel(255, 4))
}

func TestMakeIntegerPaletteSubstitutesCanaryForTransparentNonFixed(t *testing.T) {
	pal := workingPalette{
		{Color: Pixel{A: 0, R: 0, G: 0, B: 0}},
		{Color: Pixel{A: 0, R: 0, G: 0, B: 0}, Fixed: true},
	}
	out := makeIntegerPalette(pal, 0.45455, 0)

	assert.Equal(t, RGBA{R: 71, G: 112, B: 76, A: 0}, out.Entries[0])
	assert.Equal(t, RGBA{R: 0, G: 0, B: 0, A: 0}, out.Entries[1])
}

// TestMakeIntegerPaletteCanaryUsesPosterizedAlpha covers the case where
// the raw alpha byte is small-but-nonzero and only becomes zero after
// posterization: the canary substitution must run on the posterized
// value, not the raw one.
func TestMakeIntegerPaletteCanaryUsesPosterizedAlpha(t *testing.T) {
	pal := workingPalette{
		{Color: Pixel{A: 0.02, R: 0, G: 0, B: 0}},
	}
	out := makeIntegerPalette(pal, 0.45455, 3)

	entry := out.Entries[0]
	assert.Equal(t, uint8(0), entry.A, "alpha must posterize down to zero")
	assert.Equal(t, RGBA{R: 71, G: 112, B: 76, A: 0}, entry)
}
