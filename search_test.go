package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBestPaletteShortCircuitsOnPerfectSmallHistogram(t *testing.T) {
	hist := fourDistinctColorHistogram()
	pol := &Policy{MaxColors: 4}

	outcome, err := findBestPalette(pol, hist, nil, 0, true, nil, newProgressTracker(nil))
	require.NoError(t, err)
	assert.Equal(t, 0.0, outcome.err)
	assert.Len(t, outcome.palette, 4)
}

func TestFindBestPaletteRespectsFixedColors(t *testing.T) {
	hist := NewHistogram([]HistogramItem{
		{Color: Pixel{A: 1, R: 0, G: 0, B: 1}, PerceptualWeight: 16},
	})
	fixed := []PaletteEntry{{Color: Pixel{A: 1, R: 1, G: 0, B: 1}, Fixed: true}}
	pol := &Policy{MaxColors: 2}

	outcome, err := findBestPalette(pol, hist, fixed, 0, false, nil, newProgressTracker(nil))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(outcome.palette), 2)

	hasFixed := false
	for _, e := range outcome.palette {
		if e.Fixed {
			hasFixed = true
		}
	}
	assert.True(t, hasFixed, "fixed colors must survive into the final palette")
}

func TestNewResultFailsQualityFloor(t *testing.T) {
	hist := NewHistogram([]HistogramItem{
		{Color: Pixel{A: 1, R: 0, G: 0, B: 0}, PerceptualWeight: 1},
		{Color: Pixel{A: 1, R: 1, G: 1, B: 1}, PerceptualWeight: 1},
	})

	_, err := NewResult(Policy{MaxColors: 1, MinQuality: 99}, hist, nil, 0.45455)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQualityTooLow)
}

func TestNewResultRejectsBadGamma(t *testing.T) {
	hist := NewHistogram([]HistogramItem{{Color: Pixel{A: 1}, PerceptualWeight: 1}})
	_, err := NewResult(Policy{MaxColors: 1}, hist, nil, 0)
	assert.ErrorIs(t, err, ErrValueOutOfRange)
}
