package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFloydSteinbergConvergesToGradient covers SPEC_FULL §8 scenario 5: a
// smooth 256x1 horizontal gradient dithered against a 4-color black/white
// ramp should, over any 64-pixel window, distribute indices close to what
// the local gradient level implies.
func TestFloydSteinbergConvergesToGradient(t *testing.T) {
	const width = 256
	row := make([]Pixel, width)
	for x := range row {
		level := float32(x) / float32(width-1)
		row[x] = Pixel{A: 1, R: level, G: level, B: level}
	}
	rows := SliceRowSource{row}

	pal := workingPalette{
		{Color: Pixel{A: 1, R: 0, G: 0, B: 0}},
		{Color: Pixel{A: 1, R: 1.0 / 3, G: 1.0 / 3, B: 1.0 / 3}},
		{Color: Pixel{A: 1, R: 2.0 / 3, G: 2.0 / 3, B: 2.0 / 3}},
		{Color: Pixel{A: 1, R: 1, G: 1, B: 1}},
	}

	out := [][]byte{make([]byte, width)}
	prog := newProgressTracker(nil)
	err := remapFloyd(&Image{Width: width, Height: 1, Rows: rows}, pal, out, 1.0, qualityToMSE(35), false, nil, prog, 0)
	require.NoError(t, err)

	const window = 64
	for start := 0; start+window <= width; start += window {
		expected := (float64(start) + float64(window)/2) / float64(width-1) * float64(len(pal)-1)
		var sum float64
		for _, b := range out[0][start : start+window] {
			sum += float64(b)
		}
		mean := sum / window
		assert.InDelta(t, expected, mean, 1.0, "window starting at %d should track the local gradient level", start)
	}
}

// TestNearestRemapNeverEmitsTransparentOnOpaqueImage covers the §8
// invariant: a fully opaque image with background reuse enabled must
// never emit the transparent index, because background detection
// disables itself when the nearest-to-zero-alpha entry isn't actually
// transparent. The pixels sit right next to the background color, so
// reuse would fire here if it were left on.
func TestNearestRemapNeverEmitsTransparentOnOpaqueImage(t *testing.T) {
	pal := workingPalette{
		{Color: Pixel{A: 1, R: 0, G: 0, B: 0}},
		{Color: Pixel{A: 1, R: 1, G: 1, B: 1}},
	}
	img := &Image{
		Width: 4, Height: 4,
		Rows:       uniformRows(4, 4, Pixel{A: 1, R: 0.9, G: 0.9, B: 0.9}),
		Background: uniformRows(4, 4, Pixel{A: 1, R: 1, G: 1, B: 1}),
	}
	transparentIndex, _ := newNearestIndex(pal).search(Pixel{}, 0)

	out := make([][]byte, img.Height)
	for i := range out {
		out[i] = make([]byte, img.Width)
	}
	_, err := remapNearest(img, pal, out, newProgressTracker(nil))
	require.NoError(t, err)

	for _, row := range out {
		for _, b := range row {
			assert.Less(t, int(b), len(pal))
			assert.NotEqual(t, transparentIndex, int(b))
		}
	}
}

// TestRemapAbortsOnProgressBreak covers scenario 6 against the remap
// path specifically.
func TestRemapAbortsOnProgressBreak(t *testing.T) {
	pal := workingPalette{
		{Color: Pixel{A: 1, R: 0}},
		{Color: Pixel{A: 1, R: 1}},
	}
	img := &Image{Width: 2, Height: 4, Rows: uniformRows(2, 4, Pixel{A: 1, R: 0.5})}

	calls := 0
	prog := newProgressTracker(func(float32) ControlFlow {
		calls++
		if calls >= 2 {
			return Break
		}
		return Continue
	})

	out := make([][]byte, img.Height)
	for i := range out {
		out[i] = make([]byte, img.Width)
	}
	_, err := remapNearest(img, pal, out, prog)
	assert.Error(t, err)
}

func TestDitherPixelClampsOverflow(t *testing.T) {
	px := Pixel{A: 1, R: 0.95, G: 0.05, B: 0.5}
	hugeErr := Pixel{A: 0, R: 2, G: -2, B: 0}

	out := ditherPixel(1.0, 1e20, hugeErr, px)
	assert.LessOrEqual(t, out.R, float32(1.1)+1e-6)
	assert.GreaterOrEqual(t, out.G, float32(-0.1)-1e-6)
}
