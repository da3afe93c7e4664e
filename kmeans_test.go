package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKmeansIterationErrorNonIncreasing(t *testing.T) {
	items := []HistogramItem{
		{Color: Pixel{A: 1, R: 0.0, G: 0, B: 0}, PerceptualWeight: 10},
		{Color: Pixel{A: 1, R: 0.1, G: 0, B: 0}, PerceptualWeight: 10},
		{Color: Pixel{A: 1, R: 0.9, G: 0, B: 0}, PerceptualWeight: 10},
		{Color: Pixel{A: 1, R: 1.0, G: 0, B: 0}, PerceptualWeight: 10},
	}
	hist := NewHistogram(items)
	hist.resetAdjustedWeights()

	pal := workingPalette{
		{Color: Pixel{A: 1, R: 0.2, G: 0, B: 0}},
		{Color: Pixel{A: 1, R: 0.3, G: 0, B: 0}},
	}

	const epsilon = 1e-6
	prev := kmeansIteration(hist, pal, false)
	for i := 0; i < 5; i++ {
		cur := kmeansIteration(hist, pal, false)
		assert.LessOrEqual(t, cur, prev+epsilon, "iteration %d should not increase assignment error", i)
		prev = cur
	}
}

func TestKmeansAccumulatorMergeCombinesWeightedCentroid(t *testing.T) {
	a := newKmeansAccumulator(2)
	a.update(Pixel{A: 1, R: 0.2}, 3, 0)
	b := newKmeansAccumulator(2)
	b.update(Pixel{A: 1, R: 0.8}, 1, 0)

	merged := a.merge(b)
	pal := workingPalette{{Color: Pixel{}}, {Color: Pixel{}}}
	merged.finalize(pal)

	assert.InDelta(t, float32((0.2*3+0.8*1)/4), pal[0].Color.R, 1e-6)
}

func TestKmeansLeavesFixedEntriesUntouched(t *testing.T) {
	items := []HistogramItem{
		{Color: Pixel{A: 1, R: 1, G: 0, B: 0}, PerceptualWeight: 10},
	}
	hist := NewHistogram(items)
	hist.resetAdjustedWeights()

	pal := workingPalette{
		{Color: Pixel{A: 1, R: 0, G: 1, B: 0}, Fixed: true},
	}
	kmeansIteration(hist, pal, false)
	assert.Equal(t, Pixel{A: 1, R: 0, G: 1, B: 0}, pal[0].Color)
}
