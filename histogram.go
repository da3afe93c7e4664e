package quant

// HistogramItem is one representative color an external collaborator
// accumulated from the source image(s), together with its perceptual
// weight (edge-aware/popularity-aware, per §3 — the weighting scheme
// itself lives outside this package).
type HistogramItem struct {
	Color            Pixel
	PerceptualWeight float64

	// AdjustedWeight is working state owned by this package: reset to
	// PerceptualWeight at the start of every search, then left alone for
	// the search and refinement passes that follow (§4.3-§4.6).
	AdjustedWeight float64
}

// Histogram is the finite, unordered set of samples the palette search
// operates over (§3). Building it from a source image is outside this
// package's scope.
type Histogram struct {
	Items []HistogramItem
}

// NewHistogram wraps a pre-built item slice. PerceptualWeight must be
// positive for every item that should influence the search.
func NewHistogram(items []HistogramItem) *Histogram {
	return &Histogram{Items: items}
}

func (h *Histogram) resetAdjustedWeights() {
	for i := range h.Items {
		h.Items[i].AdjustedWeight = h.Items[i].PerceptualWeight
	}
}
