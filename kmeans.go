package quant

// kmeansAccumulator collects weighted-centroid statistics for one Lloyd
// relaxation pass (§4.4). Accumulators are associative under merge, which
// is what lets the nearest-path remapper (§4.7) keep one per row worker
// and fold them together once every row is done, instead of serializing
// updates through a shared one.
//
// Grounded on original_source/src/quant.rs's Kmeans::iteration call
// contract — no Go k-means-over-a-histogram exists anywhere in the
// retrieval pack, so only the shape (accumulate, then replace centroids)
// is borrowed, expressed idiomatically.
type kmeansAccumulator struct {
	sums []bucketStats
}

func newKmeansAccumulator(n int) *kmeansAccumulator {
	return &kmeansAccumulator{sums: make([]bucketStats, n)}
}

func (k *kmeansAccumulator) update(color Pixel, weight float64, idx int) {
	k.sums[idx].add(weight, color)
}

func (k *kmeansAccumulator) merge(other *kmeansAccumulator) *kmeansAccumulator {
	if other == nil {
		return k
	}
	if k == nil {
		return other
	}
	for i := range k.sums {
		k.sums[i].sumW += other.sums[i].sumW
		k.sums[i].sumA += other.sums[i].sumA
		k.sums[i].sumR += other.sums[i].sumR
		k.sums[i].sumG += other.sums[i].sumG
		k.sums[i].sumB += other.sums[i].sumB
	}
	return k
}

// finalize replaces every non-fixed palette entry with its accumulated
// centroid. Entries with no assigned mass are left unchanged rather than
// collapsed to the origin.
func (k *kmeansAccumulator) finalize(pal workingPalette) {
	for i := range pal {
		if pal[i].Fixed || k.sums[i].sumW <= 0 {
			continue
		}
		pal[i].Color = k.sums[i].mean()
		pal[i].Popularity = k.sums[i].sumW
	}
}

// kmeansIteration performs one Lloyd relaxation pass over hist against
// pal — reassigning every histogram item to its nearest current entry,
// then moving each non-fixed entry to the weighted centroid of what it
// was assigned — and returns the weighted-mean assignment error (§4.4).
//
// When fast is true and the histogram has more than 2000 items, every
// other histogram item is skipped, halving the
// work at the cost of a noisier error estimate; callers always run one
// full (non-fast) pass before trusting the result for a stop decision.
func kmeansIteration(hist *Histogram, pal workingPalette, fast bool) float64 {
	n := newNearestIndex(pal)
	acc := newKmeansAccumulator(len(pal))

	step := 1
	if fast && len(hist.Items) > 2000 {
		step = 2
	}

	var totalErr, sampledWeight float64
	hint := 0
	for i := 0; i < len(hist.Items); i += step {
		it := hist.Items[i]
		idx, d := n.search(it.Color, hint)
		hint = idx
		totalErr += d * it.AdjustedWeight
		sampledWeight += it.AdjustedWeight
		acc.update(it.Color, it.AdjustedWeight, idx)
	}
	acc.finalize(pal)

	if sampledWeight <= 0 {
		return 0
	}
	return totalErr / sampledWeight
}
