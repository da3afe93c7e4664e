package quant

import (
	"container/heap"
	"sort"
)

// bucketStats accumulates weighted first and second moments for a set of
// histogram items, enough to compute a weighted centroid and per-axis
// variance without re-scanning the items.
type bucketStats struct {
	sumW                   float64
	sumA, sumR, sumG, sumB float64
	sqA, sqR, sqG, sqB     float64
}

func (s *bucketStats) add(w float64, p Pixel) {
	a, r, g, b := float64(p.A), float64(p.R), float64(p.G), float64(p.B)
	s.sumW += w
	s.sumA += w * a
	s.sumR += w * r
	s.sumG += w * g
	s.sumB += w * b
	s.sqA += w * a * a
	s.sqR += w * r * r
	s.sqG += w * g * g
	s.sqB += w * b * b
}

func (s *bucketStats) mean() Pixel {
	if s.sumW == 0 {
		return Pixel{}
	}
	return Pixel{
		A: float32(s.sumA / s.sumW),
		R: float32(s.sumR / s.sumW),
		G: float32(s.sumG / s.sumW),
		B: float32(s.sumB / s.sumW),
	}
}

// variance returns the per-axis weighted population variance, plus the
// weighted MSE to the centroid: the sum of the per-axis variances, with
// alpha scaled by weightMSE so it is commensurate with diff() (§4.1).
func (s *bucketStats) variance() (a, r, g, b, mse float64) {
	if s.sumW == 0 {
		return
	}
	mA, mR, mG, mB := s.sumA/s.sumW, s.sumR/s.sumW, s.sumG/s.sumW, s.sumB/s.sumW
	a = s.sqA/s.sumW - mA*mA
	r = s.sqR/s.sumW - mR*mR
	g = s.sqG/s.sumW - mG*mG
	b = s.sqB/s.sumW - mB*mB
	mse = a*weightMSE + r + g + b
	return
}

// mcBucket is one cluster of histogram items being considered for
// further splitting.
type mcBucket struct {
	items   []int // indices into the histogram's Items slice
	stats   bucketStats
	axis    int // 0=a, 1=r, 2=g, 3=b: the axis with the largest weighted variance
	axisVar float64
	mse     float64
}

func channelValue(p Pixel, axis int) float32 {
	switch axis {
	case 0:
		return p.A
	case 1:
		return p.R
	case 2:
		return p.G
	default:
		return p.B
	}
}

func analyzeBucket(hist *Histogram, items []int) *mcBucket {
	b := &mcBucket{items: items}
	for _, idx := range items {
		it := hist.Items[idx]
		b.stats.add(it.AdjustedWeight, it.Color)
	}
	a, r, g, bl, mse := b.stats.variance()
	b.mse = mse
	b.axis, b.axisVar = 1, r
	if g > b.axisVar {
		b.axis, b.axisVar = 2, g
	}
	if bl > b.axisVar {
		b.axis, b.axisVar = 3, bl
	}
	if a > b.axisVar {
		b.axis, b.axisVar = 0, a
	}
	return b
}

// splitBucket splits b along its widest axis at a weight-biased median.
// b is only ever split when axisVar > 0, which implies at least two
// distinct values along that axis, so both halves come out non-empty.
func splitBucket(hist *Histogram, b *mcBucket) (*mcBucket, *mcBucket) {
	items := append([]int(nil), b.items...)
	sort.Slice(items, func(i, j int) bool {
		return channelValue(hist.Items[items[i]].Color, b.axis) < channelValue(hist.Items[items[j]].Color, b.axis)
	})

	half := b.stats.sumW / 2
	var acc float64
	splitAt := 1
	for i, idx := range items {
		acc += hist.Items[idx].AdjustedWeight
		if acc >= half {
			splitAt = i + 1
			break
		}
	}
	if splitAt < 1 {
		splitAt = 1
	}
	if splitAt >= len(items) {
		splitAt = len(items) - 1
	}

	return analyzeBucket(hist, items[:splitAt]), analyzeBucket(hist, items[splitAt:])
}

type bucketHeap []*mcBucket

func (h bucketHeap) Len() int            { return len(h) }
func (h bucketHeap) Less(i, j int) bool  { return h[i].axisVar > h[j].axisVar }
func (h bucketHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *bucketHeap) Push(x interface{}) { *h = append(*h, x.(*mcBucket)) }
func (h *bucketHeap) Pop() interface{} {
	old := *h
	n := len(old)
	b := old[n-1]
	*h = old[:n-1]
	return b
}

// medianCut partitions hist into at most k representative colors by
// recursively splitting the bucket with the largest weighted variance
// along its highest-variance axis (§4.3). targetMSE and ceiling bound how
// finely a bucket is split before its own internal weighted MSE is judged
// good enough to stop on; a smaller-than-k palette is returned when every
// remaining bucket's variance or error collapses before k is reached.
//
// Grounded on soniakeys-quant/median/median.go's heap-prioritized
// recursive split, adapted from "split the bucket with the most pixels"
// to "split the bucket with the largest weighted variance".
func medianCut(hist *Histogram, k int, targetMSE, ceiling float64) workingPalette {
	if k <= 0 || len(hist.Items) == 0 {
		return workingPalette{}
	}
	stopMSE := targetMSE
	if ceiling < stopMSE {
		stopMSE = ceiling
	}

	allItems := make([]int, len(hist.Items))
	for i := range allItems {
		allItems[i] = i
	}
	root := analyzeBucket(hist, allItems)

	var done []*mcBucket
	h := &bucketHeap{}
	if root.axisVar > 0 && root.mse >= stopMSE {
		heap.Push(h, root)
	} else {
		done = append(done, root)
	}

	for h.Len() > 0 && len(done)+h.Len() < k {
		b := heap.Pop(h).(*mcBucket)
		left, right := splitBucket(hist, b)
		for _, nb := range []*mcBucket{left, right} {
			if nb.axisVar > 0 && nb.mse >= stopMSE && len(done)+h.Len()+1 < k {
				heap.Push(h, nb)
			} else {
				done = append(done, nb)
			}
		}
	}
	for h.Len() > 0 {
		done = append(done, heap.Pop(h).(*mcBucket))
	}

	pal := make(workingPalette, 0, len(done))
	for _, b := range done {
		pal = append(pal, PaletteEntry{Color: b.stats.mean(), Popularity: b.stats.sumW})
	}
	return pal
}
