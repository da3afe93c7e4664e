package quant

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"
)

var errRemapAborted = errors.New("quant: remap aborted")

// remapNearest is the nearest-path remapper (§4.7): every row is looked
// up independently with no dithering, in parallel across a work-stealing
// queue of row indices, with background reuse folded in and every
// worker's thread-local k-means accumulator merged into the palette once
// all rows are done.
//
// Grounded on makew0rld-dither/parallel.go's goroutine-worker shape,
// restructured from a static Y-range partition into a channel-fed row
// queue per SPEC_FULL §11 (true work-stealing instead of a fixed split,
// since remap rows can vary sharply in cost when a background image is
// present). Uses golang.org/x/sync/errgroup so an aborted worker
// cancels its siblings instead of letting them run to completion.
func remapNearest(img *Image, pal workingPalette, out [][]byte, prog *progressTracker) (float64, error) {
	width, height := img.Width, img.Height
	nidx := newNearestIndex(pal)

	transparentIndex := -1
	backgroundOK := img.Background != nil
	if backgroundOK {
		idx, _ := nidx.search(Pixel{}, 0)
		transparentIndex = idx
		if pal[idx].Color.A > minOpaqueAlpha {
			backgroundOK = false
		}
	}

	rows := make(chan int, height)
	for r := 0; r < height; r++ {
		rows <- r
	}
	close(rows)

	type partial struct {
		err float64
		acc *kmeansAccumulator
	}

	workers := numWorkers(height)
	results := make(chan partial, workers)

	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			scratch := make([]Pixel, width)
			bgScratch := make([]Pixel, width)
			acc := newKmeansAccumulator(len(pal))
			rowErr := 0.0

			for r := range rows {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				if prog.remapRow(0, float32(r), float32(height)) {
					return errRemapAborted
				}

				pixels := img.Rows.Row(r, scratch)
				var bg []Pixel
				if backgroundOK {
					bg = img.Background.Row(r, bgScratch)
				}
				outRow := out[r]
				last := 0
				for c := 0; c < width; c++ {
					idx, d := nidx.search(pixels[c], last)
					last = idx
					reused := false
					if bg != nil {
						if bgDiff := diff(pixels[c], bg[c]); bgDiff <= d {
							d = bgDiff
							last = transparentIndex
							reused = true
						}
					}
					outRow[c] = byte(last)
					rowErr += d
					if !reused {
						acc.update(pixels[c], 1, last)
					}
				}
			}

			results <- partial{err: rowErr, acc: acc}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, ErrAborted
	}
	close(results)

	var totalErr float64
	var merged *kmeansAccumulator
	for p := range results {
		totalErr += p.err
		merged = merged.merge(p.acc)
	}
	if merged != nil {
		merged.finalize(pal)
	}

	return totalErr / float64(width*height), nil
}

func numWorkers(height int) int {
	n := runtime.GOMAXPROCS(0)
	if n > height {
		n = height
	}
	if n < 1 {
		n = 1
	}
	return n
}
