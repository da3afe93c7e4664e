package quant

// ControlFlow is returned by a ProgressFunc to continue or abort work.
type ControlFlow int

const (
	Continue ControlFlow = iota
	Break
)

// ProgressFunc is consulted at the milestones named in §5 and §9: once
// when quantization starts, at every palette-search trial and refinement
// iteration, and at every remapped row. percent is in [0,100] but does not
// always rise within one call: a remap pass reports its rows starting
// again from its own base, and the nearest-path remapper reports rows from
// several goroutines in no fixed order. Returning Break aborts the
// in-progress operation with ErrAborted.
type ProgressFunc func(percent float32) ControlFlow

// progressTracker turns the three quantization-stage weights of §5 (10%
// search setup, 40% palette search, 50% refinement) and a remap pass's
// row-local progress into single 0-100 callback invocations. A tracker
// with a nil fn is always a no-op, so callers never need a nil check.
type progressTracker struct {
	fn                      ProgressFunc
	stage1, stage2, stage3  float32
}

func newProgressTracker(fn ProgressFunc) *progressTracker {
	return &progressTracker{fn: fn, stage1: 10, stage2: 40, stage3: 50}
}

func (t *progressTracker) report(percent float32) bool {
	if t.fn == nil {
		return false
	}
	return t.fn(percent) == Break
}

func (t *progressTracker) quantizationEntry() bool {
	return t.report(t.stage1)
}

func (t *progressTracker) quantizationDone() bool {
	return t.report(t.stage1 + t.stage2 + t.stage3*0.95)
}

func (t *progressTracker) searchTrial(done float32) bool {
	return t.report(t.stage1 + done*t.stage2)
}

func (t *progressTracker) refineIteration(done float32) bool {
	return t.report(t.stage1 + t.stage2 + done*t.stage3*0.89)
}

// remapRow reports progress through a remap pass, where stage1Local is
// the percent already consumed by an optional dither-map pre-pass (§4.9).
func (t *progressTracker) remapRow(stage1Local, row, height float32) bool {
	return t.report(stage1Local + row/height*(100-stage1Local))
}
