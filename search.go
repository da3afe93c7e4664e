package quant

import "math"

// searchOutcome is the result of findBestPalette: the winning palette and
// its weighted MSE over the histogram.
type searchOutcome struct {
	palette workingPalette
	err     float64
}

// findBestPalette runs the bounded-trial feedback loop of §4.5 — generate
// a median-cut candidate, relax it one k-means pass, keep it if it's the
// best seen so far, repeat until the trial budget is spent — then hands
// the winner to refinePalette for additional relaxation passes (§4.6).
//
// Grounded almost mechanically on original_source/src/quant.rs's
// find_best_palette, since §4.5's pseudocode is that function.
func findBestPalette(pol *Policy, hist *Histogram, fixed []PaletteEntry, targetMSE float64, targetIsZero bool, maxMSE *float64, prog *progressTracker) (searchOutcome, error) {
	hist.resetAdjustedWeights()

	maxColors := pol.maxColors()

	if len(hist.Items)+len(fixed) <= maxColors && targetIsZero {
		return searchOutcome{palette: paletteFromHistogram(hist, maxColors, fixed), err: 0}, nil
	}

	totalTrials := pol.trialBudget(len(hist.Items))
	trialsLeft := totalTrials
	overshoot := 1.0
	if totalTrials > 0 {
		overshoot = 1.05
	}
	failsInRow := 0

	var best workingPalette
	haveBest := false
	var bestErr float64

	for {
		ceiling := targetMSE
		base := qualityToMSE(1)
		if haveBest {
			base = bestErr
		}
		if base > ceiling {
			ceiling = base
		}
		if q51 := qualityToMSE(51); q51 > ceiling {
			ceiling = q51
		}
		ceiling *= 1.2

		candidate := medianCut(hist, maxColors-len(fixed), targetMSE*overshoot, ceiling)
		candidate = candidate.withFixedColors(maxColors, fixed)

		if pol.logger() != nil {
			pol.logger().Debug().Msgf("selecting colors...%d%%", int(100*searchStageDone(trialsLeft, totalTrials)))
		}

		if trialsLeft <= 0 {
			best = candidate
			haveBest = true
			break
		}

		firstRunOfTarget := !haveBest && targetMSE > 0
		totalError := kmeansIteration(hist, candidate, !firstRunOfTarget)

		accept := !haveBest || totalError < bestErr || (totalError <= targetMSE && len(candidate) < maxColors)
		if accept {
			if totalError < targetMSE && totalError > 0 {
				grown := overshoot * 1.25
				capped := targetMSE / totalError
				if grown < capped {
					overshoot = grown
				} else {
					overshoot = capped
				}
			}
			bestErr = totalError
			haveBest = true
			if len(candidate)+1 < maxColors {
				maxColors = len(candidate) + 1
			}
			trialsLeft--
			failsInRow = 0
			best = candidate
		} else {
			failsInRow++
			overshoot = 1.0
			trialsLeft -= 5 + failsInRow
		}

		if prog.searchTrial(float32(searchStageDone(trialsLeft, totalTrials))) {
			return searchOutcome{}, ErrAborted
		}
		if trialsLeft <= 0 {
			break
		}
	}

	if !haveBest {
		return searchOutcome{}, ErrValueOutOfRange
	}

	refinedErr, err := refinePalette(best, pol, hist, maxMSE, bestErr, prog)
	if err != nil {
		return searchOutcome{}, err
	}
	return searchOutcome{palette: best, err: refinedErr}, nil
}

func searchStageDone(trialsLeft, totalTrials int) float64 {
	if totalTrials < 0 {
		totalTrials = 0
	}
	if trialsLeft < 0 {
		trialsLeft = 0
	}
	frac := float64(trialsLeft) / float64(totalTrials+1)
	return 1 - frac*frac
}

// paletteFromHistogram is the §4.5 short-circuit path: when the
// histogram (plus fixed colors) already fits within max_colors and a
// perfect (quality-100) target was requested, build the palette directly
// from the histogram instead of running median-cut at all.
func paletteFromHistogram(hist *Histogram, maxColors int, fixed []PaletteEntry) workingPalette {
	pal := make(workingPalette, 0, len(hist.Items))
	for _, it := range hist.Items {
		pal = append(pal, PaletteEntry{Color: it.Color, Popularity: it.PerceptualWeight})
	}
	return pal.withFixedColors(maxColors, fixed)
}

// refinePalette runs additional k-means relaxation passes over the
// search driver's winner until successive passes' error stops moving by
// more than a convergence threshold, or the policy's iteration budget is
// spent (§4.6).
func refinePalette(pal workingPalette, pol *Policy, hist *Histogram, maxMSE *float64, currentErr float64, prog *progressTracker) (float64, error) {
	iterations, convergenceThreshold := pol.kmeansIterations(len(hist.Items), true)
	if iterations <= 0 {
		return currentErr, nil
	}
	if pol.logger() != nil {
		pol.logger().Debug().Msg("moving colormap towards local minimum")
	}

	hardMax := 1e20
	if maxMSE != nil {
		hardMax = *maxMSE
	}

	prevErr := currentErr
	for i := 0; i < iterations; {
		if prog.refineIteration(float32(i) / float32(iterations)) {
			return 0, ErrAborted
		}
		palErr := kmeansIteration(hist, pal, false)
		if palErr > 1e20 {
			return 0, ErrInternalInvariantViolated
		}
		if math.Abs(prevErr-palErr) < convergenceThreshold {
			prevErr = palErr
			break
		}
		prevErr = palErr
		if palErr > hardMax*1.5 {
			i += 2
		} else {
			i++
		}
	}
	return prevErr, nil
}
