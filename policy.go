package quant

import "github.com/rs/zerolog"

// Policy holds every user-tunable input to quantization and remapping: how
// many colors to aim for, how hard to search for them, and where to send
// verbose diagnostics. A zero-value Policy is usable: MaxColors defaults
// to 256 and Speed to a balanced middle setting.
//
// Grounded on makew0rld-dither/dither.go's Ditherer struct shape (public,
// zero-value-usable config fields validated lazily rather than in a
// constructor).
type Policy struct {
	// MaxColors caps the final palette size, 1-256. Zero means 256.
	MaxColors int

	// Speed trades search thoroughness for run time, 1 (most thorough) to
	// 10 (fastest). Zero is treated as 4.
	Speed int

	// MinQuality/MaxQuality bound the acceptable weighted MSE in 0-100
	// quality units (§4.1, §4.5). MaxQuality of 0 means "no target palette
	// error, accept whatever converges"; MinQuality of 0 means "no floor,
	// never fail with ErrQualityTooLow".
	MinQuality int
	MaxQuality int

	// LastIndexTransparent selects the §4.10 ordering policy: true forces
	// the most transparent entry into the final palette slot, false keeps
	// transparent entries at the front.
	LastIndexTransparent bool

	// PosterizeBits zeroes this many low bits of each output channel,
	// alpha included (§4.9).
	PosterizeBits uint8

	// DitherMapMode controls whether the §4.9 dither-map pre-pass runs.
	DitherMapMode DitherMapMode

	// Progress, if set, is consulted at the milestones in §5 and §9.
	Progress ProgressFunc

	// Log receives verbose diagnostics from the search, refinement, and
	// ordering stages (§4.5, §4.10). Nil disables them.
	Log *zerolog.Logger
}

func (p *Policy) maxColors() int {
	if p == nil || p.MaxColors <= 0 || p.MaxColors > maxColors {
		return maxColors
	}
	return p.MaxColors
}

func (p *Policy) speed() int {
	if p == nil || p.Speed <= 0 {
		return 4
	}
	if p.Speed > 10 {
		return 10
	}
	return p.Speed
}

func (p *Policy) logger() *zerolog.Logger {
	if p == nil {
		return nil
	}
	return p.Log
}

// targetMSE converts the policy's quality bounds into the search driver's
// inputs: an optional hard ceiling (maxMSE), the target to aim for, and
// whether that target is exactly zero (the short-circuit condition, §4.5).
func (p *Policy) targetMSE() (maxMSE *float64, targetMSE float64, targetIsZero bool) {
	minQ, maxQ := 0, 0
	if p != nil {
		minQ, maxQ = p.MinQuality, p.MaxQuality
	}
	if maxQ > 0 {
		targetMSE = qualityToMSE(maxQ)
		targetIsZero = maxQ >= 100
	}
	if minQ > 0 {
		m := qualityToMSE(minQ)
		maxMSE = &m
	}
	return
}

// trialBudget bounds how many median-cut/k-means trials findBestPalette
// runs before accepting its best candidate (§4.5). Lower speed numbers
// (more thorough) get a larger budget; small histograms get a further
// boost since a wasted trial there is cheap.
func (p *Policy) trialBudget(histLen int) int {
	n := 9 - p.speed()
	if n < 0 {
		n = 0
	}
	budget := n*n + 2
	if histLen < 1000 {
		budget *= 2
	}
	return budget
}

// kmeansIterations bounds how many refinement passes refinePalette runs
// after the search driver settles on a winner (§4.6), and the convergence
// threshold below which successive passes are judged to have stabilized.
func (p *Policy) kmeansIterations(histLen int, hasConverged bool) (iterations int, convergenceThreshold float64) {
	iterations = 8 - p.speed()
	if iterations < 0 {
		iterations = 0
	}
	if histLen > 5000 && p.speed() > 7 {
		iterations /= 2
	}
	if !hasConverged {
		iterations++
	}
	convergenceThreshold = 1.0 / (256.0 * 256.0 * 64.0)
	if p.speed() >= 10 {
		convergenceThreshold *= 16
	}
	return
}
