package quant

// QuantizationResult is the core's product: a palette, and — once
// Remapped or RemapInto has been called — the remapped index bitmap (§6).
//
// Grounded on original_source/src/quant.rs's QuantizationResult method
// surface.
type QuantizationResult struct {
	policy        Policy
	histogram     *Histogram
	palette       workingPalette
	remapped      *Remapped
	progress      *progressTracker
	ditherLevel   float32
	gamma         float64
	paletteError  float64
	posterizeBits uint8
}

// NewResult runs palette search (§4.5) and refinement (§4.6) over hist
// under pol, merging in any fixed colors, and returns the resulting
// QuantizationResult. gamma is the output gamma later used by Palette
// and RemapInto; it must be in (0,1).
func NewResult(pol Policy, hist *Histogram, fixedColors []PaletteEntry, gamma float64) (*QuantizationResult, error) {
	if gamma <= 0 || gamma >= 1 {
		return nil, ErrValueOutOfRange
	}

	prog := newProgressTracker(pol.Progress)
	if prog.quantizationEntry() {
		return nil, ErrAborted
	}

	maxMSE, targetMSE, targetIsZero := pol.targetMSE()

	outcome, err := findBestPalette(&pol, hist, fixedColors, targetMSE, targetIsZero, maxMSE, prog)
	if err != nil {
		return nil, err
	}

	if prog.quantizationDone() {
		return nil, ErrAborted
	}

	if maxMSE != nil && outcome.err > *maxMSE {
		if pol.logger() != nil {
			pol.logger().Warn().
				Float64("mse", mseToStandardMSE(outcome.err)).
				Int("quality", mseToQuality(outcome.err)).
				Float64("limit_mse", mseToStandardMSE(*maxMSE)).
				Int("limit_quality", mseToQuality(*maxMSE)).
				Msg("image degradation exceeded quality limit")
		}
		return nil, ErrQualityTooLow
	}

	orderPalette(outcome.palette, pol.LastIndexTransparent, pol.logger())

	return &QuantizationResult{
		policy:        pol,
		histogram:     hist,
		palette:       outcome.palette,
		progress:      prog,
		gamma:         gamma,
		paletteError:  outcome.err,
		posterizeBits: pol.PosterizeBits,
	}, nil
}

// SetDitheringLevel sets the Floyd-Steinberg strength in [0,1]; 0 (the
// default) disables dithering and uses the nearest-path remapper
// instead. Invalidates any previous remap.
func (r *QuantizationResult) SetDitheringLevel(level float32) error {
	if level < 0 || level > 1 {
		return ErrValueOutOfRange
	}
	r.ditherLevel = level
	r.remapped = nil
	return nil
}

// SetOutputGamma sets the gamma colors are encoded with on output, in
// (0,1). Invalidates any previous remap.
func (r *QuantizationResult) SetOutputGamma(gamma float64) error {
	if gamma <= 0 || gamma >= 1 {
		return ErrValueOutOfRange
	}
	r.gamma = gamma
	r.remapped = nil
	return nil
}

// SetProgressCallback installs the §5/§9 progress observer, replacing any
// previously installed by Policy.Progress or an earlier call.
func (r *QuantizationResult) SetProgressCallback(fn ProgressFunc) {
	r.progress = newProgressTracker(fn)
}

// QuantizationQuality reports the winning palette's error as a 0-100
// quality score.
func (r *QuantizationResult) QuantizationQuality() int {
	return mseToQuality(r.paletteError)
}

// QuantizationError reports the winning palette's weighted MSE, rescaled
// into the conventional per-channel 0..255 MSE space.
func (r *QuantizationResult) QuantizationError() float64 {
	return mseToStandardMSE(r.paletteError)
}

// RemappingError reports the most recent remap's error, or ok=false if
// Remapped/RemapInto hasn't been called yet.
func (r *QuantizationResult) RemappingError() (mse float64, ok bool) {
	if r.remapped == nil {
		return 0, false
	}
	return mseToStandardMSE(r.remapped.Error), true
}

// RemappingQuality reports the most recent remap's error as a 0-100
// quality score, or ok=false if Remapped/RemapInto hasn't been called yet.
func (r *QuantizationResult) RemappingQuality() (quality int, ok bool) {
	if r.remapped == nil {
		return 0, false
	}
	return mseToQuality(r.remapped.Error), true
}

// Palette returns the current 8-bit palette. Before the first remap this
// is computed directly from the search/refinement result; afterwards it
// is the (possibly k-means-touched-up) palette from that remap (§4.7).
func (r *QuantizationResult) Palette() []RGBA {
	if r.remapped != nil {
		return r.remapped.IntegerPalette.Entries
	}
	return makeIntegerPalette(r.palette.clone(), r.gamma, r.posterizeBits).Entries
}

// RemapInto remaps img into outBuf, one palette index byte per pixel,
// row-major. outBuf must be at least Width*Height long.
func (r *QuantizationResult) RemapInto(img *Image, outBuf []byte) error {
	if len(outBuf) < img.Width*img.Height {
		return ErrBufferTooSmall
	}
	remapped, err := newRemapped(r, img)
	if err != nil {
		return err
	}
	for row := 0; row < img.Height; row++ {
		copy(outBuf[row*img.Width:(row+1)*img.Width], remapped.Indices[row])
	}
	r.remapped = remapped
	return nil
}

// Remapped remaps img and returns the 8-bit palette together with a
// freshly allocated index bitmap.
func (r *QuantizationResult) Remapped(img *Image) ([]RGBA, []byte, error) {
	buf := make([]byte, img.Width*img.Height)
	if err := r.RemapInto(img, buf); err != nil {
		return nil, nil, err
	}
	return r.Palette(), buf, nil
}
