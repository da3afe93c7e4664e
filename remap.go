package quant

// DitherMapMode controls whether and when the §4.9 dither-map pre-pass
// runs ahead of the real Floyd-Steinberg pass.
type DitherMapMode int

const (
	// DitherMapOff never runs the pre-pass; dithering (if any) is applied
	// uniformly.
	DitherMapOff DitherMapMode = iota
	// DitherMapEnabled runs the pre-pass unless the image is classified
	// "huge" (§4.9).
	DitherMapEnabled
	// DitherMapAlways runs the pre-pass regardless of image size.
	DitherMapAlways
)

// hugeImagePixels is the §4.9 "huge image" cutoff: above this many
// pixels, the dither-map pre-pass is skipped under DitherMapEnabled since
// its cost stops paying for itself.
const hugeImagePixels = 4_000_000

// Remapped is the product of one remap pass: the posterized integer
// palette, the remapping error over the frame, and the filled index
// bitmap.
//
// Grounded on original_source/src/remap.rs's Remapped::new.
type Remapped struct {
	IntegerPalette IntegerPalette
	Error          float64
	Indices        [][]byte
}

func updateDitherMap(img *Image, out [][]byte) {
	if img.Updater == nil {
		return
	}
	img.Updater.UpdateDitherMap(out)
}

func newRemapped(result *QuantizationResult, img *Image) (*Remapped, error) {
	pal := result.palette.clone()
	prog := result.progress

	stage1 := float32(0)
	if result.policy.DitherMapMode != DitherMapOff {
		stage1 = 20
	}

	out := make([][]byte, img.Height)
	for i := range out {
		out[i] = make([]byte, img.Width)
	}

	if prog.report(stage1 * 0.25) {
		return nil, ErrAborted
	}

	// Seed from the already-computed quantization error rather than zero,
	// matching original_source/src/remap.rs:274's
	// `let mut palette_error = result.palette_error;` — the fresh measurement
	// below only overwrites it when this call actually remaps with
	// remapNearest (the undithered path, or the dither-map pre-pass).
	palErr := result.paletteError
	var intPal IntegerPalette

	if result.ditherLevel == 0 {
		intPal = makeIntegerPalette(pal, result.gamma, result.posterizeBits)
		e, err := remapNearest(img, pal, out, prog)
		if err != nil {
			return nil, err
		}
		palErr = e
	} else {
		isHuge := img.Width*img.Height > hugeImagePixels
		allowMap := result.policy.DitherMapMode == DitherMapAlways ||
			(!isHuge && result.policy.DitherMapMode != DitherMapOff)
		generateMap := allowMap && img.Edges != nil && img.DitherMap == nil

		if generateMap {
			e, err := remapNearest(img, pal, out, prog)
			if err != nil {
				return nil, err
			}
			palErr = e
			updateDitherMap(img, out)
		}

		if prog.report(stage1 * 0.5) {
			return nil, ErrAborted
		}

		intPal = makeIntegerPalette(pal, result.gamma, result.posterizeBits)

		maxDitherErr := qualityToMSE(35)
		base := qualityToMSE(80)
		if palErr > 0 {
			base = palErr
		}
		if base*2.4 > maxDitherErr {
			maxDitherErr = base * 2.4
		}

		ditherMap := img.DitherMap
		if ditherMap == nil {
			ditherMap = img.Edges
		}
		if result.policy.DitherMapMode == DitherMapOff {
			ditherMap = nil
		}

		if err := remapFloyd(img, pal, out, result.ditherLevel, maxDitherErr, generateMap, ditherMap, prog, stage1); err != nil {
			return nil, err
		}
	}

	result.palette = pal
	return &Remapped{IntegerPalette: intPal, Error: palErr, Indices: out}, nil
}
