package quant

// RGBA is an 8-bit, non-premultiplied, gamma-encoded color — the public,
// on-the-wire representation of a palette entry (§4.9).
type RGBA struct {
	R, G, B, A uint8
}

// IntegerPalette is the 8-bit output of makeIntegerPalette: what callers
// actually see via QuantizationResult.Palette (§6).
type IntegerPalette struct {
	Entries []RGBA
}

const (
	maxColors = 256

	// maxTransparentAlpha classifies a palette entry as "transparent" for
	// ordering purposes (§4.10). See DESIGN.md Open-question decisions.
	maxTransparentAlpha = 48.0 / 255.0

	// minOpaqueAlpha disqualifies a would-be background/transparent index
	// from reuse when it isn't actually transparent (§4.7/§4.8).
	minOpaqueAlpha = 64.0 / 255.0
)

// PaletteEntry is one color in a working palette: a linear pixel, its
// popularity (summed perceptual weight of the histogram mass it
// represents), and whether the caller pinned it as a fixed color (§3).
type PaletteEntry struct {
	Color      Pixel
	Popularity float64
	Fixed      bool
}

// effectivePopularity is what final ordering sorts on: fixed entries are
// boosted far above any mined popularity so they never get bumped by a
// more popular mined color (§4.10).
func (e PaletteEntry) effectivePopularity() float64 {
	if e.Fixed {
		return e.Popularity + 1e9
	}
	return e.Popularity
}

// workingPalette is the palette under construction during search and
// refinement, before it is posterized into an IntegerPalette.
type workingPalette []PaletteEntry

func (p workingPalette) clone() workingPalette {
	out := make(workingPalette, len(p))
	copy(out, p)
	return out
}

// withFixedColors appends the caller's pinned colors to p, capped at max
// total entries (§3: fixed colors are merged into every candidate palette
// after median-cut and before k-means).
func (p workingPalette) withFixedColors(max int, fixed []PaletteEntry) workingPalette {
	out := make(workingPalette, 0, len(p)+len(fixed))
	out = append(out, p...)
	for _, f := range fixed {
		if len(out) >= max {
			break
		}
		out = append(out, PaletteEntry{Color: f.Color, Popularity: f.Popularity, Fixed: true})
	}
	if len(out) > max {
		out = out[:max]
	}
	return out
}
