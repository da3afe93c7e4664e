package quant

import "math"

// gammaLUT precomputes, for one output gamma, the 256-entry table that
// turns an 8-bit gamma-encoded channel back into this package's linear
// space. Grounded on makew0rld-dither/color_spaces.go's linearize
// helpers, generalized from a fixed sRGB curve to an arbitrary gamma
// (§10, QuantizationResult.SetOutputGamma).
type gammaLUT struct {
	table [256]float32
}

func newGammaLUT(gamma float64) gammaLUT {
	var t gammaLUT
	for i := range t.table {
		t.table[i] = float32(math.Pow(float64(i)/255.0, 1.0/gamma))
	}
	return t
}

func (g gammaLUT) fromRGBA(c RGBA) Pixel {
	a := float32(c.A) / 255.0
	return Pixel{
		A: a,
		R: g.table[c.R] * a,
		G: g.table[c.G] * a,
		B: g.table[c.B] * a,
	}
}

// PixelFromRGBA converts an 8-bit, non-premultiplied, gamma-encoded color
// into this package's linear premultiplied representation. Provided as a
// convenience for building histograms and row sources; hot paths that
// convert many pixels under the same gamma should build a gammaLUT once
// instead.
func PixelFromRGBA(c RGBA, gamma float64) Pixel {
	return newGammaLUT(gamma).fromRGBA(c)
}

func clamp8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func toGamma8(v float32, gamma float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Pow(float64(v), gamma)*255 + 0.5)
}

// toRGB converts a linear premultiplied pixel back to 8-bit, non-
// premultiplied, gamma-encoded channels.
func (p Pixel) toRGB(gamma float64) RGBA {
	if p.A <= 0 {
		return RGBA{}
	}
	return RGBA{
		R: toGamma8(p.R/p.A, gamma),
		G: toGamma8(p.G/p.A, gamma),
		B: toGamma8(p.B/p.A, gamma),
		A: clamp8(p.A),
	}
}

// posterizeChannel zeroes the low bits bits of c, replicating the top bits
// down so full black/white still map to 0x00/0xFF (§4.9).
func posterizeChannel(c uint8, bits uint8) uint8 {
	if bits == 0 {
		return c
	}
	mask := uint8(0xFF << bits)
	return (c & mask) | (c >> (8 - bits))
}

// makeIntegerPalette posterizes pal into its 8-bit output form (§4.9).
// It also rounds pal's own linear colors to the posterized round-trip
// value, so later consumers of the working palette see the same color
// that was actually emitted — except where a fully-transparent, non-fixed
// entry is substituted with the canary color (71,112,76) in the integer
// output only, per original_source/src/remap.rs's make_int_palette, so
// downstream palette-distance comparisons are never biased towards a
// color nobody will render.
func makeIntegerPalette(pal workingPalette, gamma float64, posterizeBits uint8) IntegerPalette {
	lut := newGammaLUT(gamma)
	out := IntegerPalette{Entries: make([]RGBA, len(pal))}
	for i := range pal {
		px := pal[i].Color.toRGB(gamma)
		px.R = posterizeChannel(px.R, posterizeBits)
		px.G = posterizeChannel(px.G, posterizeBits)
		px.B = posterizeChannel(px.B, posterizeBits)
		px.A = posterizeChannel(px.A, posterizeBits)

		pal[i].Color = lut.fromRGBA(px)

		if px.A == 0 && !pal[i].Fixed {
			px.R, px.G, px.B = 71, 112, 76
		}
		out.Entries[i] = px
	}
	return out
}
