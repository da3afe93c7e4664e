package quant

// Pixel is a single linear-light, alpha-premultiplied RGBA sample — the
// working representation used by every component in this package except
// at the 8-bit input/output boundary (§4.1, §4.9).
//
// Channels are nominally in [0,1], premultiplied by A. During
// Floyd-Steinberg error diffusion a channel may transiently leave that
// range; remap_floyd.go's ditherPixel keeps R, G and B within
// [-0.1, 1.1] and clamps A to [0,1] before the pixel is compared against
// any palette entry.
type Pixel struct {
	A, R, G, B float32
}

func (p Pixel) add(q Pixel) Pixel {
	return Pixel{p.A + q.A, p.R + q.R, p.G + q.G, p.B + q.B}
}

func (p Pixel) sub(q Pixel) Pixel {
	return Pixel{p.A - q.A, p.R - q.R, p.G - q.G, p.B - q.B}
}

func (p Pixel) scale(s float32) Pixel {
	return Pixel{p.A * s, p.R * s, p.G * s, p.B * s}
}
