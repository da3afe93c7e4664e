// Package quant implements the quantization-and-remapping core of a
// palette reducer: given a weighted color histogram it searches for a
// palette of at most 256 colors, then maps every pixel of a source image
// to a palette index, optionally with serpentine Floyd-Steinberg
// dithering and background reuse for frame-to-frame stability.
//
// This package does not decode or encode any image format, does not build
// histograms, and does not manage any public handle/lifecycle surface —
// those are the job of the surrounding application. It consumes an
// already-built Histogram and a RowSource, and produces a palette plus an
// index bitmap.
package quant
