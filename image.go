package quant

// RowSource is the opaque cursor the remapper pulls linear-pixel rows
// from (§3). scratch is caller-owned, one row wide, and may be reused by
// the implementation as backing storage for the returned slice — the
// returned slice is only valid until the next call to Row.
type RowSource interface {
	Row(index int, scratch []Pixel) []Pixel
}

// DitherMapUpdater is implemented by whatever external collaborator built
// Image.Edges. When set, the §4.9 dither-map pre-pass calls
// UpdateDitherMap with the bitmap from its nearest-path remap so the
// collaborator can refine the map before the real dithered pass runs;
// building the map itself is outside this package's scope.
type DitherMapUpdater interface {
	UpdateDitherMap(indices [][]byte)
}

// Image is everything the remapper needs about one frame: its row
// source, dimensions, an optional background row source for temporal
// coherence across animation frames (§4.7/§4.8), and an optional
// dither/edge map (§3, §4.9).
type Image struct {
	Width, Height int
	Rows          RowSource

	// Background, if set, enables background-reuse: a pixel that's
	// closer to the previous frame's already-displayed color than to any
	// palette entry is remapped to the transparent index instead.
	Background RowSource

	// DitherMap, if set, scales dithering strength per pixel (row-major,
	// width*height bytes, 0-255). Edges is the undithered input an
	// external collaborator can refine into DitherMap via Updater.
	DitherMap []byte
	Edges     []byte
	Updater   DitherMapUpdater
}

// SliceRowSource is a RowSource backed by a fully materialized [][]Pixel,
// useful for tests and for callers that already hold the whole frame in
// memory.
type SliceRowSource [][]Pixel

func (s SliceRowSource) Row(index int, _ []Pixel) []Pixel {
	return s[index]
}
