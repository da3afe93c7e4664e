package quant

import (
	"sort"

	"github.com/rs/zerolog"
)

// orderPalette applies the final §4.10 ordering policy: fixed colors sort
// by a popularity boost that keeps them ahead of any mined color, and the
// lastIndexTransparent flag decides whether low-alpha entries sort to the
// front (the default) or get forced into the very last slot instead.
//
// Grounded on original_source/src/quant.rs's sort_palette, whose two
// branches are genuinely asymmetric (swap-one-entry-to-the-end vs.
// leave-the-whole-prefix-sorted) and are kept that way here rather than
// unified, per SPEC_FULL §12.
func orderPalette(pal workingPalette, lastIndexTransparent bool, log *zerolog.Logger) {
	sort.SliceStable(pal, func(i, j int) bool {
		keyI := (pal[i].Color.A <= maxTransparentAlpha) == lastIndexTransparent
		keyJ := (pal[j].Color.A <= maxTransparentAlpha) == lastIndexTransparent
		if keyI != keyJ {
			return !keyI
		}
		return pal[i].effectivePopularity() > pal[j].effectivePopularity()
	})

	if lastIndexTransparent {
		alphaIdx := -1
		most := float32(2)
		for i, e := range pal {
			if e.Color.A <= maxTransparentAlpha && e.Color.A < most {
				most = e.Color.A
				alphaIdx = i
			}
		}
		if alphaIdx >= 0 {
			last := len(pal) - 1
			pal[alphaIdx], pal[last] = pal[last], pal[alphaIdx]
		}
		return
	}

	if log == nil {
		return
	}
	numTransparent := 0
	for _, e := range pal {
		if e.Color.A <= maxTransparentAlpha {
			numTransparent++
		}
	}
	if numTransparent > 0 {
		log.Debug().Int("transparent_entries", numTransparent).Msg("palette ordered with transparent entries first")
	}
}
