package quant

// remapFloyd performs the serpentine Floyd-Steinberg error-diffusion pass
// of §4.8. It is inherently sequential — each row's propagated error
// depends on its predecessor's — unlike the embarrassingly parallel
// nearest path.
//
// Grounded on makew0rld-dither/dither.go's Dither method (serpentine
// scan, two row-wide error buffers swapped each row, clamped error
// propagation) restructured around original_source/src/remap.rs's exact
// get_dithered_pixel / remap_to_palette_floyd formulas: the fixed
// 7/16-3/16-5/16-1/16 weights, the background-match heuristic, and the
// undithered_bg_used counter that favors a slightly-worse-but-undithered
// match when dithering would otherwise needlessly disturb a background
// pixel (§9 keeps that counter's threshold as contract, not a tunable).
func remapFloyd(img *Image, pal workingPalette, out [][]byte, ditherLevel float32, maxDitherError float64, outputIsRemapped bool, ditherMap []byte, prog *progressTracker, stage1 float32) error {
	width, height := img.Width, img.Height
	nidx := newNearestIndex(pal)

	transparentIndex := 0
	backgroundOK := img.Background != nil
	if backgroundOK {
		idx, _ := nidx.search(Pixel{}, 0)
		transparentIndex = idx
		if pal[idx].Color.A > minOpaqueAlpha {
			backgroundOK = false
		}
	}

	baseLevel := (1 - (1-ditherLevel)*(1-ditherLevel)) * (15.0 / 16.0)
	usingMap := len(ditherMap) > 0
	if usingMap {
		baseLevel /= 255.0
	}

	errWidth := width + 2
	thisErr := make([]Pixel, errWidth)
	nextErr := make([]Pixel, errWidth)

	rowScratch := make([]Pixel, width)
	bgScratch := make([]Pixel, width)
	scanForward := true

	for row := 0; row < height; row++ {
		if prog.remapRow(stage1, float32(row), float32(height)) {
			return ErrAborted
		}
		for i := range nextErr {
			nextErr[i] = Pixel{}
		}

		rowPixels := img.Rows.Row(row, rowScratch)
		var bgPixels []Pixel
		if backgroundOK {
			bgPixels = img.Background.Row(row, bgScratch)
		}
		var rowMap []byte
		if usingMap {
			start := row * width
			if start+width <= len(ditherMap) {
				rowMap = ditherMap[start : start+width]
			}
		}

		unditheredBgUsed := 0
		lastMatch := 0

		col := 0
		if !scanForward {
			col = width - 1
		}
		for {
			level := baseLevel
			if rowMap != nil {
				level *= float32(rowMap[col])
			}
			inputPx := rowPixels[col]
			spx := ditherPixel(level, maxDitherError, thisErr[col+1], inputPx)

			guessedMatch := lastMatch
			if outputIsRemapped {
				guessedMatch = int(out[row][col])
			}
			matchIdx, matchDiff := nidx.search(spx, guessedMatch)
			lastMatch = matchIdx
			outputColor := pal[lastMatch].Color

			if backgroundOK && bgPixels != nil {
				bgPixel := bgPixels[col]
				bgDiff := diff(spx, bgPixel)
				switch {
				case bgDiff <= matchDiff:
					outputColor = bgPixel
					lastMatch = transparentIndex
				case unditheredBgUsed > 1:
					unditheredBgUsed = 0
				default:
					maxDiff := diff(inputPx, bgPixel)
					ditheredDiff := diff(inputPx, outputColor)
					if ditheredDiff > maxDiff {
						guessedPx := pal[guessedMatch].Color
						if undithDiff := diff(inputPx, guessedPx); undithDiff < maxDiff {
							unditheredBgUsed++
							outputColor = guessedPx
							lastMatch = guessedMatch
						}
					}
				}
			}

			out[row][col] = byte(lastMatch)

			errPx := spx.sub(outputColor)
			if float64(sqMag(errPx)) > maxDitherError {
				errPx = errPx.scale(0.75)
			}

			if scanForward {
				thisErr[col+2] = thisErr[col+2].add(errPx.scale(7.0 / 16))
				nextErr[col+2] = errPx.scale(1.0 / 16)
				nextErr[col+1] = nextErr[col+1].add(errPx.scale(5.0 / 16))
				nextErr[col] = nextErr[col].add(errPx.scale(3.0 / 16))
			} else {
				thisErr[col] = thisErr[col].add(errPx.scale(7.0 / 16))
				nextErr[col+2] = nextErr[col+2].add(errPx.scale(3.0 / 16))
				nextErr[col+1] = nextErr[col+1].add(errPx.scale(5.0 / 16))
				nextErr[col] = errPx.scale(1.0 / 16)
			}

			if scanForward {
				if col++; col >= width {
					break
				}
			} else {
				if col == 0 {
					break
				}
				col--
			}
		}

		thisErr, nextErr = nextErr, thisErr
		scanForward = !scanForward
	}
	return nil
}

func sqMag(p Pixel) float32 {
	return p.R*p.R + p.G*p.G + p.B*p.B + p.A*p.A
}

// ditherPixel applies the propagated error at this column, scaled by
// level, to px — clamping the ratio so no RGB channel leaves
// [-0.1, 1.1] and alpha stays in [0,1] (§4.8's MAX_OVERFLOW/MAX_UNDERFLOW
// ratio clamp).
func ditherPixel(level float32, maxDitherError float64, thisErr Pixel, px Pixel) Pixel {
	s := thisErr.scale(level)
	ditherErr := float64(s.R*s.R + s.G*s.G + s.B*s.B + s.A*s.A)
	if ditherErr < 2.0/256/256 {
		return px
	}

	const maxOverflow = 1.1
	const maxUnderflow = -0.1
	ratio := float32(1.0)
	clampAxis := func(v, sv float32) {
		if v+sv > maxOverflow {
			if r := (maxOverflow - v) / sv; r < ratio {
				ratio = r
			}
		} else if v+sv < maxUnderflow {
			if r := (maxUnderflow - v) / sv; r < ratio {
				ratio = r
			}
		}
	}
	clampAxis(px.R, s.R)
	clampAxis(px.G, s.G)
	clampAxis(px.B, s.B)

	if ditherErr > maxDitherError {
		ratio *= 0.8
	}

	a := px.A + s.A
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	return Pixel{
		A: a,
		R: px.R + s.R*ratio,
		G: px.G + s.G*ratio,
		B: px.B + s.B*ratio,
	}
}
