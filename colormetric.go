package quant

import "math"

// weightMSE is the fixed weight applied to the alpha channel's squared
// difference inside every weighted-MSE computation in this package
// (W_MSE, §3/§4.1).
const weightMSE = 0.25

// diff returns the weighted squared difference between two linear pixels,
// the core distance metric used throughout quantization and remapping
// (§4.1).
func diff(x, y Pixel) float64 {
	dr := float64(x.R - y.R)
	dg := float64(x.G - y.G)
	db := float64(x.B - y.B)
	da := float64(x.A - y.A)
	return dr*dr + dg*dg + db*db + da*da*weightMSE
}

// qualityToMSE maps a 0-100 quality target to the weighted MSE a palette
// must not exceed to satisfy it. Quality 100 demands zero error; quality
// 0 and below effectively demands nothing (a very loose ceiling).
func qualityToMSE(quality int) float64 {
	if quality <= 0 {
		return 1e20
	}
	if quality >= 100 {
		return 0
	}
	q := float64(quality)
	extraLowQualityFudge := 0.016/(0.001+q) - 0.001
	if extraLowQualityFudge < 0 {
		extraLowQualityFudge = 0
	}
	return weightMSE * (extraLowQualityFudge + 2.5/math.Pow(210+q, 1.2)*(100.1-q)/100)
}

// mseToQuality is the inverse of qualityToMSE: the highest quality level
// whose ceiling the given weighted MSE still satisfies.
func mseToQuality(mse float64) int {
	for q := 100; q >= 1; q-- {
		if mse <= qualityToMSE(q)+0.000001 {
			return q
		}
	}
	return 0
}

// mseToStandardMSE rescales a weighted MSE (premultiplied, [0,1] channels)
// into the conventional per-channel 0..255 MSE space used for reporting.
func mseToStandardMSE(mse float64) float64 {
	return mse * 65536.0 / 6.0 / weightMSE
}
