package segmentation

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// rescaleIntensity - contrast stretch excluding the intensity tails: pixels
// at or below the low percentile map to 0, at or above the high percentile
// map to 1, the rest linearly in between. Models expect this normalisation
// so it is applied per timepoint before every Eval call.
func rescaleIntensity(plane []float64, lowPercentile float64, highPercentile float64) []float64 {
	low, high := percentileBounds(plane, lowPercentile, highPercentile)
	return stretch(plane, low, high)
}

// rescaleComposite - stretches a two-channel composite with percentile
// bounds computed over both channels combined, so the channels keep their
// relative intensity
func rescaleComposite(a []float64, b []float64, lowPercentile float64, highPercentile float64) ([]float64, []float64) {
	combined := make([]float64, 0, len(a)+len(b))
	combined = append(combined, a...)
	combined = append(combined, b...)
	low, high := percentileBounds(combined, lowPercentile, highPercentile)
	return stretch(a, low, high), stretch(b, low, high)
}

func percentileBounds(values []float64, lowPercentile float64, highPercentile float64) (float64, float64) {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	low := stat.Quantile(lowPercentile/100, stat.LinInterp, sorted, nil)
	high := stat.Quantile(highPercentile/100, stat.LinInterp, sorted, nil)
	return low, high
}

func stretch(plane []float64, low float64, high float64) []float64 {
	result := make([]float64, len(plane))
	if high <= low {
		// Flat image, nothing to stretch
		return result
	}

	span := high - low
	for i, v := range plane {
		scaled := (v - low) / span
		if scaled < 0 {
			scaled = 0
		} else if scaled > 1 {
			scaled = 1
		}
		result[i] = scaled
	}
	return result
}
