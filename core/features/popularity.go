package features

import "math"

// popularityDivisor puts saturation near a playcount of 10^8.
const popularityDivisor = 8.0

// Popularity maps a raw playcount onto [0, 1] with a log10 curve.
func Popularity(playcount int64) float64 {
	if playcount <= 0 {
		return 0
	}
	return math.Min(math.Log10(float64(playcount)+1)/popularityDivisor, 1.0)
}
