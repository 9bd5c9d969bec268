package analysis

import "math"

// Combine merges two certainty factors for the same conclusion using the
// MYCIN parallel-combination rule. Inputs are clamped to [-1, 1]. Two
// absolute opposites (1 and -1) cancel to 0.
func Combine(cf1, cf2 float64) float64 {
	cf1 = clip(cf1, -1, 1)
	cf2 = clip(cf2, -1, 1)

	var out float64
	switch {
	case cf1 >= 0 && cf2 >= 0:
		out = cf1 + cf2*(1-cf1)
	case cf1 <= 0 && cf2 <= 0:
		out = cf1 + cf2*(1+cf1)
	default:
		denom := 1 - math.Min(math.Abs(cf1), math.Abs(cf2))
		if denom == 0 {
			return 0
		}
		out = (cf1 + cf2) / denom
	}
	return clip(out, -1, 1)
}

// Fold combines cfs left to right starting from 0
func Fold(cfs ...float64) float64 {
	acc := 0.0
	for _, cf := range cfs {
		acc = Combine(acc, cf)
	}
	return acc
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// round rounds x to the given number of decimals
func round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}
