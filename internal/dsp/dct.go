package dsp

import "math"

// dctII computes the first numCeps coefficients of an orthonormal DCT-II
// over the input vector. This is the cepstral lifter applied to log-mel
// energies.
func dctII(input []float64, numCeps int) []float64 {
	n := len(input)
	out := make([]float64, numCeps)
	if n == 0 {
		return out
	}
	scale0 := math.Sqrt(1.0 / float64(n))
	scale := math.Sqrt(2.0 / float64(n))
	for k := 0; k < numCeps; k++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += input[i] * math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/float64(n))
		}
		if k == 0 {
			out[k] = sum * scale0
		} else {
			out[k] = sum * scale
		}
	}
	return out
}

// dctIII inverts an orthonormal DCT-II, expanding numCeps coefficients back
// to n values. Coefficients beyond numCeps are treated as zero.
func dctIII(coeffs []float64, n int) []float64 {
	out := make([]float64, n)
	if n == 0 || len(coeffs) == 0 {
		return out
	}
	scale0 := math.Sqrt(1.0 / float64(n))
	scale := math.Sqrt(2.0 / float64(n))
	for i := 0; i < n; i++ {
		sum := coeffs[0] * scale0
		for k := 1; k < len(coeffs); k++ {
			sum += coeffs[k] * scale * math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/float64(n))
		}
		out[i] = sum
	}
	return out
}
