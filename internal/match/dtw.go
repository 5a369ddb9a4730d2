package match

import "math"

// DTW computes the dynamic time warping distance between two feature
// sequences under Euclidean per-frame cost. The elastic alignment tolerates
// differing speech rates and durations between enrollment and live samples,
// which a fixed-length comparison would not.
func DTW(a, b [][]float64) float64 {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return math.Inf(1)
	}

	// Rolling two-row table keeps memory at O(m).
	prev := make([]float64, m+1)
	cur := make([]float64, m+1)
	for j := 1; j <= m; j++ {
		prev[j] = math.Inf(1)
	}

	for i := 1; i <= n; i++ {
		cur[0] = math.Inf(1)
		for j := 1; j <= m; j++ {
			cost := euclidean(a[i-1], b[j-1])
			cur[j] = cost + min3(prev[j], cur[j-1], prev[j-1])
		}
		prev, cur = cur, prev
	}
	return prev[m]
}

func euclidean(x, y []float64) float64 {
	sum := 0.0
	for i := range x {
		d := x[i] - y[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
