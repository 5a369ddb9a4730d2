package testsupport

import (
	"math"
	"testing"

	"voxlock/internal/wavio"
)

// Voice synthesizes a deterministic multi-harmonic waveform standing in for
// a spoken utterance. Distinct base frequencies model distinct speakers;
// the same base frequency models the same speaker across recordings.
func Voice(t testing.TB, baseFreq float64, seconds float64) []byte {
	t.Helper()

	n := int(float64(wavio.CanonicalRate) * seconds)
	samples := make([]float64, n)
	for i := range samples {
		ti := float64(i) / float64(wavio.CanonicalRate)
		// Fundamental plus two harmonics with slow amplitude modulation,
		// roughly voice-shaped without being real speech.
		s := 0.5*math.Sin(2*math.Pi*baseFreq*ti) +
			0.25*math.Sin(2*math.Pi*2*baseFreq*ti) +
			0.125*math.Sin(2*math.Pi*3*baseFreq*ti)
		samples[i] = s * (0.7 + 0.3*math.Sin(2*math.Pi*3*ti))
	}

	payload, err := wavio.Encode(samples, wavio.CanonicalRate)
	if err != nil {
		t.Fatalf("encode synthetic voice: %v", err)
	}
	return payload
}
