package match

import (
	"errors"
	"math"
	"testing"

	"voxlock/internal/logging"
	"voxlock/internal/services"
	"voxlock/internal/wavio"
)

func toneWAV(t *testing.T, freq float64, seconds float64) []byte {
	t.Helper()
	n := int(float64(wavio.CanonicalRate) * seconds)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(wavio.CanonicalRate))
	}
	payload, err := wavio.Encode(samples, wavio.CanonicalRate)
	if err != nil {
		t.Fatalf("encode tone: %v", err)
	}
	return payload
}

func constSeq(n, dim int, v float64) [][]float64 {
	seq := make([][]float64, n)
	for i := range seq {
		frame := make([]float64, dim)
		for c := range frame {
			frame[c] = v
		}
		seq[i] = frame
	}
	return seq
}

func TestDTWIdenticalSequencesIsZero(t *testing.T) {
	seq := constSeq(40, 13, 0.5)
	if d := DTW(seq, seq); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}

func TestDTWEmptyIsInfinite(t *testing.T) {
	if d := DTW(nil, constSeq(5, 13, 0)); !math.IsInf(d, 1) {
		t.Fatalf("expected +Inf, got %v", d)
	}
}

func TestDTWToleratesTimeStretch(t *testing.T) {
	// The same values at different speaking rates should stay close.
	short := constSeq(20, 13, 0.5)
	long := constSeq(60, 13, 0.5)
	if d := DTW(short, long); d != 0 {
		t.Fatalf("expected zero distance under pure time stretch, got %v", d)
	}
}

func TestDTWMonotonicInDissimilarity(t *testing.T) {
	base := constSeq(30, 13, 0.2)
	prev := -1.0
	for _, offset := range []float64{0.0, 0.1, 0.2, 0.4, 0.8} {
		other := constSeq(30, 13, 0.2+offset)
		d := DTW(base, other)
		if d < prev {
			t.Fatalf("distance decreased with growing dissimilarity: %v after %v", d, prev)
		}
		prev = d
	}
}

func TestMatchSameAudioAccepts(t *testing.T) {
	m := NewMatcher(500, logging.NewNop())
	audio := toneWAV(t, 440, 1.0)

	result, err := m.Match(audio, audio)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !result.Accepted {
		t.Fatalf("expected acceptance, distance=%v", result.Distance)
	}
	if result.Distance > 1e-9 {
		t.Fatalf("expected near-zero self distance, got %v", result.Distance)
	}
}

func TestMatchMissingTemplateRejectsWithoutProcessing(t *testing.T) {
	m := NewMatcher(500, logging.NewNop())
	_, err := m.Match(nil, toneWAV(t, 440, 0.5))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestMatchBadLiveAudioRejects(t *testing.T) {
	m := NewMatcher(500, logging.NewNop())
	_, err := m.Match(toneWAV(t, 440, 0.5), []byte("junk"))
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
}

func TestMatchThresholdSemantics(t *testing.T) {
	strict := NewMatcher(1e-12, logging.NewNop())
	a := toneWAV(t, 440, 1.0)
	b := toneWAV(t, 1760, 1.0)

	result, err := strict.Match(a, b)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if result.Accepted {
		t.Fatalf("expected rejection under strict threshold, distance=%v", result.Distance)
	}
}
