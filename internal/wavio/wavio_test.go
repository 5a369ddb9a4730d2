package wavio

import (
	"errors"
	"math"
	"testing"
)

func sine(freq float64, rate, n int) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return samples
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := sine(440, CanonicalRate, 2048)
	payload, err := Encode(original, CanonicalRate)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	clip, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if clip.Rate != CanonicalRate {
		t.Fatalf("expected rate %d, got %d", CanonicalRate, clip.Rate)
	}
	if len(clip.Samples) != len(original) {
		t.Fatalf("expected %d samples, got %d", len(original), len(clip.Samples))
	}
	for i := range original {
		if math.Abs(clip.Samples[i]-original[i]) > 1.0/32000.0 {
			t.Fatalf("sample %d diverged: %v vs %v", i, clip.Samples[i], original[i])
		}
	}
}

func TestEncodeEmptyFails(t *testing.T) {
	if _, err := Encode(nil, CanonicalRate); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("not a wav"),
		make([]byte, 100),
	}
	for _, payload := range cases {
		if _, err := Decode(payload); err == nil {
			t.Fatalf("expected error for payload of %d bytes", len(payload))
		}
	}
}

func TestDecodeClampsDuration(t *testing.T) {
	payload, err := Encode(sine(220, 11025, 11025), 11025)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	clip, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d := clip.Duration(); math.Abs(d-1.0) > 0.01 {
		t.Fatalf("expected ~1s duration, got %v", d)
	}
}
