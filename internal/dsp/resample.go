package dsp

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts samples from one rate to another using a high-quality
// polyphase resampler. Returns the input unchanged when the rates match.
func Resample(samples []float64, from, to int) ([]float64, error) {
	if from == to {
		return samples, nil
	}
	if from <= 0 || to <= 0 {
		return nil, fmt.Errorf("dsp: invalid resample rates %d -> %d", from, to)
	}

	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(from),
		OutputRate: float64(to),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("dsp: create resampler: %w", err)
	}

	out, err := rs.Process(samples)
	if err != nil {
		return nil, fmt.Errorf("dsp: resample: %w", err)
	}

	// Push silence through until the filter tail drains.
	want := int(math.Round(float64(len(samples)) * float64(to) / float64(from)))
	silence := make([]float64, 256)
	for len(out) < want {
		tail, err := rs.Process(silence)
		if err != nil {
			return nil, fmt.Errorf("dsp: drain resampler: %w", err)
		}
		if len(tail) == 0 {
			break
		}
		out = append(out, tail...)
	}
	if len(out) > want {
		out = out[:want]
	}
	return out, nil
}
