package dsp

import (
	"errors"
	"math"

	"voxlock/internal/wavio"
)

const (
	// NumCoefficients is the fixed cepstral dimension of every feature frame.
	NumCoefficients = 13

	windowSize  = 1024
	hopSize     = 512
	fftSize     = 1024
	numMels     = 40
	preEmphasis = 0.97
	lowFreq     = 0.0

	// normEpsilon keeps min-max normalization away from a zero denominator
	// when a coefficient column is constant.
	normEpsilon = 1e-8
)

var (
	// ErrEmptyAudio indicates a waveform with no samples.
	ErrEmptyAudio = errors.New("dsp: empty audio")
	// ErrNoFrames indicates audio too short to yield a single feature frame.
	ErrNoFrames = errors.New("dsp: extraction produced no frames")
)

// Sequence is a time-ordered list of fixed-dimension feature vectors. Each
// coordinate is independently min-max normalized to [0,1] over the sequence.
type Sequence [][]float64

// Len returns the number of frames.
func (s Sequence) Len() int { return len(s) }

// Dim returns the per-frame coefficient count, or 0 for an empty sequence.
func (s Sequence) Dim() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// ColumnMeans returns the per-coefficient mean across all frames.
func (s Sequence) ColumnMeans() []float64 {
	if len(s) == 0 {
		return nil
	}
	means := make([]float64, s.Dim())
	for _, frame := range s {
		for i, v := range frame {
			means[i] += v
		}
	}
	n := float64(len(s))
	for i := range means {
		means[i] /= n
	}
	return means
}

// Extract converts a waveform into a normalized cepstral feature sequence.
// Audio at a non-canonical rate is resampled to 22050 Hz first.
func Extract(samples []float64, rate int) (Sequence, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyAudio
	}

	if rate != wavio.CanonicalRate {
		resampled, err := Resample(samples, rate, wavio.CanonicalRate)
		if err != nil {
			return nil, err
		}
		samples = resampled
		rate = wavio.CanonicalRate
	}

	if len(samples) < windowSize {
		return nil, ErrNoFrames
	}

	window := hammingWindow(windowSize)
	bank := melFilterBank(numMels, fftSize, rate, lowFreq, float64(rate)/2)
	numFrames := (len(samples)-windowSize)/hopSize + 1
	halfFFT := fftSize/2 + 1

	seq := make(Sequence, numFrames)
	re := make([]float64, fftSize)
	im := make([]float64, fftSize)

	for t := 0; t < numFrames; t++ {
		start := t * hopSize

		for i := 0; i < windowSize; i++ {
			s := samples[start+i]
			if i > 0 {
				s -= preEmphasis * samples[start+i-1]
			}
			re[i] = s * window[i]
		}
		for i := windowSize; i < fftSize; i++ {
			re[i] = 0
		}
		for i := range im {
			im[i] = 0
		}
		fft(re, im)

		power := make([]float64, halfFFT)
		for i := 0; i < halfFFT; i++ {
			power[i] = re[i]*re[i] + im[i]*im[i]
		}

		logMel := make([]float64, numMels)
		for m := 0; m < numMels; m++ {
			sum := 0.0
			for k, w := range bank[m] {
				sum += w * power[k]
			}
			if sum < 1e-10 {
				sum = 1e-10
			}
			logMel[m] = math.Log(sum)
		}

		seq[t] = dctII(logMel, NumCoefficients)
	}

	if len(seq) == 0 {
		return nil, ErrNoFrames
	}
	normalize(seq)
	return seq, nil
}

// ExtractWAV decodes a WAV payload and extracts its feature sequence.
func ExtractWAV(payload []byte) (Sequence, error) {
	clip, err := wavio.Decode(payload)
	if err != nil {
		if errors.Is(err, wavio.ErrEmpty) {
			return nil, ErrEmptyAudio
		}
		return nil, err
	}
	return Extract(clip.Samples, clip.Rate)
}

// normalize applies column-wise min-max scaling to [0,1] in place.
func normalize(seq Sequence) {
	if len(seq) == 0 {
		return
	}
	dim := len(seq[0])
	for c := 0; c < dim; c++ {
		lo, hi := seq[0][c], seq[0][c]
		for _, frame := range seq {
			if frame[c] < lo {
				lo = frame[c]
			}
			if frame[c] > hi {
				hi = frame[c]
			}
		}
		span := hi - lo + normEpsilon
		for _, frame := range seq {
			frame[c] = (frame[c] - lo) / span
		}
	}
}
