package dsp

import (
	"errors"
	"math"

	"voxlock/internal/wavio"
)

// griffinLimIterations balances reconstruction quality against synthesis
// cost. The template only needs to survive a round trip through Extract,
// not sound natural.
const griffinLimIterations = 8

// Synthesize inverts a feature sequence into an audible waveform at the
// canonical rate. The inversion expands cepstra back to a mel spectrum, maps
// mel energies onto linear FFT bins, and recovers phase with Griffin-Lim.
func Synthesize(seq Sequence) ([]float64, error) {
	if len(seq) == 0 {
		return nil, ErrNoFrames
	}

	bank := melFilterBank(numMels, fftSize, wavio.CanonicalRate, lowFreq, float64(wavio.CanonicalRate)/2)
	halfFFT := fftSize/2 + 1

	// Per-bin filterbank weight totals, for distributing mel energy back
	// onto linear bins.
	binWeight := make([]float64, halfFFT)
	for _, filter := range bank {
		for k, w := range filter {
			binWeight[k] += w
		}
	}

	magnitude := make([][]float64, len(seq))
	for t, frame := range seq {
		logMel := dctIII(frame, numMels)
		mel := make([]float64, numMels)
		for m, v := range logMel {
			mel[m] = math.Exp(v)
		}

		mag := make([]float64, halfFFT)
		for m, filter := range bank {
			for k, w := range filter {
				mag[k] += w * mel[m]
			}
		}
		for k := range mag {
			if binWeight[k] > 0 {
				mag[k] /= binWeight[k]
			}
			mag[k] = math.Sqrt(mag[k])
		}
		magnitude[t] = mag
	}

	samples := griffinLim(magnitude)
	if len(samples) == 0 {
		return nil, errors.New("dsp: synthesis produced no samples")
	}
	return samples, nil
}

// griffinLim recovers a waveform from a magnitude spectrogram by alternating
// between the time and frequency domains, keeping the target magnitudes and
// the estimated phases at each step.
func griffinLim(magnitude [][]float64) []float64 {
	numFrames := len(magnitude)
	length := (numFrames-1)*hopSize + windowSize

	samples := make([]float64, length)
	// Deterministic non-zero initialization; an all-zero start never leaves
	// zero under magnitude replacement.
	for i := range samples {
		samples[i] = math.Sin(0.37 * float64(i))
	}

	window := hammingWindow(windowSize)
	for iter := 0; iter < griffinLimIterations; iter++ {
		samples = istft(replaceMagnitude(stft(samples, window), magnitude), window, length)
	}
	return samples
}

type spectrum struct {
	re, im [][]float64
}

func stft(samples []float64, window []float64) spectrum {
	numFrames := (len(samples)-windowSize)/hopSize + 1
	sp := spectrum{
		re: make([][]float64, numFrames),
		im: make([][]float64, numFrames),
	}
	for t := 0; t < numFrames; t++ {
		re := make([]float64, fftSize)
		im := make([]float64, fftSize)
		start := t * hopSize
		for i := 0; i < windowSize; i++ {
			re[i] = samples[start+i] * window[i]
		}
		fft(re, im)
		sp.re[t] = re
		sp.im[t] = im
	}
	return sp
}

func replaceMagnitude(sp spectrum, magnitude [][]float64) spectrum {
	halfFFT := fftSize/2 + 1
	for t := range sp.re {
		if t >= len(magnitude) {
			break
		}
		re, im := sp.re[t], sp.im[t]
		for k := 0; k < halfFFT; k++ {
			cur := math.Hypot(re[k], im[k])
			var scale float64
			if cur > 1e-12 {
				scale = magnitude[t][k] / cur
			} else {
				scale = 0
			}
			re[k] *= scale
			im[k] *= scale
			// Mirror the conjugate half so the inverse stays real.
			if k > 0 && k < fftSize-k {
				re[fftSize-k] = re[k]
				im[fftSize-k] = -im[k]
			}
		}
	}
	return sp
}

func istft(sp spectrum, window []float64, length int) []float64 {
	out := make([]float64, length)
	norm := make([]float64, length)

	for t := range sp.re {
		re := make([]float64, fftSize)
		im := make([]float64, fftSize)
		copy(re, sp.re[t])
		copy(im, sp.im[t])
		ifft(re, im)

		start := t * hopSize
		for i := 0; i < windowSize && start+i < length; i++ {
			out[start+i] += re[i] * window[i]
			norm[start+i] += window[i] * window[i]
		}
	}

	for i := range out {
		if norm[i] > 1e-9 {
			out[i] /= norm[i]
		}
	}
	return out
}
