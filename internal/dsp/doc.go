// Package dsp converts raw audio into normalized cepstral feature sequences
// and back.
//
// Extract is the front end every other audio component builds on: resample to
// the canonical rate, frame, window, FFT, mel filterbank, log, DCT, then
// min-max normalize each coefficient column to [0,1]. Synthesize inverts a
// feature sequence into an audible approximation so enrollment templates can
// be stored as plain waveforms and re-extracted at verification time.
package dsp
