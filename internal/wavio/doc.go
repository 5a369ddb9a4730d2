// Package wavio reads and writes the mono 16-bit PCM WAV payloads used for
// all audio staging between engine components. 22050 Hz is the canonical
// interchange rate; Decode reports the source rate so callers can resample.
package wavio
