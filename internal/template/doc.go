// Package template builds enrollment voice templates from one or two
// recorded samples by fusing their feature sequences and rendering the
// result back into a storable waveform.
package template
