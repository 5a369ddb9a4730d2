// Package match scores live voice samples against enrolled templates using
// dynamic time warping over cepstral feature sequences.
package match
