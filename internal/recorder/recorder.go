// Package recorder abstracts the audio capture device. The engine only
// consumes WAV payloads; actual microphone access lives behind the Recorder
// interface so flows can be driven from files, tests, or a real device.
package recorder

import (
	"context"
	"errors"
	"os"

	"voxlock/internal/services"
)

// ErrNoAudio indicates the capture window elapsed without usable audio.
var ErrNoAudio = errors.New("recorder: no audio captured")

// Recorder produces one recorded utterance per call as a mono WAV payload.
// Implementations must release the capture device on every exit path.
type Recorder interface {
	Record(ctx context.Context) ([]byte, error)
}

// Source replays a scripted list of recordings in order. It backs the CLI
// (recordings supplied as files) and tests. A nil entry simulates a failed
// capture; exhausting the script also fails.
type Source struct {
	payloads [][]byte
	next     int
}

// NewSource builds a source that yields the given payloads in order.
func NewSource(payloads ...[]byte) *Source {
	return &Source{payloads: payloads}
}

// FromFiles loads each path into a scripted source.
func FromFiles(paths ...string) (*Source, error) {
	payloads := make([][]byte, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, services.Wrap(services.ErrInput, "recorder", "load", "read recording "+path, err)
		}
		payloads = append(payloads, data)
	}
	return NewSource(payloads...), nil
}

// Record returns the next scripted payload.
func (s *Source) Record(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.payloads) {
		return nil, services.Wrap(services.ErrInput, "recorder", "record", "no recording available", ErrNoAudio)
	}
	payload := s.payloads[s.next]
	s.next++
	if len(payload) == 0 {
		return nil, services.Wrap(services.ErrInput, "recorder", "record", "recorded audio is empty", ErrNoAudio)
	}
	return payload, nil
}

// Remaining reports how many scripted recordings are left.
func (s *Source) Remaining() int {
	return len(s.payloads) - s.next
}
