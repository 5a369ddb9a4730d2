package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInput         = errors.New("input error")
	ErrExtraction    = errors.New("extraction error")
	ErrCrypto        = errors.New("crypto error")
	ErrTranscription = errors.New("transcription error")
	ErrNotFound      = errors.New("not found")
	ErrLockout       = errors.New("lockout")
	ErrBusy          = errors.New("busy")
	ErrPersistence   = errors.New("persistence error")
	ErrCapture       = errors.New("capture error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later outcome classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrInput
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Recoverable reports whether the user should be invited to try again.
// Lockout, persistence failures, and concurrent-flow conflicts are terminal;
// everything else (bad audio, failed extraction, unintelligible speech) can
// be retried by the caller.
func Recoverable(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrLockout), errors.Is(err, ErrPersistence), errors.Is(err, ErrBusy):
		return false
	default:
		return true
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
