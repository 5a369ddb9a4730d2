// Package otp issues short-lived one-time passcodes for credential resets.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"voxlock/internal/logging"
	"voxlock/internal/services"
)

var (
	// ErrExpired indicates the code's validity window has passed.
	ErrExpired = errors.New("otp: code expired")
	// ErrMismatch indicates the supplied code does not match.
	ErrMismatch = errors.New("otp: code mismatch")
	// ErrNoCode indicates no code is outstanding for the identity.
	ErrNoCode = errors.New("otp: no code issued")
)

const codeDigits = 6

// Sender delivers a freshly issued code to the user out of band.
type Sender interface {
	SendCode(ctx context.Context, identity, code string) error
}

type issued struct {
	code    string
	expires time.Time
}

// Issuer mints and verifies six-digit codes. Every code is single use:
// verification consumes it whether it matched or not, so a guessed retry
// always needs a fresh issue.
type Issuer struct {
	mu     sync.Mutex
	codes  map[string]issued
	ttl    time.Duration
	sender Sender
	logger *slog.Logger

	// now is swappable for expiry tests.
	now func() time.Time
}

// NewIssuer builds an Issuer with the given validity window.
func NewIssuer(sender Sender, ttl time.Duration, logger *slog.Logger) *Issuer {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Issuer{
		codes:  make(map[string]issued),
		ttl:    ttl,
		sender: sender,
		logger: logging.NewComponentLogger(logger, "otp"),
		now:    time.Now,
	}
}

// Issue mints a new code for the identity, replacing any outstanding one,
// and delivers it through the sender.
func (i *Issuer) Issue(ctx context.Context, identity string) error {
	code, err := generateCode()
	if err != nil {
		return services.Wrap(services.ErrCrypto, "otp", "issue", "generate code", err)
	}

	i.mu.Lock()
	i.codes[identity] = issued{code: code, expires: i.now().Add(i.ttl)}
	i.mu.Unlock()

	if i.sender != nil {
		if err := i.sender.SendCode(ctx, identity, code); err != nil {
			i.mu.Lock()
			delete(i.codes, identity)
			i.mu.Unlock()
			return services.Wrap(services.ErrInput, "otp", "issue", "deliver code", err)
		}
	}

	i.logger.Info("one-time code issued", logging.String(logging.FieldIdentity, identity))
	return nil
}

// Verify consumes the outstanding code for the identity. A match within the
// validity window returns nil; everything else returns an error and the code
// is gone either way.
func (i *Issuer) Verify(identity, code string) error {
	i.mu.Lock()
	pending, ok := i.codes[identity]
	delete(i.codes, identity)
	i.mu.Unlock()

	if !ok {
		return ErrNoCode
	}
	if i.now().After(pending.expires) {
		return ErrExpired
	}
	if pending.code != code {
		return ErrMismatch
	}
	return nil
}

func generateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

// StaticSender records delivered codes for tests.
type StaticSender struct {
	mu    sync.Mutex
	Err   error
	codes map[string]string
}

// SendCode records the code or returns the scripted error.
func (s *StaticSender) SendCode(ctx context.Context, identity, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codes == nil {
		s.codes = make(map[string]string)
	}
	s.codes[identity] = code
	return nil
}

// LastCode returns the most recent code delivered for the identity.
func (s *StaticSender) LastCode(identity string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.codes[identity]
	return code, ok
}
