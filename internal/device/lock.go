// Package device enforces exclusive capture-device access across processes.
//
// The microphone and camera cannot be shared between concurrent flows, so
// every flow-running process takes a file lock before touching either. A
// second process fails fast with a busy error instead of contending for the
// hardware.
package device

import (
	"path/filepath"

	"github.com/gofrs/flock"

	"voxlock/internal/config"
	"voxlock/internal/services"
)

// Lock is a cross-process guard over the capture devices.
type Lock struct {
	path string
	lock *flock.Flock
}

// NewLock builds the guard under the configured data directory.
func NewLock(cfg *config.Config) *Lock {
	path := filepath.Join(cfg.Paths.DataDir, "voxlock.lock")
	return &Lock{path: path, lock: flock.New(path)}
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Acquire claims the devices or fails fast when another process holds them.
func (l *Lock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrBusy, "device", "lock", "acquire device lock", err)
	}
	if !ok {
		return services.Wrap(services.ErrBusy, "device", "lock", "capture devices held by another process", nil)
	}
	return nil
}

// Release gives the devices back. Safe to call when not held.
func (l *Lock) Release() error {
	return l.lock.Unlock()
}
