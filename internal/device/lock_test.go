package device

import (
	"errors"
	"os"
	"testing"

	"voxlock/internal/services"
	"voxlock/internal/testsupport"
)

func TestAcquireAndRelease(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	lock := NewLock(cfg)

	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if _, err := os.Stat(lock.Path()); err != nil {
		t.Fatalf("lock file missing: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
}

func TestSecondHolderIsBusy(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := NewLock(cfg)
	second := NewLock(cfg)

	if err := first.Acquire(); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	defer first.Release()

	if err := second.Acquire(); !errors.Is(err, services.ErrBusy) {
		t.Fatalf("expected ErrBusy for second holder, got %v", err)
	}
}

func TestReleaseWithoutAcquire(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	lock := NewLock(cfg)
	if err := lock.Release(); err != nil {
		t.Fatalf("Release of unheld lock returned error: %v", err)
	}
}
