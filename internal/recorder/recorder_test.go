package recorder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"voxlock/internal/services"
)

func TestSourceReplaysInOrder(t *testing.T) {
	src := NewSource([]byte("one"), []byte("two"))
	ctx := context.Background()

	first, err := src.Record(ctx)
	if err != nil {
		t.Fatalf("first Record: %v", err)
	}
	if string(first) != "one" {
		t.Fatalf("expected first payload, got %q", first)
	}
	second, err := src.Record(ctx)
	if err != nil {
		t.Fatalf("second Record: %v", err)
	}
	if string(second) != "two" {
		t.Fatalf("expected second payload, got %q", second)
	}
	if src.Remaining() != 0 {
		t.Fatalf("expected empty script, %d left", src.Remaining())
	}
}

func TestSourceExhaustionFails(t *testing.T) {
	src := NewSource()
	if _, err := src.Record(context.Background()); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected input error on exhaustion, got %v", err)
	}
}

func TestSourceEmptyPayloadFails(t *testing.T) {
	src := NewSource(nil)
	if _, err := src.Record(context.Background()); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio, got %v", err)
	}
}

func TestSourceHonorsCancellation(t *testing.T) {
	src := NewSource([]byte("payload"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Record(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestFromFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.wav")
	if err := os.WriteFile(path, []byte("wav-bytes"), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	src, err := FromFiles(path)
	if err != nil {
		t.Fatalf("FromFiles: %v", err)
	}
	payload, err := src.Record(context.Background())
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if string(payload) != "wav-bytes" {
		t.Fatalf("unexpected payload %q", payload)
	}

	if _, err := FromFiles(filepath.Join(dir, "absent.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
