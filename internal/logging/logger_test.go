package logging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voxlock/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voxlock.log")
	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("login verdict", String(FieldIdentity, "alice@example.com"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "alice@example.com") {
		t.Fatalf("expected identity in log output, got %q", string(data))
	}
}

func TestWithContextCarriesFields(t *testing.T) {
	ctx := services.WithIdentity(context.Background(), "bob@example.com")
	ctx = services.WithFlow(ctx, "login")
	ctx = services.WithAttempt(ctx, 2)

	fields := ContextFields(ctx)
	if len(fields) != 3 {
		t.Fatalf("expected 3 context fields, got %d", len(fields))
	}

	keys := map[string]bool{}
	for _, f := range fields {
		keys[f.Key] = true
	}
	for _, want := range []string{FieldIdentity, FieldFlow, FieldAttempt} {
		if !keys[want] {
			t.Fatalf("missing context field %s", want)
		}
	}
}

func TestNewComponentLoggerNilBase(t *testing.T) {
	logger := NewComponentLogger(nil, "vault")
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	// Must not panic when logging through the no-op base.
	logger.Info("sealed phrase")
}
