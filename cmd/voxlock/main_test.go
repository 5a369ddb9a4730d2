package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"voxlock/internal/credentials"
	"voxlock/internal/services"
)

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()

	want := []string{"signup", "login", "reset", "list", "delete", "test-notify", "config"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("root command missing %q subcommand", name)
		}
	}
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	body := "[paths]\ndata_dir = \"" + filepath.Join(base, "data") + "\"\nlog_dir = \"" + filepath.Join(base, "logs") + "\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return path
}

func TestSignupRejectsMissingRecordings(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", writeTestConfig(t), "signup", "alice"})

	err := root.Execute()
	if err == nil {
		t.Fatal("expected error without sample recordings")
	}
	if !strings.Contains(err.Error(), "sample") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"config", "init", "--path", target})

	if err := root.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample config: %v", err)
	}
	if !strings.Contains(string(data), "[matching]") {
		t.Fatal("sample config missing matching section")
	}

	// A second init must refuse to clobber the file.
	root = newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"config", "init", "--path", target})
	if err := root.Execute(); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}

func TestIdentityTable(t *testing.T) {
	enrolled := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	summaries := []credentials.Summary{
		{Identity: "alice", TemplateSize: 1024, CreatedAt: enrolled, UpdatedAt: enrolled},
		{Identity: "bob", TemplateSize: 20480, CreatedAt: enrolled, UpdatedAt: enrolled.Add(48 * time.Hour)},
	}

	rendered := identityTable(summaries)
	if !strings.Contains(rendered, "alice") || !strings.Contains(rendered, "20480") {
		t.Fatalf("table missing rows:\n%s", rendered)
	}
	if !strings.Contains(rendered, "Identity") || !strings.Contains(rendered, "Template Bytes") {
		t.Fatalf("table missing header:\n%s", rendered)
	}
	if !strings.Contains(rendered, "2026-03-14 09:26") || !strings.Contains(rendered, "2026-03-16 09:26") {
		t.Fatalf("table missing timestamps:\n%s", rendered)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.Wrap(services.ErrLockout, "flow", "login", "attempts exhausted", nil), 2},
		{services.Wrap(services.ErrNotFound, "credentials", "get", "no such identity", nil), 3},
		{services.Wrap(services.ErrBusy, "flow", "signup", "another flow active", nil), 4},
		{errors.New("disk on fire"), 1},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Fatalf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
