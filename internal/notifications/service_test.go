package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"voxlock/internal/config"
	"voxlock/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyLoginSucceeded(context.Background(), "alice"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	type capture struct {
		title    string
		message  string
		tags     string
		priority string
	}

	var got capture
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = capture{
			title:    r.Header.Get("Title"),
			message:  string(body),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)
	ctx := context.Background()

	if err := svc.NotifyLockout(ctx, "mallory", "/data/intruders/m.jpg"); err != nil {
		t.Fatalf("NotifyLockout returned error: %v", err)
	}
	if got.title != "Voxlock - Lockout" {
		t.Fatalf("unexpected title %q", got.title)
	}
	if !strings.Contains(got.message, "mallory") || !strings.Contains(got.message, "/data/intruders/m.jpg") {
		t.Fatalf("lockout message missing detail: %q", got.message)
	}
	if got.priority != "high" {
		t.Fatalf("expected high priority lockout, got %q", got.priority)
	}
	if got.tags != "voxlock,lockout,alert" {
		t.Fatalf("unexpected tags %q", got.tags)
	}

	if err := svc.NotifyLoginSucceeded(ctx, "alice"); err != nil {
		t.Fatalf("NotifyLoginSucceeded returned error: %v", err)
	}
	if got.message != "Login succeeded for alice" {
		t.Fatalf("unexpected login message %q", got.message)
	}
	if got.priority != "" {
		t.Fatalf("login should use default priority, got %q", got.priority)
	}

	if err := svc.SendCode(ctx, "alice", "123456"); err != nil {
		t.Fatalf("SendCode returned error: %v", err)
	}
	if !strings.Contains(got.message, "123456") {
		t.Fatalf("reset code missing from message %q", got.message)
	}

	if err := svc.NotifyError(ctx, errors.New("disk full"), "persisting credentials"); err != nil {
		t.Fatalf("NotifyError returned error: %v", err)
	}
	if !strings.Contains(got.message, "persisting credentials") || !strings.Contains(got.message, "disk full") {
		t.Fatalf("error message missing detail: %q", got.message)
	}
}

func TestNtfyServiceSurfacesHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error from non-2xx ntfy response")
	}
}
