package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voxlock/internal/config"
)

const userAgent = "Voxlock/0.1.0"

// Service defines the notification surface exposed to flow components.
type Service interface {
	NotifySignupCompleted(ctx context.Context, identity string) error
	NotifyLoginSucceeded(ctx context.Context, identity string) error
	NotifyLockout(ctx context.Context, identity, evidencePath string) error
	NotifyResetCompleted(ctx context.Context, identity string) error
	NotifyError(ctx context.Context, err error, context string) error
	SendCode(ctx context.Context, identity, code string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifySignupCompleted(ctx context.Context, identity string) error {
	identity = strings.TrimSpace(identity)
	data := payload{
		title:   "Voxlock - Enrolled",
		message: fmt.Sprintf("Voice credentials enrolled for %s", identity),
		tags:    []string{"voxlock", "signup", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyLoginSucceeded(ctx context.Context, identity string) error {
	identity = strings.TrimSpace(identity)
	data := payload{
		title:   "Voxlock - Login",
		message: fmt.Sprintf("Login succeeded for %s", identity),
		tags:    []string{"voxlock", "login", "succeeded"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyLockout(ctx context.Context, identity, evidencePath string) error {
	identity = strings.TrimSpace(identity)
	message := fmt.Sprintf("Account locked after repeated failures: %s", identity)
	if evidencePath = strings.TrimSpace(evidencePath); evidencePath != "" {
		message = fmt.Sprintf("%s\nIntruder still: %s", message, evidencePath)
	}
	data := payload{
		title:    "Voxlock - Lockout",
		message:  message,
		tags:     []string{"voxlock", "lockout", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyResetCompleted(ctx context.Context, identity string) error {
	identity = strings.TrimSpace(identity)
	data := payload{
		title:   "Voxlock - Credentials Reset",
		message: fmt.Sprintf("Voice credentials replaced for %s", identity),
		tags:    []string{"voxlock", "reset", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Voxlock - Error",
		message:  builder.String(),
		tags:     []string{"voxlock", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) SendCode(ctx context.Context, identity, code string) error {
	identity = strings.TrimSpace(identity)
	data := payload{
		title:    "Voxlock - Reset Code",
		message:  fmt.Sprintf("Reset code for %s: %s", identity, code),
		tags:     []string{"voxlock", "reset", "code"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Voxlock - Test",
		message:  "Notification system test",
		tags:     []string{"voxlock", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifySignupCompleted(context.Context, string) error { return nil }
func (noopService) NotifyLoginSucceeded(context.Context, string) error  { return nil }
func (noopService) NotifyLockout(context.Context, string, string) error { return nil }
func (noopService) NotifyResetCompleted(context.Context, string) error  { return nil }
func (noopService) NotifyError(context.Context, error, string) error    { return nil }
func (noopService) SendCode(context.Context, string, string) error      { return nil }
func (noopService) TestNotification(context.Context) error              { return nil }
