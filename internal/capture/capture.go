// Package capture persists intruder evidence when login attempts run out.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"voxlock/internal/config"
	"voxlock/internal/logging"
	"voxlock/internal/services"
)

// ErrDeviceUnavailable indicates no camera could produce a still.
var ErrDeviceUnavailable = errors.New("capture: camera unavailable")

// Camera produces a single still image.
type Camera interface {
	CaptureStill(ctx context.Context) ([]byte, error)
}

// Saver captures one still and writes it under the configured intruder
// directory. Filenames carry the identity, a timestamp, and a UUID so
// repeated lockouts never clobber earlier evidence.
type Saver struct {
	camera Camera
	dir    string
	logger *slog.Logger
}

// NewSaver builds a Saver for the configured intruder directory.
func NewSaver(camera Camera, cfg *config.Config, logger *slog.Logger) *Saver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Saver{
		camera: camera,
		dir:    cfg.Paths.IntruderDir,
		logger: logging.NewComponentLogger(logger, "capture"),
	}
}

// Save captures a still and persists it, returning the written path.
func (s *Saver) Save(ctx context.Context, identity string) (string, error) {
	if s.camera == nil {
		return "", services.Wrap(services.ErrCapture, "capture", "still", "no camera configured", ErrDeviceUnavailable)
	}

	frame, err := s.camera.CaptureStill(ctx)
	if err != nil {
		return "", services.Wrap(services.ErrCapture, "capture", "still", "capture still", err)
	}
	if len(frame) == 0 {
		return "", services.Wrap(services.ErrCapture, "capture", "still", "camera produced empty frame", ErrDeviceUnavailable)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrCapture, "capture", "save", "create intruder directory", err)
	}

	name := fmt.Sprintf("%s-%s-%s.jpg",
		sanitizeIdentity(identity),
		time.Now().UTC().Format("20060102T150405Z"),
		uuid.NewString())
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, frame, 0o600); err != nil {
		return "", services.Wrap(services.ErrCapture, "capture", "save", "write still", err)
	}

	s.logger.Warn("intruder still saved",
		logging.String(logging.FieldIdentity, identity),
		logging.String("path", path))
	return path, nil
}

// sanitizeIdentity keeps filenames portable without changing which identity
// the evidence belongs to.
func sanitizeIdentity(identity string) string {
	if identity == "" {
		return "unknown"
	}
	out := make([]rune, 0, len(identity))
	for _, r := range identity {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

// StaticCamera returns a fixed frame, or fails when Frame is empty.
type StaticCamera struct {
	Frame []byte
	Err   error

	Calls int
}

// CaptureStill returns the scripted frame.
func (c *StaticCamera) CaptureStill(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.Calls++
	if c.Err != nil {
		return nil, c.Err
	}
	if len(c.Frame) == 0 {
		return nil, ErrDeviceUnavailable
	}
	return c.Frame, nil
}
