// Package transcribe abstracts the external speech-to-text capability.
//
// The engine never interprets audio as language itself; it hands WAV payloads
// to a Transcriber and consumes plain text. Failures split into
// ErrUnintelligible (the speech carried no recognizable words) and ErrService
// (the backend is unreachable or misbehaving); both read as a rejection at
// the flow level, never a crash.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voxlock/internal/services"
)

var (
	// ErrUnintelligible indicates speech that could not be recognized.
	ErrUnintelligible = errors.New("transcribe: unintelligible speech")
	// ErrService indicates the transcription backend failed or timed out.
	ErrService = errors.New("transcribe: service error")
)

// Transcriber converts one spoken utterance into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}

// Client talks to an HTTP transcription service: POST the WAV body, receive
// {"text": "..."} back. An empty transcript reads as unintelligible.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient builds an HTTP transcriber.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type transcriptResponse struct {
	Text string `json:"text"`
}

// Transcribe posts the utterance and returns its transcript.
func (c *Client) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if c.endpoint == "" {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "request", "no transcriber endpoint configured", ErrService)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(wav))
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "request", "build request", err)
	}
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "request", "service unreachable", errors.Join(ErrService, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", services.Wrap(services.ErrTranscription, "transcribe", "request",
			fmt.Sprintf("service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), ErrService)
	}

	var parsed transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "decode", "malformed transcript payload", errors.Join(ErrService, err))
	}

	text := strings.TrimSpace(parsed.Text)
	if text == "" {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "decode", "no recognizable speech", ErrUnintelligible)
	}
	return text, nil
}

// Static returns a fixed transcript for every utterance; useful for tests
// and scripted flows.
type Static struct {
	Transcripts []string
	Err         error

	next int
}

// Transcribe returns the next scripted transcript or the configured error.
func (s *Static) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Err != nil {
		return "", s.Err
	}
	if len(s.Transcripts) == 0 {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "static", "no transcript scripted", ErrUnintelligible)
	}
	idx := s.next
	if idx >= len(s.Transcripts) {
		idx = len(s.Transcripts) - 1
	}
	s.next++
	return s.Transcripts[idx], nil
}
