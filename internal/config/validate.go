package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks configuration invariants after normalization.
func (c *Config) Validate() error {
	var problems []string

	if c.Paths.DataDir == "" {
		problems = append(problems, "paths.data_dir must be set")
	}
	if c.Matching.DistanceThreshold <= 0 {
		problems = append(problems, "matching.distance_threshold must be positive")
	}
	if c.Phrase.SimilarityThreshold < 0 || c.Phrase.SimilarityThreshold > 100 {
		problems = append(problems, "phrase.similarity_threshold must be within 0..100")
	}
	if c.Login.MaxAttempts < 1 {
		problems = append(problems, "login.max_attempts must be at least 1")
	}
	if c.Login.ListenTimeoutSeconds < 1 {
		problems = append(problems, "login.listen_timeout_seconds must be at least 1")
	}
	if c.Transcriber.TimeoutSeconds < 1 {
		problems = append(problems, "transcriber.timeout_seconds must be at least 1")
	}
	if c.OTP.TTLSeconds < 1 {
		problems = append(problems, "otp.ttl_seconds must be at least 1")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not supported", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
