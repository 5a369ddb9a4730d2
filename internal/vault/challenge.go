package vault

import (
	"log/slog"

	"github.com/agnivade/levenshtein"

	"voxlock/internal/logging"
)

// ChallengeResult carries the outcome of a phrase verification.
type ChallengeResult struct {
	Similarity int
	Accepted   bool
}

// Similarity computes a 0-100 fuzzy ratio between two strings based on edit
// distance. 100 means identical; minor transcription differences reduce the
// score gradually.
func Similarity(a, b string) int {
	if a == "" && b == "" {
		return 100
	}
	maxLen := len([]rune(a))
	if n := len([]rune(b)); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	score := 100 - (100*dist)/maxLen
	if score < 0 {
		score = 0
	}
	return score
}

// Checker verifies spoken transcripts against sealed phrases.
type Checker struct {
	threshold int
	logger    *slog.Logger
}

// NewChecker constructs a phrase checker. A transcript is accepted when its
// similarity to the stored phrase strictly exceeds the threshold.
func NewChecker(threshold int, logger *slog.Logger) *Checker {
	return &Checker{
		threshold: threshold,
		logger:    logging.NewComponentLogger(logger, "vault"),
	}
}

// Challenge unseals the stored phrase and compares the normalized transcript
// against it. Unseal failures fail closed as a rejection error.
func (c *Checker) Challenge(cipher *PhraseCipher, transcript string) (ChallengeResult, error) {
	stored, err := Unseal(cipher)
	if err != nil {
		return ChallengeResult{}, err
	}

	similarity := Similarity(Normalize(transcript), stored)
	result := ChallengeResult{Similarity: similarity, Accepted: similarity > c.threshold}

	c.logger.Info("phrase similarity",
		logging.Int(logging.FieldSimilarity, similarity),
		logging.Bool("accepted", result.Accepted))
	return result, nil
}
