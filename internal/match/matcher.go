package match

import (
	"log/slog"

	"voxlock/internal/dsp"
	"voxlock/internal/logging"
	"voxlock/internal/services"
)

// Result carries the outcome of a voice comparison.
type Result struct {
	Distance float64
	Accepted bool
}

// Matcher scores a live voice sample against a stored template.
type Matcher struct {
	threshold float64
	logger    *slog.Logger
}

// NewMatcher constructs a matcher with the given acceptance threshold.
// A sample is accepted when its DTW distance falls strictly below the
// threshold: lower distance means more similar.
func NewMatcher(threshold float64, logger *slog.Logger) *Matcher {
	return &Matcher{
		threshold: threshold,
		logger:    logging.NewComponentLogger(logger, "match"),
	}
}

// Match extracts features from the stored template and the live sample and
// compares them. An absent template rejects immediately without touching the
// live audio; either extraction failing rejects with an extraction error.
func (m *Matcher) Match(storedTemplate, liveSample []byte) (Result, error) {
	if len(storedTemplate) == 0 {
		return Result{}, services.Wrap(services.ErrNotFound, "match", "match", "no enrolled voice sample", nil)
	}

	storedSeq, err := dsp.ExtractWAV(storedTemplate)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExtraction, "match", "match", "stored template extraction failed", err)
	}
	liveSeq, err := dsp.ExtractWAV(liveSample)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExtraction, "match", "match", "live sample extraction failed", err)
	}

	distance := DTW(storedSeq, liveSeq)
	result := Result{Distance: distance, Accepted: distance < m.threshold}

	m.logger.Info("voice match score",
		logging.Float64(logging.FieldDistance, distance),
		logging.Bool("accepted", result.Accepted))
	return result, nil
}
