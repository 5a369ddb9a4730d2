package template

import (
	"log/slog"

	"voxlock/internal/dsp"
	"voxlock/internal/logging"
	"voxlock/internal/services"
	"voxlock/internal/wavio"
)

// Builder fuses enrollment voice samples into a stored template. The template
// is serialized as reconstructed audio rather than raw coefficients, so
// verification always re-extracts features through the same front end.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder constructs a template builder.
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{logger: logging.NewComponentLogger(logger, "template")}
}

// BuildSingle derives a template from one voice sample.
func (b *Builder) BuildSingle(sample []byte) ([]byte, error) {
	seq, err := dsp.ExtractWAV(sample)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, "template", "build", "feature extraction failed", err)
	}
	return b.render(seq)
}

// BuildFused derives a template from two independently recorded samples.
// Either extraction failing aborts the whole operation; no partial template
// is ever produced.
func (b *Builder) BuildFused(first, second []byte) ([]byte, error) {
	seqA, err := dsp.ExtractWAV(first)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, "template", "fuse", "first sample extraction failed", err)
	}
	seqB, err := dsp.ExtractWAV(second)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, "template", "fuse", "second sample extraction failed", err)
	}

	fused := fuse(seqA, seqB)
	return b.render(fused)
}

func (b *Builder) render(seq dsp.Sequence) ([]byte, error) {
	samples, err := dsp.Synthesize(seq)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, "template", "render", "waveform synthesis failed", err)
	}
	payload, err := wavio.Encode(samples, wavio.CanonicalRate)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, "template", "render", "template serialization failed", err)
	}
	b.logger.Debug("template rendered",
		logging.Int("frames", seq.Len()),
		logging.Int("bytes", len(payload)))
	return payload, nil
}

// fuse length-aligns two sequences and averages them elementwise. The shorter
// sequence is padded with its own column means, preserving its statistical
// profile instead of dragging the average toward zero.
func fuse(a, b dsp.Sequence) dsp.Sequence {
	maxLen := a.Len()
	if b.Len() > maxLen {
		maxLen = b.Len()
	}
	a = padWithMeans(a, maxLen)
	b = padWithMeans(b, maxLen)

	out := make(dsp.Sequence, maxLen)
	for t := 0; t < maxLen; t++ {
		frame := make([]float64, a.Dim())
		for c := range frame {
			frame[c] = (a[t][c] + b[t][c]) / 2
		}
		out[t] = frame
	}
	return out
}

func padWithMeans(seq dsp.Sequence, length int) dsp.Sequence {
	if seq.Len() >= length {
		return seq
	}
	means := seq.ColumnMeans()
	out := make(dsp.Sequence, 0, length)
	out = append(out, seq...)
	for out.Len() < length {
		frame := make([]float64, len(means))
		copy(frame, means)
		out = append(out, frame)
	}
	return out
}
