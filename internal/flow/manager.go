package flow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"voxlock/internal/capture"
	"voxlock/internal/config"
	"voxlock/internal/credentials"
	"voxlock/internal/logging"
	"voxlock/internal/match"
	"voxlock/internal/notifications"
	"voxlock/internal/otp"
	"voxlock/internal/recorder"
	"voxlock/internal/services"
	"voxlock/internal/template"
	"voxlock/internal/transcribe"
	"voxlock/internal/vault"
)

// EvidenceSaver persists an intruder still when a login locks out.
type EvidenceSaver interface {
	Save(ctx context.Context, identity string) (string, error)
}

// CodeService issues and verifies one-time reset codes.
type CodeService interface {
	Issue(ctx context.Context, identity string) error
	Verify(identity, code string) error
}

// Manager coordinates the authentication flows over the assembled components.
type Manager struct {
	cfg         *config.Config
	store       *credentials.Store
	builder     *template.Builder
	matcher     *match.Matcher
	checker     *vault.Checker
	mic         recorder.Recorder
	transcriber transcribe.Transcriber
	evidence    EvidenceSaver
	codes       CodeService
	notifier    notifications.Service
	observer    Observer
	logger      *slog.Logger

	mu   sync.Mutex
	busy bool
}

// Option configures optional Manager collaborators.
type Option func(*Manager)

// WithRecorder sets the audio source for all flows.
func WithRecorder(r recorder.Recorder) Option {
	return func(m *Manager) { m.mic = r }
}

// WithTranscriber sets the speech-to-text backend.
func WithTranscriber(t transcribe.Transcriber) Option {
	return func(m *Manager) { m.transcriber = t }
}

// WithEvidenceSaver sets the intruder capture sink.
func WithEvidenceSaver(s EvidenceSaver) Option {
	return func(m *Manager) { m.evidence = s }
}

// WithCodeService sets the one-time code issuer used by reset.
func WithCodeService(c CodeService) Option {
	return func(m *Manager) { m.codes = c }
}

// WithNotifier overrides the notification service.
func WithNotifier(n notifications.Service) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithObserver registers a flow event observer.
func WithObserver(o Observer) Option {
	return func(m *Manager) { m.observer = o }
}

// NewManager constructs a flow manager. Collaborators not supplied through
// options get config-derived defaults; a missing recorder or transcriber
// surfaces as an input error on first use, not at construction.
func NewManager(cfg *config.Config, store *credentials.Store, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manager{
		cfg:      cfg,
		store:    store,
		builder:  template.NewBuilder(logger),
		matcher:  match.NewMatcher(cfg.Matching.DistanceThreshold, logger),
		checker:  vault.NewChecker(cfg.Phrase.SimilarityThreshold, logger),
		notifier: notifications.NewService(cfg),
		observer: noopObserver{},
		logger:   logging.NewComponentLogger(logger, "flow"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.transcriber == nil {
		m.transcriber = transcribe.NewClient(cfg.Transcriber.URL, time.Duration(cfg.Transcriber.TimeoutSeconds)*time.Second)
	}
	if m.codes == nil {
		m.codes = otp.NewIssuer(m.notifier, time.Duration(cfg.OTP.TTLSeconds)*time.Second, logger)
	}
	if m.evidence == nil {
		m.evidence = capture.NewSaver(nil, cfg, logger)
	}
	return m
}

// acquire claims the single flow slot or fails fast.
func (m *Manager) acquire(kind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return services.Wrap(services.ErrBusy, "flow", kind, "another flow is active", nil)
	}
	m.busy = true
	return nil
}

func (m *Manager) release() {
	m.mu.Lock()
	m.busy = false
	m.mu.Unlock()
}

func (m *Manager) emit(state State, identity string, attempt int, detail string) {
	m.observer.Observe(Event{State: state, Identity: identity, Attempt: attempt, Detail: detail})
}

// record pulls one utterance from the microphone, honoring cancellation.
// The configured listen timeout bounds how long a single recording may take;
// hitting it fails only this recording, while cancellation of the parent
// context aborts the whole flow. A cancelled context discards any captured
// audio.
func (m *Manager) record(ctx context.Context) ([]byte, error) {
	if m.mic == nil {
		return nil, services.Wrap(services.ErrInput, "flow", "record", "no recorder configured", nil)
	}
	listenCtx := ctx
	if seconds := m.cfg.Login.ListenTimeoutSeconds; seconds > 0 {
		var cancel context.CancelFunc
		listenCtx, cancel = context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
		defer cancel()
	}
	payload, err := m.mic.Record(listenCtx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return payload, nil
}

// Signup enrolls an identity from two voice samples and one spoken phrase.
// Any stage failure aborts the whole flow; nothing partial is persisted.
func (m *Manager) Signup(ctx context.Context, identity string) error {
	if err := m.acquire("signup"); err != nil {
		return err
	}
	defer m.release()
	defer m.emit(StateIdle, identity, 0, "")

	ctx = services.WithFlow(services.WithIdentity(ctx, identity), "signup")
	logger := logging.WithContext(ctx, m.logger).With(logging.String("session", uuid.NewString()))

	if err := m.enroll(ctx, identity); err != nil {
		return err
	}
	logger.Info("signup completed")
	if err := m.notifier.NotifySignupCompleted(ctx, identity); err != nil {
		logger.Warn("signup notification failed", logging.Error(err))
	}
	return nil
}

// enroll records, fuses, seals, and persists the credentials for one
// identity. The caller holds the flow slot and owns the closing Idle emit.
func (m *Manager) enroll(ctx context.Context, identity string) error {
	m.emit(StateRecordingSampleOne, identity, 0, "")
	first, err := m.record(ctx)
	if err != nil {
		return services.Wrap(services.ErrInput, "flow", "enroll", "record first sample", err)
	}

	m.emit(StateRecordingSampleTwo, identity, 0, "")
	second, err := m.record(ctx)
	if err != nil {
		return services.Wrap(services.ErrInput, "flow", "enroll", "record second sample", err)
	}

	m.emit(StateBuildingTemplate, identity, 0, "")
	voiceTemplate, err := m.builder.BuildFused(first, second)
	if err != nil {
		return err
	}

	m.emit(StateRecordingPhrase, identity, 0, "")
	phraseAudio, err := m.record(ctx)
	if err != nil {
		return services.Wrap(services.ErrInput, "flow", "enroll", "record phrase", err)
	}
	phrase, err := m.transcriber.Transcribe(ctx, phraseAudio)
	if err != nil {
		return err
	}
	cipher, err := vault.Seal(phrase)
	if err != nil {
		return err
	}

	m.emit(StatePersisting, identity, 0, "")
	record := &credentials.Record{
		Identity:         identity,
		VoiceTemplate:    voiceTemplate,
		PhraseCiphertext: cipher.Ciphertext,
		PhraseKey:        cipher.Key,
	}
	if err := m.store.Upsert(ctx, record); err != nil {
		return err
	}

	m.emit(StateDone, identity, 0, "enrolled")
	return nil
}

// LoginResult is the verdict of one login flow.
type LoginResult struct {
	Accepted bool
	// Attempts is how many attempts were consumed.
	Attempts int
	Reason   string
	// EvidencePath points at the intruder still written on lockout, when
	// capture succeeded.
	EvidencePath string
}

// Login authenticates the identity with up to the configured number of
// attempts. Each attempt records voice, runs the matcher, and only on a voice
// match records and verifies the spoken phrase. Exhausting the budget locks
// the flow and captures intruder evidence once, best effort.
func (m *Manager) Login(ctx context.Context, identity string) (*LoginResult, error) {
	if err := m.acquire("login"); err != nil {
		return nil, err
	}
	defer m.release()
	defer m.emit(StateIdle, identity, 0, "")

	ctx = services.WithFlow(services.WithIdentity(ctx, identity), "login")
	logger := logging.WithContext(ctx, m.logger).With(logging.String("session", uuid.NewString()))

	record, err := m.store.Get(ctx, identity)
	if err != nil {
		return nil, err
	}

	maxAttempts := m.cfg.Login.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	result := &LoginResult{}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Attempts = attempt

		verdict, reason, err := m.loginAttempt(services.WithAttempt(ctx, attempt), logger, record, identity, attempt)
		if err != nil {
			return nil, err
		}
		if verdict {
			result.Accepted = true
			result.Reason = "voice and phrase verified"
			m.emit(StateDone, identity, attempt, result.Reason)
			logger.Info("login succeeded", logging.Int(logging.FieldAttempt, attempt))
			if err := m.notifier.NotifyLoginSucceeded(ctx, identity); err != nil {
				logger.Warn("login notification failed", logging.Error(err))
			}
			return result, nil
		}
		result.Reason = reason
		logger.Warn("login attempt failed",
			logging.Int(logging.FieldAttempt, attempt),
			logging.String("reason", reason))
	}

	// Attempts exhausted. Exactly one capture call, success or not.
	if path, err := m.evidence.Save(ctx, identity); err != nil {
		logger.Warn("intruder capture failed", logging.Error(err))
	} else {
		result.EvidencePath = path
	}
	m.emit(StateLocked, identity, result.Attempts, result.Reason)
	logger.Warn("login locked out", logging.Int(logging.FieldAttempt, result.Attempts))
	if err := m.notifier.NotifyLockout(ctx, identity, result.EvidencePath); err != nil {
		logger.Warn("lockout notification failed", logging.Error(err))
	}
	return result, services.Wrap(services.ErrLockout, "flow", "login", "attempts exhausted", nil)
}

// loginAttempt runs one voice-then-phrase attempt. Component failures inside
// the attempt consume it instead of aborting the flow; only cancellation and
// persistence problems propagate as errors.
func (m *Manager) loginAttempt(ctx context.Context, logger *slog.Logger, record *credentials.Record, identity string, attempt int) (bool, string, error) {
	m.emit(StateRecordingVoice, identity, attempt, "")
	sample, err := m.record(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, "", ctxErr
		}
		logger.Warn("voice recording failed", logging.Int(logging.FieldAttempt, attempt), logging.Error(err))
		return false, "voice recording failed", nil
	}

	m.emit(StateMatching, identity, attempt, "")
	matched, err := m.matcher.Match(record.VoiceTemplate, sample)
	if err != nil {
		logger.Warn("voice match errored", logging.Int(logging.FieldAttempt, attempt), logging.Error(err))
		return false, "voice sample unusable", nil
	}
	if !matched.Accepted {
		return false, "voice did not match", nil
	}

	m.emit(StateVerifyingPhrase, identity, attempt, "")
	phraseAudio, err := m.record(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, "", ctxErr
		}
		logger.Warn("phrase recording failed", logging.Int(logging.FieldAttempt, attempt), logging.Error(err))
		return false, "phrase recording failed", nil
	}
	transcript, err := m.transcriber.Transcribe(ctx, phraseAudio)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, "", ctxErr
		}
		logger.Warn("phrase transcription failed", logging.Int(logging.FieldAttempt, attempt), logging.Error(err))
		return false, "phrase not understood", nil
	}

	challenge, err := m.checker.Challenge(record.PhraseCipher(), transcript)
	if err != nil {
		logger.Warn("phrase challenge errored", logging.Int(logging.FieldAttempt, attempt), logging.Error(err))
		return false, "phrase verification failed", nil
	}
	if !challenge.Accepted {
		return false, "phrase did not match", nil
	}
	return true, "", nil
}

// Reset verifies a one-time code and, on success, runs a fresh enrollment
// that overwrites the identity's existing credentials. promptCode asks the
// user for the delivered code. The flow slot stays held from code issue
// through re-enrollment, so no other flow can burn the consumed code's
// window.
func (m *Manager) Reset(ctx context.Context, identity string, promptCode func(context.Context) (string, error)) error {
	if err := m.acquire("reset"); err != nil {
		return err
	}
	defer m.release()
	defer m.emit(StateIdle, identity, 0, "")

	ctx = services.WithFlow(services.WithIdentity(ctx, identity), "reset")
	logger := logging.WithContext(ctx, m.logger).With(logging.String("session", uuid.NewString()))

	if err := m.verifyResetCode(ctx, logger, identity, promptCode); err != nil {
		return err
	}

	// The upsert inside enroll replaces the old record only if every stage
	// succeeds.
	if err := m.enroll(ctx, identity); err != nil {
		return err
	}
	logger.Info("reset completed")
	if err := m.notifier.NotifyResetCompleted(ctx, identity); err != nil {
		logger.Warn("reset notification failed", logging.Error(err))
	}
	return nil
}

func (m *Manager) verifyResetCode(ctx context.Context, logger *slog.Logger, identity string, promptCode func(context.Context) (string, error)) error {
	if _, err := m.store.Get(ctx, identity); err != nil {
		return err
	}

	m.emit(StateSendingCode, identity, 0, "")
	if err := m.codes.Issue(ctx, identity); err != nil {
		return err
	}

	m.emit(StateAwaitingCode, identity, 0, "")
	code, err := promptCode(ctx)
	if err != nil {
		return services.Wrap(services.ErrInput, "flow", "reset", "read code", err)
	}
	if err := m.codes.Verify(identity, code); err != nil {
		logger.Warn("reset code rejected", logging.Error(err))
		return services.Wrap(services.ErrInput, "flow", "reset", "code verification failed", err)
	}
	return nil
}

// Outcome pairs a login verdict with its error for asynchronous callers.
type Outcome struct {
	Result *LoginResult
	Err    error
}

// LoginAsync runs Login on its own goroutine so an interactive surface can
// observe progress while staying responsive. The channel receives exactly one
// outcome.
func (m *Manager) LoginAsync(ctx context.Context, identity string) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		result, err := m.Login(ctx, identity)
		out <- Outcome{Result: result, Err: err}
		close(out)
	}()
	return out
}
