package flow

// State identifies where an active flow currently is. Observers receive every
// transition in order; the terminal states are StateDone and StateLocked.
type State int

const (
	StateIdle State = iota
	StateRecordingSampleOne
	StateRecordingSampleTwo
	StateBuildingTemplate
	StateRecordingPhrase
	StatePersisting
	StateRecordingVoice
	StateMatching
	StateVerifyingPhrase
	StateSendingCode
	StateAwaitingCode
	StateDone
	StateLocked
)

// String returns a stable lowercase name for logs and observers.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecordingSampleOne:
		return "recording-sample-1"
	case StateRecordingSampleTwo:
		return "recording-sample-2"
	case StateBuildingTemplate:
		return "building-template"
	case StateRecordingPhrase:
		return "recording-phrase"
	case StatePersisting:
		return "persisting"
	case StateRecordingVoice:
		return "recording-voice"
	case StateMatching:
		return "matching"
	case StateVerifyingPhrase:
		return "verifying-phrase"
	case StateSendingCode:
		return "sending-code"
	case StateAwaitingCode:
		return "awaiting-code"
	case StateDone:
		return "done"
	case StateLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Event describes one observable step of an active flow.
type Event struct {
	State    State
	Identity string
	// Attempt is 1-based during login attempts, zero elsewhere.
	Attempt int
	Detail  string
}

// Observer receives flow events as they happen. Implementations must be fast;
// they run inline on the flow goroutine.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f.
func (f ObserverFunc) Observe(event Event) { f(event) }

type noopObserver struct{}

func (noopObserver) Observe(Event) {}
