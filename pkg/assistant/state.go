package assistant

// State identifies where the controller is in a conversational turn.
// Exactly one state is active at a time.
type State int

const (
	// Idle means no turn is in progress.
	Idle State = iota

	// Listening means a recognition session is capturing an utterance.
	Listening

	// AwaitingAnswer means a numbered-question queue is being collected;
	// the next utterance answers the question at the front.
	AwaitingAnswer

	// AwaitingConfirmation means a command is held pending a yes/no.
	AwaitingConfirmation

	// Processing means a command is in flight to the backend.
	Processing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Listening:
		return "listening"
	case AwaitingAnswer:
		return "awaiting_answer"
	case AwaitingConfirmation:
		return "awaiting_confirmation"
	case Processing:
		return "processing"
	default:
		return "unknown"
	}
}
