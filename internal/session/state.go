package session

import "fmt"

// State is a pipeline stage. A run only ever moves forward through them.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateTranscribing
	StateReporting
	StatePublishing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateTranscribing:
		return "transcribing"
	case StateReporting:
		return "reporting"
	case StatePublishing:
		return "publishing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}
