package pipeline

import (
	"time"

	"github.com/Rzhan16/neuronote-ai/core"
)

// State is a step of a pipeline run.
type State int

const (
	StateClassifying State = iota
	StateExtracting
	StateDeriving
	StatePersisting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateClassifying:
		return "classifying"
	case StateExtracting:
		return "extracting"
	case StateDeriving:
		return "deriving"
	case StatePersisting:
		return "persisting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// RunEvent is emitted on every state transition of a run.
type RunEvent struct {
	RunID  string
	State  State
	NoteID core.NoteID // set on StateDone
	Err    error       // set on StateFailed
	At     time.Time
}

// Observer receives run events. It is called synchronously from the run's
// goroutine and must be safe for concurrent use across runs.
type Observer func(RunEvent)
