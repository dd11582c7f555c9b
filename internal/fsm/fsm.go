// Package fsm models the text normalizer's session phase as an explicit state machine.
package fsm

import "fmt"

type State string

type Event string

const (
	StateAwaitingFirstInput State = "awaiting-first-input"
	StateComposing          State = "composing"
	StateCommitted          State = "committed"
)

const (
	EventResume      Event = "resume"
	EventCompose     Event = "compose"
	EventCommit      Event = "commit"
	EventSelectRange Event = "select-range"
	EventCursor      Event = "cursor"
	EventFirstInput  Event = "first-input"
)

// Transition returns the phase that follows event in state current.
func Transition(current State, event Event) (State, error) {
	switch current {
	case StateAwaitingFirstInput, StateComposing, StateCommitted:
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}

	switch event {
	case EventResume:
		// An in-flight composition survives a resume.
		if current == StateComposing {
			return current, nil
		}
		return StateAwaitingFirstInput, nil
	case EventCompose:
		return StateComposing, nil
	case EventCommit:
		return StateCommitted, nil
	case EventSelectRange:
		// A range selection finishes an in-flight composition.
		if current == StateComposing {
			return StateCommitted, nil
		}
		return current, nil
	case EventCursor:
		return current, nil
	case EventFirstInput:
		if current == StateAwaitingFirstInput {
			return StateCommitted, nil
		}
		return current, nil
	default:
		return current, invalidTransition(current, event)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
