package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionHappyPath(t *testing.T) {
	s := StateAwaitingFirstInput

	next, err := Transition(s, EventCompose)
	require.NoError(t, err)
	require.Equal(t, StateComposing, next)

	next, err = Transition(next, EventCursor)
	require.NoError(t, err)
	require.Equal(t, StateComposing, next)

	next, err = Transition(next, EventCommit)
	require.NoError(t, err)
	require.Equal(t, StateCommitted, next)

	next, err = Transition(next, EventResume)
	require.NoError(t, err)
	require.Equal(t, StateAwaitingFirstInput, next)
}

func TestTransitionResumeAwaitsFirstInputUnlessComposing(t *testing.T) {
	for _, state := range []State{StateAwaitingFirstInput, StateCommitted} {
		next, err := Transition(state, EventResume)
		require.NoError(t, err)
		require.Equal(t, StateAwaitingFirstInput, next)
	}

	next, err := Transition(StateComposing, EventResume)
	require.NoError(t, err)
	require.Equal(t, StateComposing, next)
}

func TestTransitionMatrix(t *testing.T) {
	tests := []struct {
		name  string
		state State
		event Event
		want  State
	}{
		{name: "awaiting select range stays", state: StateAwaitingFirstInput, event: EventSelectRange, want: StateAwaitingFirstInput},
		{name: "awaiting cursor stays", state: StateAwaitingFirstInput, event: EventCursor, want: StateAwaitingFirstInput},
		{name: "awaiting commit", state: StateAwaitingFirstInput, event: EventCommit, want: StateCommitted},
		{name: "composing select range commits", state: StateComposing, event: EventSelectRange, want: StateCommitted},
		{name: "composing compose stays", state: StateComposing, event: EventCompose, want: StateComposing},
		{name: "committed select range stays", state: StateCommitted, event: EventSelectRange, want: StateCommitted},
		{name: "committed compose", state: StateCommitted, event: EventCompose, want: StateComposing},
		{name: "committed cursor stays", state: StateCommitted, event: EventCursor, want: StateCommitted},
		{name: "awaiting first input settles", state: StateAwaitingFirstInput, event: EventFirstInput, want: StateCommitted},
		{name: "composing first input stays", state: StateComposing, event: EventFirstInput, want: StateComposing},
		{name: "committed first input stays", state: StateCommitted, event: EventFirstInput, want: StateCommitted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Transition(tc.state, tc.event)
			require.NoError(t, err)
			require.Equal(t, tc.want, next)
		})
	}
}

func TestTransitionInvalidEvent(t *testing.T) {
	next, err := Transition(StateCommitted, Event("explode"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid transition")
	require.Equal(t, StateCommitted, next)
}

func TestTransitionUnknownState(t *testing.T) {
	next, err := Transition(State("mystery"), EventCommit)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown state")
	require.Equal(t, State("mystery"), next)
}
