package session

import (
	"context"
	"testing"

	"github.com/rbright/voxfield/internal/field"
	"github.com/rbright/voxfield/internal/fsm"
	"github.com/rbright/voxfield/internal/textnorm"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, initial string, committer Committer) (*Controller, *field.Buffer) {
	t.Helper()
	buffer := field.NewBuffer(initial)
	opts := textnorm.Options{AutoCapitalize: true, NormalizeUnicode: true}
	return NewController(nil, buffer, textnorm.StaticSpacing(false), opts, committer), buffer
}

func text(s string, mode textnorm.Mode) Event {
	return Event{Kind: EventText, Text: s, Mode: mode}
}

func TestApplyMergesSentences(t *testing.T) {
	ctrl, buffer := newTestController(t, "", nil)

	require.NoError(t, ctrl.Apply(text("hello", textnorm.ModeStandard)))
	require.NoError(t, ctrl.Apply(text("world.", textnorm.ModeFinal)))
	require.NoError(t, ctrl.Apply(text("how", textnorm.ModePartial)))

	composing, ok := buffer.Composing()
	require.True(t, ok)
	require.Equal(t, " How", composing)
	require.Equal(t, fsm.StateComposing, ctrl.Status().Phase)

	require.NoError(t, ctrl.Apply(text("how are you?", textnorm.ModeFinal)))
	require.Equal(t, "Hello world. How are you?", buffer.String())

	status := ctrl.Status()
	require.Equal(t, fsm.StateCommitted, status.Phase)
	require.Equal(t, textnorm.Prediction{Space: true, Capitalize: true}, status.Prediction)
	require.Equal(t, 4, status.Events)
	require.Empty(t, status.Composing)
}

func TestApplyCursorMoveResyncsFromField(t *testing.T) {
	ctrl, buffer := newTestController(t, "Hello world.", nil)

	require.NoError(t, ctrl.Apply(Event{Kind: EventSelect, Start: 5, End: 5}))
	require.Equal(t, textnorm.Prediction{Space: true, Capitalize: false}, ctrl.Status().Prediction)

	require.NoError(t, ctrl.Apply(text("big", textnorm.ModeFinal)))
	require.Equal(t, "Hello big world.", buffer.String())
}

func TestApplyTypedTextResyncs(t *testing.T) {
	ctrl, buffer := newTestController(t, "", nil)

	require.NoError(t, ctrl.Apply(text("hello.", textnorm.ModeFinal)))
	require.NoError(t, ctrl.Apply(Event{Kind: EventType, Text: " Bye"}))
	require.NoError(t, ctrl.Apply(text("now", textnorm.ModeFinal)))

	require.Equal(t, "Hello. Bye now", buffer.String())
}

func TestApplyCursorUpdatesIgnoredWhileComposing(t *testing.T) {
	ctrl, _ := newTestController(t, "Done.", nil)

	require.NoError(t, ctrl.Apply(text("next", textnorm.ModePartial)))
	before := ctrl.Status().Prediction

	require.NoError(t, ctrl.Apply(Event{Kind: EventSelect, Start: 1, End: 1}))
	require.Equal(t, fsm.StateComposing, ctrl.Status().Phase)
	require.Equal(t, before, ctrl.Status().Prediction)
}

func TestApplyRangeSelectionEndsComposition(t *testing.T) {
	ctrl, _ := newTestController(t, "", nil)

	require.NoError(t, ctrl.Apply(text("draft", textnorm.ModePartial)))
	require.NoError(t, ctrl.Apply(Event{Kind: EventSelect, Start: 0, End: 3}))
	require.Equal(t, fsm.StateCommitted, ctrl.Status().Phase)
}

func TestApplyResumeResyncsBeforeNextChunk(t *testing.T) {
	ctrl, buffer := newTestController(t, "", nil)

	require.NoError(t, ctrl.Apply(text("one", textnorm.ModeFinal)))
	require.NoError(t, ctrl.Apply(Event{Kind: EventResume}))
	require.Equal(t, fsm.StateAwaitingFirstInput, ctrl.Status().Phase)

	require.NoError(t, ctrl.Apply(text("two", textnorm.ModeFinal)))
	require.Equal(t, "One two", buffer.String())
}

func TestApplyUnknownEventKind(t *testing.T) {
	ctrl, _ := newTestController(t, "", nil)

	err := ctrl.Apply(Event{Kind: "wave"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown event kind")
	require.Zero(t, ctrl.Status().Events)
}

func TestReplayReportsFailingEvent(t *testing.T) {
	ctrl, buffer := newTestController(t, "", nil)

	require.NoError(t, ctrl.Replay([]Event{
		text("hello", textnorm.ModeFinal),
		text("there", textnorm.ModeFinal),
	}))
	require.Equal(t, "Hello there", buffer.String())

	err := ctrl.Replay([]Event{{Kind: EventResume}, {Kind: "bogus"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "event 2")
}

func TestApplyAfterStopReturnsErrNoField(t *testing.T) {
	ctrl, _ := newTestController(t, "", nil)
	require.NoError(t, ctrl.Apply(text("keep", textnorm.ModeFinal)))

	require.True(t, ctrl.Handle(context.Background(), stopRequest()).OK)
	result := ctrl.Run(context.Background())
	require.NoError(t, result.Err)

	require.ErrorIs(t, ctrl.Apply(text("late", textnorm.ModeFinal)), ErrNoField)
}
