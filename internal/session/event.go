package session

import (
	"fmt"
	"strings"

	"github.com/rbright/voxfield/internal/ipc"
	"github.com/rbright/voxfield/internal/textnorm"
)

// EventKind names one host or recognizer event applied to a session.
type EventKind string

const (
	EventText   EventKind = "text"
	EventSelect EventKind = "select"
	EventType   EventKind = "type"
	EventResume EventKind = "resume"
)

// Event is one input-session event. Text and Mode apply to text events, Text
// alone to type events, Start and End to select events.
type Event struct {
	Kind  EventKind
	Text  string
	Mode  textnorm.Mode
	Start int
	End   int
}

func (e Event) String() string {
	switch e.Kind {
	case EventText:
		return fmt.Sprintf("text(%s %q)", e.Mode, e.Text)
	case EventSelect:
		return fmt.Sprintf("select(%d,%d)", e.Start, e.End)
	case EventType:
		return fmt.Sprintf("type(%q)", e.Text)
	default:
		return string(e.Kind)
	}
}

// ParseEventMode resolves a mode name; empty selects standard.
func ParseEventMode(name string) (textnorm.Mode, error) {
	if strings.TrimSpace(name) == "" {
		return textnorm.ModeStandard, nil
	}
	return textnorm.ParseMode(name)
}

// EventFromRequest converts an event-carrying IPC request into an Event.
func EventFromRequest(req ipc.Request) (Event, error) {
	switch EventKind(req.Command) {
	case EventText:
		mode, err := ParseEventMode(req.Mode)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: EventText, Text: req.Text, Mode: mode}, nil
	case EventSelect:
		return Event{Kind: EventSelect, Start: req.Start, End: req.End}, nil
	case EventType:
		return Event{Kind: EventType, Text: req.Text}, nil
	case EventResume:
		return Event{Kind: EventResume}, nil
	default:
		return Event{}, fmt.Errorf("command %q does not carry an event", req.Command)
	}
}
