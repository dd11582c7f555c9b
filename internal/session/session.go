// Package session owns one input session: a text field, the normalizer that
// writes recognized speech into it, and the stop/cancel lifecycle.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rbright/voxfield/internal/field"
	"github.com/rbright/voxfield/internal/fsm"
	"github.com/rbright/voxfield/internal/ipc"
	"github.com/rbright/voxfield/internal/textnorm"
)

var (
	// ErrNoField indicates an event arrived after the session released its field.
	ErrNoField = errors.New("no text field attached to the session")
	// ErrEmptyField indicates stop completed but the field holds nothing to commit.
	ErrEmptyField = errors.New("nothing to commit; the field is empty")
)

type action int

const (
	actionStop action = iota + 1
	actionCancel
)

// Result is the complete lifecycle output returned by one Run invocation.
type Result struct {
	State      fsm.State
	Text       string
	Cancelled  bool
	Events     int
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Status is a point-in-time view of the session.
type Status struct {
	Phase      fsm.State
	Prediction textnorm.Prediction
	Text       string
	Composing  string
	Events     int
}

// Controller serializes every normalizer call behind one mutex and feeds the
// field's queued selection notifications back into the normalizer.
type Controller struct {
	logger *slog.Logger
	commit Committer

	mu       sync.Mutex
	buffer   *field.Buffer
	norm     *textnorm.Normalizer
	events   int
	released bool

	actions chan action
}

// NewController binds a normalizer to buffer. A nil buffer starts empty and a
// nil committer discards the final text.
func NewController(
	logger *slog.Logger,
	buffer *field.Buffer,
	spacing textnorm.Spacing,
	opts textnorm.Options,
	committer Committer,
) *Controller {
	if buffer == nil {
		buffer = field.NewBuffer("")
	}
	if committer == nil {
		committer = CommitFunc(func(context.Context, string) error { return nil })
	}

	host := textnorm.HostFunc(func() textnorm.TextField { return buffer })
	return &Controller{
		logger:  logger,
		commit:  committer,
		buffer:  buffer,
		norm:    textnorm.New(host, spacing, opts, logger),
		actions: make(chan action, 1),
	}
}

// Status returns the current phase, prediction, and field contents.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.norm.Snapshot()
	composing, _ := c.buffer.Composing()
	return Status{
		Phase:      snap.Phase,
		Prediction: snap.Prediction,
		Text:       c.buffer.String(),
		Composing:  composing,
		Events:     c.events,
	}
}

// Apply delivers one event to the field and normalizer.
func (c *Controller) Apply(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return ErrNoField
	}

	switch ev.Kind {
	case EventText:
		c.norm.OnRecognizedText(ev.Text, ev.Mode)
	case EventSelect:
		c.buffer.SetSelection(ev.Start, ev.End)
	case EventType:
		c.buffer.Type(ev.Text)
	case EventResume:
		c.norm.OnResume()
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	c.events++
	c.deliverSelectionUpdates()

	if c.logger != nil {
		c.logger.Debug("session event", "event", ev.String(), "phase", string(c.norm.Snapshot().Phase))
	}
	return nil
}

// Replay applies events in order, stopping at the first failure.
func (c *Controller) Replay(events []Event) error {
	for i, ev := range events {
		if err := c.Apply(ev); err != nil {
			return fmt.Errorf("event %d (%s): %w", i+1, ev, err)
		}
	}
	return nil
}

// deliverSelectionUpdates hands queued field notifications to the normalizer.
// Callers hold c.mu.
func (c *Controller) deliverSelectionUpdates() {
	for {
		updates := c.buffer.DrainUpdates()
		if len(updates) == 0 {
			return
		}
		for _, sel := range updates {
			c.norm.OnSelectionChanged(sel.Start, sel.End)
		}
	}
}

// release detaches the field and returns its final text.
func (c *Controller) release() (string, fsm.State, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = true
	return c.buffer.String(), c.norm.Snapshot().Phase, c.events
}

// Run blocks until stop, cancel, or context end, then releases the field.
// On stop the final field text is handed to the committer.
func (c *Controller) Run(ctx context.Context) Result {
	result := Result{StartedAt: time.Now()}
	finish := func() Result {
		result.Text, result.State, result.Events = c.release()
		result.FinishedAt = time.Now()
		return result
	}

	select {
	case <-ctx.Done():
		result.Err = ctx.Err()
		return finish()
	case a := <-c.actions:
		switch a {
		case actionCancel:
			result.Cancelled = true
			return finish()
		case actionStop:
			result = finish()
			if strings.TrimSpace(result.Text) == "" {
				result.Err = ErrEmptyField
				return result
			}
			if err := c.commit.Commit(ctx, result.Text); err != nil {
				result.Err = err
			}
			result.FinishedAt = time.Now()
			return result
		default:
			result.Err = fmt.Errorf("unknown action %d", a)
			return finish()
		}
	}
}

// Handle serves IPC commands for the active session.
func (c *Controller) Handle(_ context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CommandStatus:
		status := c.Status()
		return ipc.Response{OK: true, State: string(status.Phase), Text: status.Text, Message: "status"}
	case ipc.CommandStop:
		return c.request(actionStop, "stop")
	case ipc.CommandCancel:
		return c.request(actionCancel, "cancel")
	case ipc.CommandText, ipc.CommandSelect, ipc.CommandType, ipc.CommandResume:
		return c.handleEvent(req)
	default:
		return ipc.Response{OK: false, State: string(c.Status().Phase), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}

func (c *Controller) handleEvent(req ipc.Request) ipc.Response {
	ev, err := EventFromRequest(req)
	if err == nil {
		err = c.Apply(ev)
	}
	status := c.Status()
	if err != nil {
		return ipc.Response{OK: false, State: string(status.Phase), Text: status.Text, Error: err.Error()}
	}
	return ipc.Response{OK: true, State: string(status.Phase), Text: status.Text, Message: req.Command}
}

// request enqueues a lifecycle action; only the first one is honored.
func (c *Controller) request(a action, name string) ipc.Response {
	state := string(c.Status().Phase)
	select {
	case c.actions <- a:
		return ipc.Response{OK: true, State: state, Message: name + " requested"}
	default:
		return ipc.Response{OK: true, State: state, Message: "session already ending"}
	}
}
