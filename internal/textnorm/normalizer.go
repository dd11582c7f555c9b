package textnorm

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/rbright/voxfield/internal/fsm"
)

// resyncWindow is how many runes before the cursor are inspected on resync.
const resyncWindow = 3

// Snapshot is a read-only view of normalizer state.
type Snapshot struct {
	Phase      fsm.State
	Prediction Prediction
}

// Normalizer tracks pending-space and pending-capitalize state across a
// stream of recognition and cursor events. It is not safe for concurrent use;
// callers serialize every method call.
type Normalizer struct {
	host    Host
	spacing Spacing
	opts    Options
	logger  *slog.Logger

	phase fsm.State
	next  Prediction
	// firstSinceResume is independent of phase so a composition can span a resume.
	firstSinceResume bool
}

// New constructs a normalizer awaiting its first recognized chunk.
func New(host Host, spacing Spacing, opts Options, logger *slog.Logger) *Normalizer {
	if host == nil {
		host = HostFunc(func() TextField { return nil })
	}
	if spacing == nil {
		spacing = StaticSpacing(false)
	}

	return &Normalizer{
		host:    host,
		spacing: spacing,
		opts:    opts,
		logger:  logger,
		phase:   fsm.StateAwaitingFirstInput,
		next:    Prediction{Capitalize: true},

		firstSinceResume: true,
	}
}

// Snapshot returns the current phase and prediction.
func (n *Normalizer) Snapshot() Snapshot {
	return Snapshot{Phase: n.phase, Prediction: n.next}
}

// Composing reports whether the last chunk is still an uncommitted composition.
func (n *Normalizer) Composing() bool {
	return n.phase == fsm.StateComposing
}

// OnResume forces a resync before the next recognized chunk is delivered.
func (n *Normalizer) OnResume() {
	n.firstSinceResume = true
	n.apply(fsm.EventResume)
}

// OnSelectionChanged handles a host selection update.
func (n *Normalizer) OnSelectionChanged(selStart, selEnd int) {
	if selStart != selEnd {
		n.apply(fsm.EventSelectRange)
		return
	}
	// Composition updates move the cursor themselves.
	if n.Composing() {
		return
	}
	n.apply(fsm.EventCursor)
	n.resync()
}

// OnRecognizedText merges one recognized chunk into the current field.
func (n *Normalizer) OnRecognizedText(text string, mode Mode) {
	if text == "" {
		return
	}

	processed := strings.TrimSpace(text)
	logographic := IsLogographic(processed)
	switch {
	case logographic:
		processed = stripSpaces(processed)
	case n.opts.NormalizeUnicode && mode != ModeInsert:
		// Inserted text and logographic variants are committed as received.
		processed = norm.NFC.String(processed)
	}

	n.debug("recognized text",
		"original", text,
		"processed", processed,
		"mode", mode.String(),
		"phase", string(n.phase),
		"pending_space", n.next.Space,
		"pending_capitalize", n.next.Capitalize,
	)

	if processed == "" {
		return
	}

	if n.firstSinceResume {
		n.resync()
		n.firstSinceResume = false
		n.apply(fsm.EventFirstInput)
	}

	field := n.host.CurrentField()
	if field == nil {
		return
	}

	composed := processed
	if !logographic {
		if n.opts.AutoCapitalize && n.next.Capitalize {
			composed = capitalizeFirst(composed)
		}
		if !n.spacing.SourceAddsSpaces() && n.next.Space {
			composed = " " + composed
		}
	}

	switch mode {
	case ModeFinal, ModeStandard:
		n.predictFrom(composed, logographic)
		n.apply(fsm.EventCommit)
		field.CommitText(composed)
	case ModePartial:
		n.apply(fsm.EventCompose)
		field.SetComposingText(composed)
	case ModeInsert:
		if n.opts.InsertPolicy == InsertUpdateLookahead {
			n.predictFrom(processed, logographic)
		}
		n.apply(fsm.EventCommit)
		field.CommitText(processed)
	default:
		n.warn("dropping chunk with unknown mode", "mode", mode.String())
	}
}

// predictFrom derives the next prediction from the trailing text of a delivered chunk.
func (n *Normalizer) predictFrom(delivered string, logographic bool) {
	if logographic {
		n.next.Space = false
	} else {
		last, _ := utf8.DecodeLastRuneInString(delivered)
		n.next.Space = AddSpaceAfter(last)
	}
	if capitalize, ok := CapitalizeAfter(delivered); ok {
		n.next.Capitalize = capitalize
	}
}

// resync re-derives the prediction from the text just before the cursor.
func (n *Normalizer) resync() {
	field := n.host.CurrentField()
	if field == nil {
		return
	}
	before, ok := field.TextBeforeCursor(resyncWindow)
	if !ok {
		return
	}

	switch {
	case IsLogographic(before):
		n.next.Space = false
	case before == "":
		n.next.Space = false
	default:
		last, _ := utf8.DecodeLastRuneInString(before)
		n.next.Space = AddSpaceAfter(last)
	}

	if capitalize, ok := CapitalizeAfter(before); ok {
		n.next.Capitalize = capitalize
	}
}

func (n *Normalizer) apply(event fsm.Event) {
	next, err := fsm.Transition(n.phase, event)
	if err != nil {
		n.warn("normalizer transition rejected", "error", err.Error())
		return
	}
	n.phase = next
}

func (n *Normalizer) debug(msg string, args ...any) {
	if n.logger == nil {
		return
	}
	n.logger.Debug(msg, args...)
}

func (n *Normalizer) warn(msg string, args ...any) {
	if n.logger == nil {
		return
	}
	n.logger.Warn(msg, args...)
}
