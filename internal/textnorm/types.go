// Package textnorm merges recognized speech chunks into an editable text field.
package textnorm

import (
	"fmt"
	"strings"
)

// Mode tags how a recognized chunk should be delivered to the field.
type Mode int

const (
	ModeStandard Mode = iota
	ModePartial
	ModeFinal
	ModeInsert
)

var modeNames = map[Mode]string{
	ModeStandard: "standard",
	ModePartial:  "partial",
	ModeFinal:    "final",
	ModeInsert:   "insert",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode maps a case-insensitive mode name to its Mode.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for mode, candidate := range modeNames {
		if candidate == name {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q (expected standard, partial, final, or insert)", name)
}

// TextField is the host-owned editable field the normalizer writes into.
type TextField interface {
	// TextBeforeCursor returns up to n runes before the cursor; ok is false
	// when the field cannot answer right now.
	TextBeforeCursor(n int) (text string, ok bool)
	CommitText(text string)
	SetComposingText(text string)
}

// Host resolves the field currently bound to the input session.
type Host interface {
	CurrentField() TextField
}

// HostFunc adapts a function to the Host interface.
type HostFunc func() TextField

func (f HostFunc) CurrentField() TextField {
	return f()
}

// Spacing reports whether the active recognizer already emits inter-word spaces.
type Spacing interface {
	SourceAddsSpaces() bool
}

// StaticSpacing is a fixed Spacing answer.
type StaticSpacing bool

func (s StaticSpacing) SourceAddsSpaces() bool {
	return bool(s)
}

// InsertPolicy controls whether ModeInsert chunks update the lookahead prediction.
type InsertPolicy int

const (
	// InsertSkipLookahead leaves the prediction untouched after a manual insert.
	InsertSkipLookahead InsertPolicy = iota
	// InsertUpdateLookahead derives the prediction from the inserted text.
	InsertUpdateLookahead
)

func (p InsertPolicy) String() string {
	if p == InsertUpdateLookahead {
		return "update"
	}
	return "skip"
}

// ParseInsertPolicy accepts "skip" or "update".
func ParseInsertPolicy(name string) (InsertPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "skip", "":
		return InsertSkipLookahead, nil
	case "update":
		return InsertUpdateLookahead, nil
	default:
		return InsertSkipLookahead, fmt.Errorf("unknown insert policy %q (expected skip or update)", name)
	}
}

// Options carries the user-facing normalization toggles.
type Options struct {
	AutoCapitalize   bool
	InsertPolicy     InsertPolicy
	NormalizeUnicode bool
}

// Prediction is the space/capitalize expectation for the next committed chunk.
type Prediction struct {
	Space      bool
	Capitalize bool
}
