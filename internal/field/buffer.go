// Package field provides an in-memory editable text field with cursor, selection,
// and composing-region semantics.
package field

import "sync"

// Selection is one host selection notification. Start == End is a cursor.
type Selection struct {
	Start int
	End   int
}

// Buffer is a rune-indexed editable text field.
//
// Every cursor or selection change is queued and handed out by DrainUpdates,
// mirroring hosts that report selection changes after the edit that caused them.
type Buffer struct {
	mu sync.Mutex

	text      []rune
	selStart  int
	selEnd    int
	composeAt int // -1 when nothing is composing
	composeTo int

	updates []Selection
}

// NewBuffer returns a buffer holding text with the cursor at its end.
func NewBuffer(text string) *Buffer {
	runes := []rune(text)
	return &Buffer{
		text:      runes,
		selStart:  len(runes),
		selEnd:    len(runes),
		composeAt: -1,
	}
}

// String returns the full field text, including any composing region.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.text)
}

// Selection returns the current selection bounds.
func (b *Buffer) Selection() Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Selection{Start: b.selStart, End: b.selEnd}
}

// Composing returns the current composing text, if any.
func (b *Buffer) Composing() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.composeAt < 0 {
		return "", false
	}
	return string(b.text[b.composeAt:b.composeTo]), true
}

// TextBeforeCursor returns up to n runes before the selection start.
func (b *Buffer) TextBeforeCursor(n int) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n <= 0 {
		return "", true
	}
	start := b.selStart - n
	if start < 0 {
		start = 0
	}
	return string(b.text[start:b.selStart]), true
}

// CommitText replaces the composing region (or the selection) with text and
// places the cursor after it.
func (b *Buffer) CommitText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	at, _ := b.replace(text)
	b.composeAt = -1
	b.composeTo = 0
	b.moveCursor(at)
}

// SetComposingText replaces the composing region (or the selection) with text
// and marks it as the new composing region.
func (b *Buffer) SetComposingText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	end, start := b.replace(text)
	b.composeAt = start
	b.composeTo = end
	b.moveCursor(end)
}

// Type inserts text at the cursor as an external edit, replacing any selection.
// Typing finishes any pending composition.
func (b *Buffer) Type(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.composeAt = -1
	b.composeTo = 0
	end, _ := b.replace(text)
	b.moveCursor(end)
}

// SetSelection moves the selection, clamped to the text bounds. Moving the
// selection finishes any pending composition.
func (b *Buffer) SetSelection(start, end int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	start = b.clamp(start)
	end = b.clamp(end)
	if end < start {
		start, end = end, start
	}
	b.composeAt = -1
	b.composeTo = 0
	b.selStart = start
	b.selEnd = end
	b.updates = append(b.updates, Selection{Start: start, End: end})
}

// DrainUpdates returns and clears queued selection notifications.
func (b *Buffer) DrainUpdates() []Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	updates := b.updates
	b.updates = nil
	return updates
}

// replace swaps the composing region, or the selection when nothing is
// composing, for text. It returns the end and start rune offsets of text.
func (b *Buffer) replace(text string) (int, int) {
	from, to := b.selStart, b.selEnd
	if b.composeAt >= 0 {
		from, to = b.composeAt, b.composeTo
	}

	inserted := []rune(text)
	out := make([]rune, 0, len(b.text)-(to-from)+len(inserted))
	out = append(out, b.text[:from]...)
	out = append(out, inserted...)
	out = append(out, b.text[to:]...)
	b.text = out

	return from + len(inserted), from
}

func (b *Buffer) moveCursor(at int) {
	b.selStart = at
	b.selEnd = at
	b.updates = append(b.updates, Selection{Start: at, End: at})
}

func (b *Buffer) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(b.text) {
		return len(b.text)
	}
	return pos
}
