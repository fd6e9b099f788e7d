// Package editbuf reconciles local edit buffers against the remote
// baseline. A buffer is Dirty exactly when its text differs from the
// last known-committed server value; commit, revert and new follow the
// question/answer edit protocol.
package editbuf

import "strings"

// Buffer is one local text buffer bound to a single entity's text.
type Buffer struct {
	baseline string
	text     string
}

// Reset rebinds the buffer to a new baseline, discarding local edits.
// Used on every selection change.
func (b *Buffer) Reset(baseline string) {
	b.baseline = baseline
	b.text = baseline
}

// SetText records an edit. Manual typing and transcript injection both
// land here; the most recent write wins.
func (b *Buffer) SetText(text string) {
	b.text = text
}

func (b *Buffer) Text() string     { return b.text }
func (b *Buffer) Baseline() string { return b.baseline }

// Dirty holds the invariant dirty == (text != baseline).
func (b *Buffer) Dirty() bool {
	return b.text != b.baseline
}

// CanCommit blocks empty and no-op commits.
func (b *Buffer) CanCommit() bool {
	return strings.TrimSpace(b.text) != "" && b.Dirty()
}

// Revert restores the baseline.
func (b *Buffer) Revert() {
	b.text = b.baseline
}
