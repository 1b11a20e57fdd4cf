// Package history provides the linear undo/redo ledger over whole-grid
// snapshots. Snapshotting whole grids is cheap and safe because Grid is
// an immutable value; no inverse-operation log is needed.
package history

import (
	"fmt"

	"pontoon-planner/internal/grid"
)

// DefaultMaxEntries bounds the ledger before the oldest entries are
// evicted.
const DefaultMaxEntries = 100

// OpKind names the mutation a ledger entry records.
type OpKind int

const (
	OpPlace OpKind = iota
	OpRemove
	OpMove
	OpRotate
	OpPaint
	OpBatchPlace
	OpCheckpoint
)

func (k OpKind) String() string {
	switch k {
	case OpPlace:
		return "place"
	case OpRemove:
		return "remove"
	case OpMove:
		return "move"
	case OpRotate:
		return "rotate"
	case OpPaint:
		return "paint"
	case OpBatchPlace:
		return "batch place"
	case OpCheckpoint:
		return "checkpoint"
	default:
		return "unknown"
	}
}

// Operation is the record of one applied mutation.
type Operation struct {
	Kind      OpKind
	IDs       []grid.ID
	Timestamp int64 // unix milliseconds
}

// Entry is one ledger step: the grid before, the grid after, and what
// happened in between.
type Entry struct {
	Before      grid.Grid
	After       grid.Grid
	Operations  []Operation
	Description string

	checkpoint string // non-empty for checkpoint markers
}

// Ledger is the linear undo/redo history. The cursor sits after the
// last applied entry; undo steps it left, redo steps it right, and a
// fresh append truncates everything to the right of it.
type Ledger struct {
	entries []Entry
	cursor  int // number of applied entries
	max     int
}

// NewLedger creates a ledger bounded to maxEntries (DefaultMaxEntries
// when zero or negative).
func NewLedger(maxEntries int) *Ledger {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Ledger{max: maxEntries}
}

// Len returns the number of retained entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// CanUndo reports whether an undo step is available.
func (l *Ledger) CanUndo() bool {
	return l.cursor > 0
}

// CanRedo reports whether a redo step is available.
func (l *Ledger) CanRedo() bool {
	return l.cursor < len(l.entries)
}

// Append records a successful mutation. Any redo branch beyond the
// cursor is discarded; there is no branch merging. When the ledger
// exceeds its bound the oldest entries are evicted and the cursor
// shifts left accordingly, clamped at zero.
func (l *Ledger) Append(e Entry) {
	l.entries = append(l.entries[:l.cursor], e)
	l.cursor = len(l.entries)

	if over := len(l.entries) - l.max; over > 0 {
		l.entries = append([]Entry(nil), l.entries[over:]...)
		l.cursor -= over
		if l.cursor < 0 {
			l.cursor = 0
		}
	}
}

// Undo steps the cursor back and returns the grid as it was before the
// undone entry. At the beginning it reports false and returns the zero
// grid.
func (l *Ledger) Undo() (grid.Grid, bool) {
	if !l.CanUndo() {
		return grid.Grid{}, false
	}
	l.cursor--
	return l.entries[l.cursor].Before, true
}

// Redo steps the cursor forward and returns the grid after the redone
// entry. At the end it reports false and returns the zero grid.
func (l *Ledger) Redo() (grid.Grid, bool) {
	if !l.CanRedo() {
		return grid.Grid{}, false
	}
	e := l.entries[l.cursor]
	l.cursor++
	return e.After, true
}

// Checkpoint appends a named zero-delta marker at the current grid
// state. RollbackTo can later jump straight back to it regardless of
// how many entries were appended since.
func (l *Ledger) Checkpoint(id string, g grid.Grid) {
	l.Append(Entry{
		Before:      g,
		After:       g,
		Operations:  []Operation{{Kind: OpCheckpoint}},
		Description: fmt.Sprintf("checkpoint %s", id),
		checkpoint:  id,
	})
}

// RollbackTo rewinds the cursor to just after the named checkpoint and
// returns the grid at that point. Unknown checkpoints (including ones
// already evicted or undone past) report false without moving the
// cursor.
func (l *Ledger) RollbackTo(id string) (grid.Grid, bool) {
	for i := l.cursor - 1; i >= 0; i-- {
		if l.entries[i].checkpoint == id {
			l.cursor = i + 1
			return l.entries[i].After, true
		}
	}
	return grid.Grid{}, false
}

// PeekUndo returns the description of the entry Undo would revert.
func (l *Ledger) PeekUndo() (string, bool) {
	if !l.CanUndo() {
		return "", false
	}
	return l.entries[l.cursor-1].Description, true
}

// PeekRedo returns the description of the entry Redo would reapply.
func (l *Ledger) PeekRedo() (string, bool) {
	if !l.CanRedo() {
		return "", false
	}
	return l.entries[l.cursor].Description, true
}
