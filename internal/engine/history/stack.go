package history

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultMaxEntries is the stack cap used when none is configured.
const DefaultMaxEntries = 100

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrRestoring     = errors.New("history restore in progress")
)

// Entry is one document snapshot.
type Entry struct {
	HTML      string
	Label     string
	Timestamp time.Time
}

// OperationInfo provides read-only info about a history entry.
// Used for displaying undo/redo history to users.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
	Size        int
}

// Applier installs a snapshot into the document.
type Applier func(html string) error

// History manages the undo and redo stacks.
type History struct {
	mu sync.Mutex

	undoStack []Entry
	redoStack []Entry

	// restoring suppresses snapshots while an undo/redo is applied.
	restoring bool

	maxEntries int
}

// New creates a history bounded at maxEntries per stack.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Reset discards both stacks and records html as the baseline state.
func (h *History) Reset(html string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = []Entry{{HTML: html, Label: "Initial", Timestamp: time.Now()}}
	h.redoStack = nil
}

// Snapshot pushes html onto the undo stack and clears the redo stack.
// It returns false when the snapshot was suppressed: during restoration, or
// when html equals the current top entry.
func (h *History) Snapshot(html, label string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.restoring {
		return false
	}
	if n := len(h.undoStack); n > 0 && h.undoStack[n-1].HTML == html {
		return false
	}

	h.undoStack = append(h.undoStack, Entry{HTML: html, Label: label, Timestamp: time.Now()})
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
	return true
}

// Undo moves the current state to the redo stack and applies the previous
// snapshot. The oldest retained entry cannot be undone past.
func (h *History) Undo(apply Applier) error {
	h.mu.Lock()
	if h.restoring {
		h.mu.Unlock()
		return ErrRestoring
	}
	if len(h.undoStack) < 2 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}

	current := h.undoStack[len(h.undoStack)-1]
	target := h.undoStack[len(h.undoStack)-2]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.restoring = true
	h.mu.Unlock()

	// Apply without holding the lock; the apply path may call Snapshot.
	err := apply(target.HTML)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.restoring = false
	if err != nil {
		h.undoStack = append(h.undoStack, current)
		return fmt.Errorf("undo: %w", err)
	}
	h.redoStack = append(h.redoStack, current)
	if len(h.redoStack) > h.maxEntries {
		h.redoStack = h.redoStack[len(h.redoStack)-h.maxEntries:]
	}
	return nil
}

// Redo re-applies the most recently undone snapshot.
func (h *History) Redo(apply Applier) error {
	h.mu.Lock()
	if h.restoring {
		h.mu.Unlock()
		return ErrRestoring
	}
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}

	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.restoring = true
	h.mu.Unlock()

	err := apply(entry.HTML)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.restoring = false
	if err != nil {
		h.redoStack = append(h.redoStack, entry)
		return fmt.Errorf("redo: %w", err)
	}
	h.undoStack = append(h.undoStack, entry)
	if len(h.undoStack) > h.maxEntries {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxEntries:]
	}
	return nil
}

// Restoring reports whether an undo or redo is being applied.
func (h *History) Restoring() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.restoring
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 1
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of entries on the undo stack, including the
// entry holding the current state.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Current returns the entry at the top of the undo stack.
func (h *History) Current() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undoStack) == 0 {
		return Entry{}, false
	}
	return h.undoStack[len(h.undoStack)-1], true
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
}

// UndoInfo returns info about the undo stack, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.undoStack)
}

// RedoInfo returns info about the redo stack, oldest first.
func (h *History) RedoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.redoStack)
}

func infos(entries []Entry) []OperationInfo {
	result := make([]OperationInfo, len(entries))
	for i, e := range entries {
		result[i] = OperationInfo{
			Description: e.Label,
			Timestamp:   e.Timestamp,
			Size:        len(e.HTML),
		}
	}
	return result
}

// SetMaxEntries changes the stack cap.
// If the current stacks are larger, oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max

	if len(h.undoStack) > max {
		h.undoStack = h.undoStack[len(h.undoStack)-max:]
	}
	if len(h.redoStack) > max {
		h.redoStack = h.redoStack[len(h.redoStack)-max:]
	}
}

// MaxEntries returns the stack cap.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
