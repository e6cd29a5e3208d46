package history

import (
	"errors"
	"fmt"
	"testing"
)

// doc is a stand-in document whose content is a single string.
type doc struct {
	html    string
	applied int
}

func (d *doc) set(html string) error {
	d.html = html
	d.applied++
	return nil
}

func TestNewDefaults(t *testing.T) {
	h := New(0)
	if h.MaxEntries() != DefaultMaxEntries {
		t.Errorf("MaxEntries() = %d, want %d", h.MaxEntries(), DefaultMaxEntries)
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("fresh history should have nothing to undo or redo")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	h := New(10)
	d := &doc{html: "<p>a</p>"}
	h.Reset(d.html)

	d.html = "<p>ab</p>"
	h.Snapshot(d.html, "type")

	if err := h.Undo(d.set); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if d.html != "<p>a</p>" {
		t.Errorf("after undo got %q", d.html)
	}
	if !h.CanRedo() {
		t.Error("redo should be available after undo")
	}

	if err := h.Redo(d.set); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if d.html != "<p>ab</p>" {
		t.Errorf("after redo got %q", d.html)
	}
}

func TestUndoPastBaseline(t *testing.T) {
	h := New(10)
	d := &doc{}
	h.Reset("<p><br/></p>")

	if err := h.Undo(d.set); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() error = %v, want ErrNothingToUndo", err)
	}
	if d.applied != 0 {
		t.Error("applier must not run when there is nothing to undo")
	}
	if err := h.Redo(d.set); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() error = %v, want ErrNothingToRedo", err)
	}
}

func TestSnapshotClearsRedo(t *testing.T) {
	h := New(10)
	d := &doc{}
	h.Reset("a")
	h.Snapshot("b", "")
	_ = h.Undo(d.set)

	h.Snapshot("c", "")
	if h.CanRedo() {
		t.Error("new snapshot should clear redo stack")
	}
}

func TestSnapshotDeduplicates(t *testing.T) {
	h := New(10)
	h.Reset("a")
	if h.Snapshot("a", "") {
		t.Error("identical snapshot should be ignored")
	}
	if !h.Snapshot("b", "") {
		t.Error("distinct snapshot should be recorded")
	}
	if got := h.UndoCount(); got != 2 {
		t.Errorf("UndoCount() = %d, want 2", got)
	}
}

func TestSnapshotSuppressedWhileRestoring(t *testing.T) {
	h := New(10)
	h.Reset("a")
	h.Snapshot("b", "")

	var inner bool
	err := h.Undo(func(html string) error {
		if !h.Restoring() {
			t.Error("Restoring() should be true inside the applier")
		}
		inner = h.Snapshot(html+"-echo", "echo")
		return nil
	})
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if inner {
		t.Error("snapshot during restore must be suppressed")
	}
	if h.Restoring() {
		t.Error("Restoring() should be false after undo returns")
	}
	cur, _ := h.Current()
	if cur.HTML != "a" {
		t.Errorf("current = %q, want %q", cur.HTML, "a")
	}
}

func TestUndoApplyFailureRestoresStack(t *testing.T) {
	h := New(10)
	h.Reset("a")
	h.Snapshot("b", "")

	boom := errors.New("boom")
	err := h.Undo(func(string) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Undo() error = %v, want wrapped boom", err)
	}
	cur, _ := h.Current()
	if cur.HTML != "b" {
		t.Errorf("failed undo should keep current state, got %q", cur.HTML)
	}
	if h.CanRedo() {
		t.Error("failed undo must not populate redo")
	}
}

func TestCapDiscardsOldest(t *testing.T) {
	h := New(100)
	d := &doc{}
	h.Reset("edit-0")
	for i := 1; i <= 150; i++ {
		h.Snapshot(fmt.Sprintf("edit-%d", i), "")
	}

	if got := h.UndoCount(); got != 100 {
		t.Fatalf("UndoCount() = %d, want 100", got)
	}

	for h.CanUndo() {
		if err := h.Undo(d.set); err != nil {
			t.Fatalf("Undo: %v", err)
		}
	}
	// 151 states were recorded, the cap keeps the newest 100: edit-51..edit-150.
	if d.html != "edit-51" {
		t.Errorf("oldest reachable state = %q, want edit-51", d.html)
	}
}

func TestSetMaxEntriesTrims(t *testing.T) {
	h := New(10)
	h.Reset("0")
	for i := 1; i < 10; i++ {
		h.Snapshot(fmt.Sprint(i), "")
	}
	h.SetMaxEntries(3)
	if got := h.UndoCount(); got != 3 {
		t.Errorf("UndoCount() = %d, want 3", got)
	}
	info := h.UndoInfo()
	if len(info) != 3 || info[2].Size != 1 {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestClear(t *testing.T) {
	h := New(10)
	h.Reset("a")
	h.Snapshot("b", "")
	h.Clear()
	if h.UndoCount() != 0 || h.RedoCount() != 0 {
		t.Error("Clear should empty both stacks")
	}
	if _, ok := h.Current(); ok {
		t.Error("Current() should report no entry after Clear")
	}
}
