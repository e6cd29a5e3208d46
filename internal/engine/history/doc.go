// Package history provides snapshot-based undo/redo for the document.
//
// Every committed edit stores the serialized document HTML. The top of the
// undo stack is always the current state, so undo moves that entry to the
// redo stack and restores the entry beneath it:
//
//	h := history.New(100)
//	h.Reset(doc.HTML())        // baseline
//	h.Snapshot(doc.HTML(), "Insert table")
//
//	h.Undo(doc.SetHTML)        // back to the baseline
//	h.Redo(doc.SetHTML)        // forward again
//
// # Bounds
//
// Both stacks are capped (100 entries by default). When the cap is exceeded
// the oldest entries are discarded and become unreachable by undo.
//
// # Reentrancy
//
// Restoring a snapshot mutates the document, and those mutations run through
// the same commit path as user edits. While an undo or redo is being applied
// the History refuses new snapshots, so restoration never pollutes history.
package history
