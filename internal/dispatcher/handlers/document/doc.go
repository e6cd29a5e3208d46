// Package document provides the host command handlers for the editing
// engine. Each handler covers one group of commands (insertion, table
// structure, styling, document state, interaction) and decodes the JSON
// arguments of a command into a call on the editor.
//
// Editor sentinels that describe a locally recovered command (no active
// object, shape constraints, nothing to undo) become no-op results; bad
// arguments become error results wrapping ErrInvalidArgs.
package document
