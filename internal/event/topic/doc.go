// Package topic provides hierarchical topic names and wildcard matching for
// the event bus.
//
// Topics use dot notation:
//
//	editor.content.changed
//	editor.object.selected
//
// Two wildcards are supported in subscription patterns:
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// Examples:
//
//	editor.object.*   matches editor.object.selected, editor.object.deleted
//	editor.**         matches every editor topic
//	**                matches everything
package topic
