// Package bridge connects a host shell to an editor.
//
// Hosts send one JSON object per message:
//
//	{"id": 1, "command": "insertTable", "args": {"rows": 3, "cols": 3}}
//
// and receive a reply carrying the same id:
//
//	{"id": 1, "ok": true, "result": ...}
//	{"id": 1, "ok": true, "noop": true, "reason": "no active object"}
//	{"id": 1, "ok": false, "error": "invalid arguments: mode is required"}
//
// Editor notifications are pushed as event messages, for example
// {"event": "objectSelected", "kind": "table", "props": {...}}. Events
// raised while a command runs are sent before that command's reply.
//
// A Session serializes every command and theme change through one mutex.
// Transports (JSON lines over a stream, or WebSocket text frames) attach to
// a session as event sinks and feed it requests.
package bridge
