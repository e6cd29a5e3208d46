// Package script runs Lua automation scripts against a bridge session.
//
// Scripts see one global module, editor:
//
//	local r = editor.command("insertTable", {rows = 3, cols = 3, hasHeader = true})
//	if not r.ok then error(r.error) end
//
//	editor.on("objectSelected", function(ev)
//	    editor.log("selected " .. ev.kind)
//	end)
//
// editor.command sends a command through the same codec and dispatcher as
// the host transports and returns the decoded reply as a table with the
// fields ok, noop, reason, result and error. Event handlers registered with
// editor.on run after the command that raised the event, before
// editor.command returns.
//
// The runtime is sandboxed: only the base, table, string and math libraries
// are available, and file loading functions are removed.
package script
