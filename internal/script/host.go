package script

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/richedit/internal/bridge"
)

// anyEvent registers a handler for every event.
const anyEvent = "*"

// Host runs scripts against a bridge session.
type Host struct {
	state   *State
	session *bridge.Session
	log     zerolog.Logger

	handlers map[string][]*lua.LFunction
	nextID   int64
	detach   func()

	mu      sync.Mutex
	pending [][]byte
}

// NewHost creates a script host for session.
func NewHost(session *bridge.Session, log zerolog.Logger, opts ...StateOption) *Host {
	h := &Host{
		state:    NewState(opts...),
		session:  session,
		log:      log.With().Str("component", "script").Logger(),
		handlers: make(map[string][]*lua.LFunction),
	}
	h.state.RegisterModule("editor", map[string]lua.LGFunction{
		"command": h.luaCommand,
		"on":      h.luaOn,
		"log":     h.luaLog,
	})
	h.state.L.SetGlobal("print", h.state.L.NewFunction(h.luaLog))
	h.detach = session.Attach(bridge.SinkFunc(h.enqueue))
	return h
}

// RunString executes Lua source.
func (h *Host) RunString(ctx context.Context, code string) error {
	return h.state.DoString(ctx, code)
}

// RunFile executes a Lua script file.
func (h *Host) RunFile(ctx context.Context, path string) error {
	h.log.Debug().Str("path", path).Msg("running script")
	return h.state.DoFile(ctx, path)
}

// Close detaches the host from the session and releases the Lua state.
func (h *Host) Close() error {
	h.detach()
	return h.state.Close()
}

// enqueue stores an event until the running command returns.
func (h *Host) enqueue(msg []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = append(h.pending, append([]byte(nil), msg...))
	return nil
}

func (h *Host) takePending() [][]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	p := h.pending
	h.pending = nil
	return p
}

// drain delivers queued events to the registered Lua handlers.
func (h *Host) drain(L *lua.LState) {
	for {
		batch := h.takePending()
		if len(batch) == 0 {
			return
		}
		for _, msg := range batch {
			ev := gjson.ParseBytes(msg)
			name := ev.Get("event").Str
			fns := append(append([]*lua.LFunction(nil), h.handlers[name]...), h.handlers[anyEvent]...)
			for _, fn := range fns {
				L.Push(fn)
				L.Push(fromJSON(L, ev))
				L.Call(1, 0)
			}
		}
	}
}

// luaCommand implements editor.command(name [, args]).
func (h *Host) luaCommand(L *lua.LState) int {
	name := L.CheckString(1)
	args := L.OptTable(2, nil)

	h.nextID++
	req, err := sjson.SetBytes([]byte(`{}`), "id", h.nextID)
	if err == nil {
		req, err = sjson.SetBytes(req, "command", name)
	}
	if err == nil && args != nil {
		var raw []byte
		if raw, err = json.Marshal(toGo(args)); err == nil {
			req, err = sjson.SetRawBytes(req, "args", raw)
		}
	}
	if err != nil {
		L.RaiseError("editor.command %s: %v", name, err)
		return 0
	}

	ctx := L.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	reply := h.session.Handle(ctx, req)
	h.drain(L)

	L.Push(fromJSON(L, gjson.ParseBytes(reply)))
	return 1
}

// luaOn implements editor.on(event, fn). "*" matches every event.
func (h *Host) luaOn(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	h.handlers[name] = append(h.handlers[name], fn)
	return 0
}

// luaLog implements editor.log and print.
func (h *Host) luaLog(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	h.log.Info().Msg(strings.Join(parts, " "))
	return 0
}
