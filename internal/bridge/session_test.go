package bridge

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/richedit/internal/editor"
	"github.com/dshills/richedit/internal/theme"
)

func newTestSession(t *testing.T, content string, log zerolog.Logger) *Session {
	t.Helper()
	ed, err := editor.New(content, editor.Options{Logger: log})
	require.NoError(t, err)
	t.Cleanup(ed.Close)

	s, err := NewSession(ed, nil, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type collector struct {
	mu   sync.Mutex
	msgs []gjson.Result
}

func (c *collector) Send(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, gjson.ParseBytes(msg))
	return nil
}

func (c *collector) events() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var names []string
	for _, m := range c.msgs {
		names = append(names, m.Get("event").String())
	}
	return names
}

func TestSessionHandle(t *testing.T) {
	s := newTestSession(t, "<p>a</p>", zerolog.Nop())
	ctx := context.Background()

	reply := gjson.ParseBytes(s.Handle(ctx, []byte(`{"id":1,"command":"getHTML"}`)))
	assert.Equal(t, int64(1), reply.Get("id").Int())
	assert.True(t, reply.Get("ok").Bool())
	assert.Equal(t, "<p>a</p>", reply.Get("result").String())

	reply = gjson.ParseBytes(s.Handle(ctx, []byte(`{"id":2,"command":"addRow"}`)))
	assert.True(t, reply.Get("ok").Bool())
	assert.True(t, reply.Get("noop").Bool())

	reply = gjson.ParseBytes(s.Handle(ctx, []byte(`{"id":3,"command":"teleport"}`)))
	assert.False(t, reply.Get("ok").Bool())
	assert.Contains(t, reply.Get("error").String(), "unknown command")

	reply = gjson.ParseBytes(s.Handle(ctx, []byte(`{{{`)))
	assert.False(t, reply.Get("ok").Bool())
	assert.False(t, reply.Get("id").Exists())

	assert.Equal(t, uint64(3), s.Requests())
}

func TestSessionForwardsEvents(t *testing.T) {
	s := newTestSession(t, "<p>a</p>", zerolog.Nop())
	c := &collector{}
	detach := s.Attach(c)

	reply := gjson.ParseBytes(s.Handle(context.Background(), []byte(`{"id":1,"command":"insertTable","args":{"rows":3,"cols":3,"hasHeader":true,"borderWidth":1,"width":"100%"}}`)))
	require.True(t, reply.Get("ok").Bool(), reply.Raw)

	names := c.events()
	assert.Contains(t, names, "objectSelected")
	assert.Contains(t, names, "contentChanged")

	c.mu.Lock()
	var selected gjson.Result
	for _, m := range c.msgs {
		if m.Get("event").String() == "objectSelected" {
			selected = m
		}
	}
	c.mu.Unlock()
	assert.Equal(t, "table", selected.Get("kind").String())
	assert.Equal(t, int64(3), selected.Get("props.rows").Int())

	detach()
	before := len(c.events())
	s.Handle(context.Background(), []byte(`{"id":2,"command":"deleteObject"}`))
	assert.Len(t, c.events(), before, "detached sink must not receive events")
}

func TestSessionWarnsWithoutSinks(t *testing.T) {
	var buf bytes.Buffer
	s := newTestSession(t, "<p>a</p>", zerolog.New(&buf))

	reply := gjson.ParseBytes(s.Handle(context.Background(), []byte(`{"id":1,"command":"insertTextBox"}`)))
	assert.True(t, reply.Get("ok").Bool())
	assert.Contains(t, buf.String(), "notification not delivered: no subscriber")
}

func TestSessionSerializesCommands(t *testing.T) {
	s := newTestSession(t, "<p>a</p>", zerolog.Nop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				s.Handle(ctx, []byte(`{"command":"keyDown","args":{"key":"Tab"}}`))
			}
		}()
	}
	wg.Wait()

	state := gjson.ParseBytes(s.Handle(ctx, []byte(`{"id":1,"command":"getState"}`)))
	assert.Equal(t, int64(81), state.Get("result.undoCount").Int())
	assert.Equal(t, 80, strings.Count(state.Get("result.html").String(), "editor-tab"))
}

func TestSessionSetScheme(t *testing.T) {
	s := newTestSession(t, "<p>a</p>", zerolog.Nop())
	assert.True(t, s.SetScheme(theme.Dark))
	assert.False(t, s.SetScheme(theme.Dark))

	state := gjson.ParseBytes(s.Handle(context.Background(), []byte(`{"id":1,"command":"getState"}`)))
	assert.Equal(t, "dark", state.Get("result.scheme").String())
}

func TestSessionClose(t *testing.T) {
	s := newTestSession(t, "<p>a</p>", zerolog.Nop())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	reply := gjson.ParseBytes(s.Handle(context.Background(), []byte(`{"id":1,"command":"getHTML"}`)))
	assert.False(t, reply.Get("ok").Bool())
	assert.Equal(t, ErrClosed.Error(), reply.Get("error").String())
}

func TestSessionCancelledContext(t *testing.T) {
	s := newTestSession(t, "<p>a</p>", zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reply := gjson.ParseBytes(s.Handle(ctx, []byte(`{"id":1,"command":"getHTML"}`)))
	assert.False(t, reply.Get("ok").Bool())
	assert.Equal(t, context.Canceled.Error(), reply.Get("error").String())
}
