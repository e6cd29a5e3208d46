package bridge

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func dialTestServer(t *testing.T, s *Session) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(NewWebSocketServer(s, zerolog.Nop()))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntilReply reads messages until the reply with id arrives and returns
// the events seen before it.
func readUntilReply(t *testing.T, conn *websocket.Conn, id int64) (gjson.Result, []string) {
	t.Helper()
	var events []string
	for {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		msg := gjson.ParseBytes(data)
		if name := msg.Get("event"); name.Exists() {
			events = append(events, name.String())
			continue
		}
		if msg.Get("id").Int() == id {
			return msg, events
		}
	}
}

func TestWebSocketRoundTrip(t *testing.T) {
	s := newTestSession(t, "<p>a</p>", zerolog.Nop())
	conn := dialTestServer(t, s)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"id":1,"command":"insertTextBox"}`)))
	reply, events := readUntilReply(t, conn, 1)
	assert.True(t, reply.Get("ok").Bool(), reply.Raw)
	assert.Contains(t, events, "objectSelected")
	assert.Contains(t, events, "contentChanged")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"id":2,"command":"deleteObject"}`)))
	reply, events = readUntilReply(t, conn, 2)
	assert.True(t, reply.Get("ok").Bool())
	assert.Equal(t, []string{"objectDeselected", "objectDeleted", "contentChanged"}, events)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"id":3,"command":"getHTML"}`)))
	reply, _ = readUntilReply(t, conn, 3)
	assert.Equal(t, "<p>a</p>", reply.Get("result").String())
}

func TestWebSocketBroadcastsEvents(t *testing.T) {
	s := newTestSession(t, "<p>a</p>", zerolog.Nop())
	a := dialTestServer(t, s)
	b := dialTestServer(t, s)

	// A reply proves the server side of b is attached.
	require.NoError(t, b.WriteMessage(websocket.TextMessage, []byte(`{"id":1,"command":"getHTML"}`)))
	_, _ = readUntilReply(t, b, 1)

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(`{"id":1,"command":"keyDown","args":{"key":"Tab"}}`)))
	_, _ = readUntilReply(t, a, 1)

	require.NoError(t, b.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := b.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "contentChanged", gjson.GetBytes(data, "event").String())
}
