package bridge

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait       = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// WebSocketServer serves a session to WebSocket clients. Every connection
// receives all events; replies go only to the connection that sent the
// request.
type WebSocketServer struct {
	session  *Session
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// WebSocketOption configures a WebSocketServer.
type WebSocketOption func(*WebSocketServer)

// WithAllowedOrigins accepts handshakes from the listed origins in addition
// to same-origin requests.
func WithAllowedOrigins(origins ...string) WebSocketOption {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(w *WebSocketServer) {
		w.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed["*"] || allowed[origin] || origin == "http://"+r.Host
		}
	}
}

// NewWebSocketServer creates a server for s.
func NewWebSocketServer(s *Session, log zerolog.Logger, opts ...WebSocketOption) *WebSocketServer {
	w := &WebSocketServer{
		session: s,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
		},
		log: log.With().Str("component", "websocket").Logger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// wsConn serializes writes to one connection; gorilla connections support
// a single concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) Send(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// ServeHTTP upgrades the request and serves commands until the client
// disconnects.
func (w *WebSocketServer) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	conn, err := w.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		w.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	c := &wsConn{conn: conn}
	detach := w.session.Attach(c)
	defer detach()

	w.log.Info().Str("remote", r.RemoteAddr).Msg("client connected")
	ctx := r.Context()
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				w.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("client read failed")
			}
			w.log.Info().Str("remote", r.RemoteAddr).Msg("client disconnected")
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}
		if err := c.Send(w.session.Handle(ctx, data)); err != nil {
			w.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("write reply failed")
			return
		}
	}
}

// ListenAndServe serves the WebSocket endpoint at path on addr until ctx is
// cancelled.
func (w *WebSocketServer) ListenAndServe(ctx context.Context, addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, w)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		w.log.Info().Str("addr", addr).Str("path", path).Msg("websocket bridge listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
