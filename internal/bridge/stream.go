package bridge

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// maxMessageSize bounds one request line. Pasted documents and image data
// URLs can be large.
const maxMessageSize = 64 << 20

// StreamTransport serves a session over newline-delimited JSON, typically
// the process's stdin and stdout.
type StreamTransport struct {
	session *Session
	reader  *bufio.Reader
	writer  io.Writer

	mu     sync.Mutex
	closed atomic.Bool
}

// NewStreamTransport creates a transport reading requests from r and
// writing replies and events to w.
func NewStreamTransport(s *Session, r io.Reader, w io.Writer) *StreamTransport {
	return &StreamTransport{
		session: s,
		reader:  bufio.NewReaderSize(r, 64*1024),
		writer:  w,
	}
}

// Serve handles requests until the input ends or ctx is cancelled. Cancelling
// ctx takes effect before the next request is read.
func (t *StreamTransport) Serve(ctx context.Context) error {
	detach := t.session.Attach(SinkFunc(t.send))
	defer detach()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := t.readLine()
		if len(bytes.TrimSpace(line)) > 0 {
			reply := t.session.Handle(ctx, line)
			if werr := t.send(reply); werr != nil {
				return fmt.Errorf("write reply: %w", werr)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read request: %w", err)
		}
	}
}

func (t *StreamTransport) readLine() ([]byte, error) {
	var line []byte
	for {
		chunk, err := t.reader.ReadSlice('\n')
		line = append(line, chunk...)
		if len(line) > maxMessageSize {
			return nil, fmt.Errorf("%w: message exceeds %d bytes", ErrMalformedRequest, maxMessageSize)
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return line, err
	}
}

// send writes one message followed by a newline.
func (t *StreamTransport) send(msg []byte) error {
	if t.closed.Load() {
		return ErrClosed
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.writer.Write(msg); err != nil {
		return err
	}
	_, err := t.writer.Write([]byte{'\n'})
	return err
}

// Close stops further writes.
func (t *StreamTransport) Close() error {
	t.closed.Store(true)
	return nil
}
