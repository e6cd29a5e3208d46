package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/richedit/internal/dispatcher/handler"
)

// Request is a decoded host command.
type Request struct {
	// ID is the raw JSON id, echoed verbatim in the reply. It may be empty.
	ID   string
	Name string
	Args gjson.Result
}

// DecodeRequest parses a command message.
func DecodeRequest(data []byte) (Request, error) {
	if !gjson.ValidBytes(data) {
		return Request{}, fmt.Errorf("%w: invalid JSON", ErrMalformedRequest)
	}
	msg := gjson.ParseBytes(data)
	if !msg.IsObject() {
		return Request{}, fmt.Errorf("%w: expected an object", ErrMalformedRequest)
	}

	req := Request{Args: msg.Get("args")}
	if id := msg.Get("id"); id.Exists() {
		req.ID = id.Raw
	}
	cmd := msg.Get("command")
	if cmd.Type != gjson.String || cmd.Str == "" {
		return req, fmt.Errorf("%w: missing command", ErrMalformedRequest)
	}
	req.Name = cmd.Str
	if req.Args.Exists() && !req.Args.IsObject() && req.Args.Type != gjson.Null {
		return req, fmt.Errorf("%w: args must be an object", ErrInvalidArgs)
	}
	return req, nil
}

// Command converts the request for dispatch.
func (r Request) Command() handler.Command {
	return handler.Command{Name: r.Name, Args: r.Args}
}

// EncodeReply builds the reply to the request with the given id.
func EncodeReply(id string, result handler.Result) ([]byte, error) {
	out := []byte(`{}`)
	var err error
	if id != "" {
		if out, err = sjson.SetRawBytes(out, "id", []byte(id)); err != nil {
			return nil, err
		}
	}

	switch result.Status {
	case handler.StatusOK:
		out, err = sjson.SetBytes(out, "ok", true)
		if err == nil && result.Data != nil {
			out, err = setValue(out, "result", result.Data)
		}
	case handler.StatusNoOp:
		out, err = sjson.SetBytes(out, "ok", true)
		if err == nil {
			out, err = sjson.SetBytes(out, "noop", true)
		}
		if err == nil && result.Error != nil {
			out, err = sjson.SetBytes(out, "reason", result.Error.Error())
		}
	default:
		out, err = sjson.SetBytes(out, "ok", false)
		if err == nil {
			out, err = sjson.SetBytes(out, "error", failure(result))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("encode reply: %w", err)
	}
	return out, nil
}

// EncodeError builds an error reply for a request that could not be
// dispatched.
func EncodeError(id string, err error) ([]byte, error) {
	return EncodeReply(id, handler.Error(err))
}

func failure(r handler.Result) string {
	switch {
	case r.Error != nil:
		return r.Error.Error()
	case r.Message != "":
		return r.Message
	}
	return r.Status.String()
}

// EncodeEvent builds an event message. The payload's fields are merged
// next to the "event" key.
func EncodeEvent(name string, payload any) ([]byte, error) {
	out, err := sjson.SetBytes([]byte(`{}`), "event", name)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return out, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", name, err)
	}
	fields := gjson.ParseBytes(raw)
	if !fields.IsObject() {
		return setValue(out, "payload", payload)
	}
	fields.ForEach(func(key, value gjson.Result) bool {
		if key.Str == "event" {
			return true
		}
		out, err = sjson.SetRawBytes(out, escapeKey(key.Str), []byte(value.Raw))
		return err == nil
	})
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", name, err)
	}
	return out, nil
}

func setValue(out []byte, path string, v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return sjson.SetRawBytes(out, path, raw)
}

// escapeKey escapes sjson path metacharacters in a literal key.
func escapeKey(k string) string {
	var b []byte
	for i := 0; i < len(k); i++ {
		switch c := k[i]; c {
		case '.', '*', '?', '|', '#', '@', '\\', ':', '!':
			b = append(b, '\\', c)
		default:
			b = append(b, c)
		}
	}
	return string(b)
}
