package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func TestWriterOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := New().ToWriter(&buf).Level("warn").Make()
	if err != nil {
		t.Fatalf("Make: %v", err)
	}

	l.Info().Msg("hidden")
	l.Warn().Str("component", "bridge").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %q", lines)
	}
	entry := gjson.Parse(lines[0])
	if entry.Get("message").Str != "shown" || entry.Get("component").Str != "bridge" {
		t.Errorf("entry = %s", lines[0])
	}
	if !entry.Get("time").Exists() {
		t.Error("entries should carry a timestamp")
	}
	if l.Path() != "" {
		t.Errorf("Path() = %q", l.Path())
	}
}

func TestEmptyLevelMeansInfo(t *testing.T) {
	var buf bytes.Buffer
	l, err := New().ToWriter(&buf).Level("").Make()
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	l.Debug().Msg("hidden")
	l.Info().Msg("shown")
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("entries = %d, want 1", got)
	}
}

func TestInvalidLevel(t *testing.T) {
	if _, err := New().Level("loud").Make(); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := New().ToWriter(&buf).Console(true).Make()
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	l.Info().Msg("hello")
	if !strings.Contains(buf.String(), "hello") || strings.HasPrefix(buf.String(), "{") {
		t.Errorf("console output = %q", buf.String())
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "richedit.log")
	l, err := New().ToFile(path).Rotation(1, 1).Make()
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	l.Info().Msg("to file")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if gjson.GetBytes(data, "message").Str != "to file" {
		t.Errorf("file = %s", data)
	}
	if l.Path() != path {
		t.Errorf("Path() = %q", l.Path())
	}
}
