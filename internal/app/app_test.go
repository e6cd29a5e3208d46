package app

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/richedit/internal/theme"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	if opts.ConfigPath == "" {
		opts.ConfigPath = filepath.Join(t.TempDir(), "absent.toml")
	}
	opts.LogWriter = io.Discard
	app, err := New(context.Background(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestNewAppliesConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "richedit.toml", "[history]\nmaxEntries = 3\n[theme]\nscheme = \"dark\"\n")

	app := newTestApp(t, Options{ConfigPath: cfg, Content: "<p>x</p>"})

	if app.probe.Scheme() != theme.Dark {
		t.Errorf("scheme = %v, want dark", app.probe.Scheme())
	}
	if got := app.Config().History().MaxEntries; got != 3 {
		t.Errorf("maxEntries = %d", got)
	}
	if got := app.HTML(); got != "<p>x</p>" {
		t.Errorf("HTML() = %q", got)
	}
	if app.Dispatcher().Registry().Count() == 0 {
		t.Error("no commands registered")
	}
}

func TestInvalidOverride(t *testing.T) {
	_, err := New(context.Background(), Options{
		ConfigPath: filepath.Join(t.TempDir(), "absent.toml"),
		Overrides:  map[string]any{"theme.scheme": "sepia"},
		LogWriter:  io.Discard,
	})
	var ierr *InitError
	if !errors.As(err, &ierr) || ierr.Component != "config" {
		t.Fatalf("err = %v, want config InitError", err)
	}
}

func TestServeStdio(t *testing.T) {
	app := newTestApp(t, Options{Content: "<p>a</p>"})

	in := strings.NewReader(
		`{"id":1,"command":"insertTable","args":{"rows":2,"cols":2}}` + "\n" +
			`{"id":2,"command":"getState"}` + "\n")
	var out bytes.Buffer
	if err := app.ServeStdio(context.Background(), in, &out); err != nil {
		t.Fatalf("ServeStdio: %v", err)
	}

	replies := map[int64]gjson.Result{}
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		msg := gjson.Parse(sc.Text())
		if msg.Get("id").Exists() {
			replies[msg.Get("id").Int()] = msg
		}
	}
	if !replies[1].Get("ok").Bool() {
		t.Errorf("insertTable reply = %s", replies[1].Raw)
	}
	if got := replies[2].Get("result.active.rows").Int(); got != 2 {
		t.Errorf("getState reply = %s", replies[2].Raw)
	}
	if app.Dispatcher().Metrics().TotalDispatches() != 2 {
		t.Errorf("dispatches = %d", app.Dispatcher().Metrics().TotalDispatches())
	}
}

func TestServeWithoutListenUsesStdio(t *testing.T) {
	app := newTestApp(t, Options{})
	var out bytes.Buffer
	if err := app.Serve(context.Background(), strings.NewReader(`{"id":"a","command":"getHTML"}`), &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if gjson.Get(out.String(), "id").Str != "a" {
		t.Errorf("out = %s", out.String())
	}
	if err := app.ServeWebSocket(context.Background()); err == nil {
		t.Error("ServeWebSocket without an address should fail")
	}
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "edit.lua", `
		local r = editor.command("insertTextBox")
		assert(r.ok, r.error)
	`)
	app := newTestApp(t, Options{Content: "<p>a</p>"})

	if err := app.RunScript(context.Background(), path); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if !strings.Contains(app.HTML(), `data-object="textbox"`) {
		t.Errorf("HTML() = %s", app.HTML())
	}

	bad := writeFile(t, dir, "bad.lua", `error("nope")`)
	if err := app.RunScript(context.Background(), bad); err == nil {
		t.Error("a failing script should return an error")
	}
}

func TestAlreadyRunning(t *testing.T) {
	app := newTestApp(t, Options{})
	pr, pw := io.Pipe()

	done := make(chan error, 1)
	go func() { done <- app.ServeStdio(context.Background(), pr, io.Discard) }()

	deadline := time.Now().Add(2 * time.Second)
	for !app.running.Load() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if err := app.RunScript(context.Background(), "unused.lua"); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("RunScript = %v, want ErrAlreadyRunning", err)
	}

	_ = pw.Close()
	if err := <-done; err != nil {
		t.Errorf("ServeStdio = %v", err)
	}
}

func TestPreferenceFileSwitchesScheme(t *testing.T) {
	dir := t.TempDir()
	pref := writeFile(t, dir, "scheme", "light")
	cfg := writeFile(t, dir, "richedit.toml",
		"[theme]\nscheme = \"auto\"\npreferenceFile = \""+filepath.ToSlash(pref)+"\"\n")

	app := newTestApp(t, Options{ConfigPath: cfg})
	if app.watcher == nil {
		t.Fatal("auto scheme with a preference file should start a watcher")
	}

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- app.ServeStdio(context.Background(), pr, io.Discard) }()

	// Let the watcher report the initial file before changing it.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "scheme", "dark")

	deadline := time.Now().Add(3 * time.Second)
	for app.probe.Scheme() != theme.Dark && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if app.probe.Scheme() != theme.Dark {
		t.Error("scheme did not follow the preference file")
	}

	_ = pw.Close()
	if err := <-done; err != nil {
		t.Errorf("ServeStdio = %v", err)
	}
}

func TestClose(t *testing.T) {
	app := newTestApp(t, Options{})
	if err := app.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := app.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := app.ServeStdio(context.Background(), strings.NewReader(""), io.Discard); !errors.Is(err, ErrClosed) {
		t.Errorf("ServeStdio after Close = %v", err)
	}
}
