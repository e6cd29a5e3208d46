// Package app wires the richedit components together and runs them.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/dshills/richedit/internal/bridge"
	"github.com/dshills/richedit/internal/config"
	"github.com/dshills/richedit/internal/dispatcher"
	"github.com/dshills/richedit/internal/dispatcher/handlers/document"
	"github.com/dshills/richedit/internal/editor"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/logging"
	"github.com/dshills/richedit/internal/script"
	"github.com/dshills/richedit/internal/theme"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty uses config.DefaultFile.
	ConfigPath string

	// Content is the initial document HTML.
	Content string

	// Overrides are applied after every config source, e.g. from flags.
	Overrides map[string]any

	// LogWriter receives log output when no log file is configured.
	// Defaults to stderr.
	LogWriter io.Writer
}

// Application owns one editor and the session that serves it.
type Application struct {
	mu sync.Mutex

	opts   Options
	config *config.Config
	logger *logging.Logger
	log    zerolog.Logger

	bus        *event.Bus
	probe      *theme.Probe
	editor     *editor.Editor
	dispatcher *dispatcher.Dispatcher
	session    *bridge.Session
	watcher    *theme.PreferenceWatcher

	running atomic.Bool
	closed  atomic.Bool
}

// New creates an application and starts its components in dependency
// order.
func New(ctx context.Context, opts Options) (*Application, error) {
	if opts.LogWriter == nil {
		opts.LogWriter = os.Stderr
	}
	app := &Application{opts: opts}
	if err := app.bootstrap(ctx); err != nil {
		app.shutdown()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap(ctx context.Context) error {
	// 1. Config
	path := app.opts.ConfigPath
	if path == "" {
		path = config.DefaultFile()
	}
	app.config = config.New(config.WithFile(path))
	for key, value := range app.opts.Overrides {
		if err := app.config.Set(key, value); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}
	if err := app.config.Load(ctx); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	// 2. Logger
	lc := app.config.Log()
	logger, err := logging.New().
		ToWriter(app.opts.LogWriter).
		ToFile(lc.File).
		Rotation(lc.MaxSizeMB, lc.MaxBackups).
		Level(lc.Level).
		Make()
	if err != nil {
		return &InitError{Component: "logger", Err: err}
	}
	app.logger = logger
	app.log = logger.With().Str("component", "app").Logger()
	app.log.Debug().Strs("sources", app.config.Sources()).Msg("configuration loaded")

	// 3. Event bus and theme probe
	app.bus = event.NewBus()
	tc := app.config.Theme()
	app.probe = theme.NewProbe(tc.Initial(), app.bus)

	// 4. Editor
	app.editor, err = editor.New(app.opts.Content, editor.Options{
		HistoryLimit:     app.config.History().MaxEntries,
		ReorderThreshold: app.config.Drag().ReorderThreshold,
		MinWidth:         app.config.Resize().MinWidth,
		ShadowIntensity:  app.config.Shadow().DefaultIntensity,
		Bus:              app.bus,
		Probe:            app.probe,
		Logger:           logger.Logger,
	})
	if err != nil {
		return &InitError{Component: "editor", Err: err}
	}

	// 5. Dispatcher
	app.dispatcher = dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	app.dispatcher.SetLogger(logger.Logger)
	if app.log.GetLevel() <= zerolog.DebugLevel {
		hook := dispatcher.NewLoggingHook(logger.Logger)
		app.dispatcher.RegisterPreHook(hook)
		app.dispatcher.RegisterPostHook(hook)
	}
	document.Register(app.dispatcher)

	// 6. Bridge session
	app.session, err = bridge.NewSession(app.editor, app.dispatcher, logger.Logger)
	if err != nil {
		return &InitError{Component: "bridge", Err: err}
	}

	// 7. Preference watcher
	if tc.Watch() {
		app.watcher, err = theme.NewPreferenceWatcher(tc.PreferenceFile, app.onScheme,
			theme.WithLogger(logger.Logger))
		if err != nil {
			return &InitError{Component: "theme watcher", Err: err}
		}
	}

	app.log.Info().
		Str("scheme", app.probe.Scheme().String()).
		Int("commands", app.dispatcher.Registry().Count()).
		Msg("richedit started")
	return nil
}

func (app *Application) onScheme(s theme.Scheme) {
	if app.closed.Load() {
		return
	}
	app.session.SetScheme(s)
}

// Config returns the loaded configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() zerolog.Logger {
	return app.logger.Logger
}

// Session returns the bridge session.
func (app *Application) Session() *bridge.Session {
	return app.session
}

// Dispatcher returns the command dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// HTML returns the current clean document HTML.
func (app *Application) HTML() string {
	var html string
	app.session.Apply(func(ed *editor.Editor) {
		html = ed.GetHTML()
	})
	return html
}

// ServeStdio serves newline-delimited JSON on r and w until EOF or ctx is
// cancelled.
func (app *Application) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	return app.serve(ctx, func(ctx context.Context) error {
		t := bridge.NewStreamTransport(app.session, r, w)
		defer t.Close()
		return t.Serve(ctx)
	})
}

// ServeWebSocket serves the WebSocket bridge on the configured address
// until ctx is cancelled.
func (app *Application) ServeWebSocket(ctx context.Context) error {
	bc := app.config.Bridge()
	if bc.Listen == "" {
		return fmt.Errorf("serve websocket: %w: bridge.listen is empty", config.ErrSettingNotFound)
	}
	return app.serve(ctx, func(ctx context.Context) error {
		srv := bridge.NewWebSocketServer(app.session, app.logger.Logger,
			bridge.WithAllowedOrigins(bc.AllowedOrigins...))
		return srv.ListenAndServe(ctx, bc.Listen, bc.Path)
	})
}

// Serve picks the WebSocket transport when bridge.listen is set and stdio
// otherwise.
func (app *Application) Serve(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if app.config.Bridge().Listen != "" {
		return app.ServeWebSocket(ctx)
	}
	return app.ServeStdio(ctx, stdin, stdout)
}

// RunScript runs a Lua script file against the document.
func (app *Application) RunScript(ctx context.Context, path string) error {
	return app.serve(ctx, func(ctx context.Context) error {
		host := script.NewHost(app.session, app.logger.Logger,
			script.WithExecutionTimeout(app.config.Script().Timeout))
		defer host.Close()
		return host.RunFile(ctx, path)
	})
}

// serve runs fn with the preference watcher alongside it.
func (app *Application) serve(ctx context.Context, fn func(context.Context) error) error {
	if app.closed.Load() {
		return ErrClosed
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if app.watcher != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := app.watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				app.log.Warn().Err(err).Msg("preference watcher stopped")
			}
		}()
	}

	err := fn(ctx)
	cancel()
	wg.Wait()
	return err
}

// Close shuts the components down in reverse order. It is safe to call
// more than once.
func (app *Application) Close() error {
	if app.closed.Swap(true) {
		return nil
	}
	app.logStats()
	return app.shutdown()
}

func (app *Application) logStats() {
	m := app.dispatcher.Metrics()
	if m == nil {
		return
	}
	ev := app.log.Info().
		Uint64("dispatches", m.TotalDispatches()).
		Uint64("errors", m.TotalErrors()).
		Uint64("noops", m.TotalNoOps()).
		Dur("avg", m.AverageDuration())
	if top := m.TopCommands(1); len(top) == 1 {
		ev = ev.Str("top", top[0].Name)
	}
	ev.Msg("richedit stopped")
}

func (app *Application) shutdown() error {
	app.mu.Lock()
	defer app.mu.Unlock()

	var errs []error
	if app.watcher != nil {
		errs = append(errs, app.watcher.Close())
		app.watcher = nil
	}
	if app.session != nil {
		errs = append(errs, app.session.Close())
	}
	if app.editor != nil {
		app.editor.Close()
	}
	if app.logger != nil {
		errs = append(errs, app.logger.Close())
	}
	return errors.Join(errs...)
}
