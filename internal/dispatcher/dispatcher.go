// Package dispatcher routes host commands to handlers and coordinates execution.
package dispatcher

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/richedit/internal/dispatcher/execctx"
	"github.com/dshills/richedit/internal/dispatcher/handler"
)

// Dispatcher routes commands to handlers and coordinates execution.
type Dispatcher struct {
	mu sync.RWMutex

	registry *Registry
	config   Config
	metrics  *Metrics
	log      zerolog.Logger

	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// New creates a new dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		config:   config,
		log:      zerolog.Nop(),
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// SetLogger sets the logger used for panics and slow commands.
func (d *Dispatcher) SetLogger(l zerolog.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log = l.With().Str("component", "dispatcher").Logger()
}

// Dispatch executes a command synchronously.
func (d *Dispatcher) Dispatch(cmd handler.Command, ctx *execctx.ExecutionContext) handler.Result {
	startTime := time.Now()
	if ctx == nil {
		ctx = execctx.New(nil)
	}
	ctx.Command = cmd.Name
	ctx.StartTime = startTime

	if !d.runPreHooks(&cmd, ctx) {
		return handler.CancelledWithMessage("cancelled by hook")
	}

	h := d.registry.Get(cmd.Name)
	if h == nil {
		return handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, cmd.Name))
	}

	var result handler.Result
	if d.config.RecoverFromPanic {
		result = d.executeWithRecovery(h, cmd, ctx)
	} else {
		result = h.Handle(cmd, ctx)
	}

	d.runPostHooks(&cmd, ctx, &result)

	elapsed := time.Since(startTime)
	if d.metrics != nil {
		d.metrics.RecordDispatch(cmd.Name, elapsed, result.Status)
	}
	if d.config.SlowCommandThreshold > 0 && elapsed > d.config.SlowCommandThreshold {
		d.logger().Warn().Str("command", cmd.Name).Dur("elapsed", elapsed).Msg("slow command")
	}
	return result
}

// executeWithRecovery executes a handler with panic recovery.
func (d *Dispatcher) executeWithRecovery(h handler.Handler, cmd handler.Command, ctx *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			d.logger().Error().
				Str("command", cmd.Name).
				Interface("panic", r).
				Str("stack", string(stack[:n])).
				Msg("handler panic")
			result = handler.Error(fmt.Errorf("%w: %s: %v", ErrPanic, cmd.Name, r))

			if d.metrics != nil {
				d.metrics.RecordPanic(cmd.Name)
			}
		}
	}()

	return h.Handle(cmd, ctx)
}

func (d *Dispatcher) logger() *zerolog.Logger {
	d.mu.RLock()
	defer d.mu.RUnlock()
	l := d.log
	return &l
}

// RegisterHandler registers a handler for an exact command name.
func (d *Dispatcher) RegisterHandler(name string, h handler.Handler) {
	d.registry.Register(name, h)
}

// RegisterHandlerFunc registers a handler function for a command name.
func (d *Dispatcher) RegisterHandlerFunc(name string, fn func(handler.Command, *execctx.ExecutionContext) handler.Result) {
	d.registry.Register(name, handler.NewHandlerFunc(fn))
}

// RegisterGroup registers every command of a group handler.
func (d *Dispatcher) RegisterGroup(g handler.GroupHandler) {
	h := handler.NewGroupAdapter(g)
	for _, name := range g.Commands() {
		d.registry.Register(name, h)
	}
}

// UnregisterHandler removes the handlers for a command name.
func (d *Dispatcher) UnregisterHandler(name string) {
	d.registry.Unregister(name)
}

// RegisterPreHook registers a pre-dispatch hook.
func (d *Dispatcher) RegisterPreHook(hook PreDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preHooks = append(d.preHooks, hook)
}

// RegisterPostHook registers a post-dispatch hook.
func (d *Dispatcher) RegisterPostHook(hook PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, hook)
}

// runPreHooks runs all pre-dispatch hooks.
// Returns false if any hook cancels the command.
func (d *Dispatcher) runPreHooks(cmd *handler.Command, ctx *execctx.ExecutionContext) bool {
	d.mu.RLock()
	hooks := make([]PreDispatchHook, len(d.preHooks))
	copy(hooks, d.preHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreDispatch(cmd, ctx) {
			return false
		}
	}
	return true
}

// runPostHooks runs all post-dispatch hooks.
func (d *Dispatcher) runPostHooks(cmd *handler.Command, ctx *execctx.ExecutionContext, result *handler.Result) {
	d.mu.RLock()
	hooks := make([]PostDispatchHook, len(d.postHooks))
	copy(hooks, d.postHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(cmd, ctx, result)
	}
}

// Registry returns the handler registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Metrics returns the metrics collector (may be nil if disabled).
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}
