package dispatcher_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/richedit/internal/dispatcher"
	"github.com/dshills/richedit/internal/dispatcher/execctx"
	"github.com/dshills/richedit/internal/dispatcher/handler"
)

func echo(cmd handler.Command, ctx *execctx.ExecutionContext) handler.Result {
	return handler.SuccessWithData(cmd.Arg("value").String())
}

func TestNewWithDefaults(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	if d.Registry() == nil {
		t.Fatal("expected non-nil registry")
	}
	if d.Metrics() != nil {
		t.Error("metrics should be disabled by default")
	}
	if !d.Config().RecoverFromPanic {
		t.Error("panic recovery should be enabled by default")
	}
}

func TestDispatchRoutesByName(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.RegisterHandlerFunc("echo", echo)

	result := d.Dispatch(handler.NewCommand("echo", `{"value":"hi"}`), execctx.New(nil))
	if !result.IsOK() {
		t.Fatalf("status = %s, err = %v", result.Status, result.Error)
	}
	if result.Data != "hi" {
		t.Errorf("data = %v, want hi", result.Data)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	result := d.Dispatch(handler.NewCommand("frobnicate", ""), nil)
	if !result.IsError() || !errors.Is(result.Error, dispatcher.ErrNoHandler) {
		t.Fatalf("result = %+v, want ErrNoHandler", result)
	}
	if !strings.Contains(result.Error.Error(), "frobnicate") {
		t.Errorf("error %q should name the command", result.Error)
	}
}

func TestDispatchPriority(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.RegisterHandler("x", handler.NewHandlerFuncWithPriority(func(handler.Command, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithData("low")
	}, 1))
	d.RegisterHandler("x", handler.NewHandlerFuncWithPriority(func(handler.Command, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithData("high")
	}, 10))

	if got := d.Dispatch(handler.NewCommand("x", ""), nil).Data; got != "high" {
		t.Errorf("data = %v, want the higher priority handler", got)
	}

	d.UnregisterHandler("x")
	if d.Registry().Has("x") {
		t.Error("handlers should be removed")
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	d.RegisterHandlerFunc("boom", func(handler.Command, *execctx.ExecutionContext) handler.Result {
		panic("kaboom")
	})

	result := d.Dispatch(handler.NewCommand("boom", ""), nil)
	if !errors.Is(result.Error, dispatcher.ErrPanic) {
		t.Fatalf("error = %v, want ErrPanic", result.Error)
	}
	if d.Metrics().TotalPanics() != 1 {
		t.Errorf("panics = %d", d.Metrics().TotalPanics())
	}
}

func TestPreHookCancels(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	called := false
	d.RegisterHandlerFunc("echo", func(cmd handler.Command, ctx *execctx.ExecutionContext) handler.Result {
		called = true
		return handler.Success()
	})
	d.RegisterPreHook(dispatcher.PreDispatchFunc(func(cmd *handler.Command, ctx *execctx.ExecutionContext) bool {
		return cmd.Name != "echo"
	}))

	result := d.Dispatch(handler.NewCommand("echo", ""), nil)
	if result.Status != handler.StatusCancelled || called {
		t.Errorf("status = %s, handler called = %v", result.Status, called)
	}
}

func TestPostHookSeesResult(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.RegisterHandlerFunc("echo", echo)

	var seen []string
	d.RegisterPostHook(dispatcher.PostDispatchFunc(func(cmd *handler.Command, ctx *execctx.ExecutionContext, r *handler.Result) {
		seen = append(seen, ctx.Command+":"+r.Status.String())
		*r = r.WithMessage("seen")
	}))

	result := d.Dispatch(handler.NewCommand("echo", `{"value":"a"}`), nil)
	if len(seen) != 1 || seen[0] != "echo:ok" {
		t.Errorf("seen = %v", seen)
	}
	if result.Message != "seen" {
		t.Errorf("message = %q", result.Message)
	}
}

func TestRegisterGroup(t *testing.T) {
	g := handler.NewBaseGroupHandler("math")
	g.Register("double", func(cmd handler.Command, ctx *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithData(cmd.Arg("n").Int() * 2)
	})
	g.Register("negate", func(cmd handler.Command, ctx *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithData(-cmd.Arg("n").Int())
	})

	d := dispatcher.NewWithDefaults()
	d.RegisterGroup(g)

	if got := d.Registry().List(); len(got) != 2 || got[0] != "double" || got[1] != "negate" {
		t.Fatalf("commands = %v", got)
	}
	if got := d.Dispatch(handler.NewCommand("double", `{"n":21}`), nil).Data; got != int64(42) {
		t.Errorf("double = %v", got)
	}
	if got := d.Dispatch(handler.NewCommand("negate", `{"n":3}`), nil).Data; got != int64(-3) {
		t.Errorf("negate = %v", got)
	}
}

func TestMetricsCountOutcomes(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	d.RegisterHandlerFunc("ok", func(handler.Command, *execctx.ExecutionContext) handler.Result {
		return handler.Success()
	})
	d.RegisterHandlerFunc("skip", func(handler.Command, *execctx.ExecutionContext) handler.Result {
		return handler.NoOp()
	})
	d.RegisterHandlerFunc("fail", func(handler.Command, *execctx.ExecutionContext) handler.Result {
		return handler.Errorf("nope")
	})

	for _, name := range []string{"ok", "ok", "skip", "fail"} {
		d.Dispatch(handler.NewCommand(name, ""), nil)
	}

	m := d.Metrics()
	if m.TotalDispatches() != 4 || m.TotalErrors() != 1 || m.TotalNoOps() != 1 {
		t.Errorf("dispatches=%d errors=%d noops=%d", m.TotalDispatches(), m.TotalErrors(), m.TotalNoOps())
	}
	if stats := m.CommandStats("ok"); stats == nil || stats.DispatchCount != 2 {
		t.Errorf("ok stats = %+v", stats)
	}
	if top := m.TopCommands(1); len(top) != 1 || top[0].Name != "ok" {
		t.Errorf("top = %+v", top)
	}

	m.Reset()
	if m.TotalDispatches() != 0 || m.CommandStats("ok") != nil {
		t.Error("reset should clear all counters")
	}
}
