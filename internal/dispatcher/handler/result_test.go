package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dshills/richedit/internal/dispatcher/execctx"
	"github.com/dshills/richedit/internal/editor"
	"github.com/dshills/richedit/internal/engine/history"
)

func TestResultStatusString(t *testing.T) {
	tests := []struct {
		status ResultStatus
		want   string
	}{
		{StatusOK, "ok"},
		{StatusNoOp, "no-op"},
		{StatusError, "error"},
		{StatusCancelled, "cancelled"},
		{ResultStatus(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("ResultStatus(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestFromError(t *testing.T) {
	invalid := fmt.Errorf("%w: rows", editor.ErrInvalidArgument)
	tests := []struct {
		name string
		err  error
		want ResultStatus
	}{
		{"nil", nil, StatusOK},
		{"no active object", editor.ErrNoActiveObject, StatusNoOp},
		{"wrapped shape constraint", fmt.Errorf("delete row: %w", editor.ErrShapeConstraint), StatusNoOp},
		{"nothing to undo", history.ErrNothingToUndo, StatusNoOp},
		{"invalid argument", invalid, StatusError},
		{"unexpected", errors.New("disk on fire"), StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromError(tt.err)
			if r.Status != tt.want {
				t.Errorf("status = %s, want %s", r.Status, tt.want)
			}
			if !errors.Is(r.Error, tt.err) {
				t.Errorf("error = %v, want %v", r.Error, tt.err)
			}
		})
	}
}

func TestResultPredicates(t *testing.T) {
	if !Success().IsOK() || Success().IsError() {
		t.Error("Success should be ok")
	}
	if !NoOp().IsNoOp() || NoOp().IsError() {
		t.Error("NoOp should not be an error")
	}
	if !Cancelled().IsError() {
		t.Error("Cancelled should count as an error")
	}
	r := Errorf("bad %d", 1)
	if !r.IsError() || r.Error.Error() != "bad 1" {
		t.Errorf("Errorf = %+v", r)
	}
}

func TestWithHelpersCopy(t *testing.T) {
	base := Success()
	r := base.WithMessage("m").WithData(3)
	if base.Message != "" || base.Data != nil {
		t.Error("With* must not modify the receiver")
	}
	if r.Message != "m" || r.Data != 3 {
		t.Errorf("result = %+v", r)
	}
}

func TestBaseGroupHandler(t *testing.T) {
	g := NewBaseGroupHandler("doc")
	g.Register("a", func(Command, *execctx.ExecutionContext) Result { return Success() })
	g.Register("b", func(Command, *execctx.ExecutionContext) Result { return NoOp() })
	g.Register("a", func(Command, *execctx.ExecutionContext) Result { return SuccessWithData(1) })

	if got := g.Commands(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Commands() = %v", got)
	}
	if !g.CanHandle("b") || g.CanHandle("c") {
		t.Error("CanHandle mismatch")
	}
	if r := g.HandleCommand(NewCommand("a", ""), nil); r.Data != 1 {
		t.Errorf("re-registration should replace the handler, got %+v", r)
	}
	if r := g.HandleCommand(NewCommand("c", ""), nil); !r.IsError() {
		t.Error("unknown command in group should fail")
	}
}
