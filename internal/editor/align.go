package editor

import (
	"fmt"
	"math"

	"github.com/dshills/richedit/internal/object"
)

// SetAlignment switches the active object to an alignment mode. Modes are
// mutually exclusive; "floating" is the same as Float.
func (e *Editor) SetAlignment(mode string) error {
	a, ok := object.ParseAlignment(mode)
	if !ok {
		return fmt.Errorf("%w: alignment %q", ErrInvalidArgument, mode)
	}
	o, err := e.activeObject()
	if err != nil {
		return err
	}
	e.cancelGesture()
	if a == object.AlignFloating {
		e.float(o)
	} else {
		o.ApplyAlignment(a)
		e.registry.RefreshHandles()
	}
	e.commitActive("setAlignment")
	return nil
}

// Float positions the active object absolutely at the centre of the
// visible viewport.
func (e *Editor) Float() error {
	o, err := e.activeObject()
	if err != nil {
		return err
	}
	e.cancelGesture()
	e.float(o)
	e.commitActive("float")
	return nil
}

func (e *Editor) float(o object.Object) {
	r := o.Bounds(e)
	vp := e.viewport
	x := math.Max(0, math.Round(vp.ScrollX+vp.Width/2-r.Width/2))
	y := math.Max(0, math.Round(vp.ScrollY+vp.Height/2-r.Height/2))
	o.ApplyFloating(x, y)
	if e.registry.IsActive(o) {
		e.registry.RefreshHandles()
	}
}
