package editor

import (
	"fmt"
	"strconv"

	"github.com/dshills/richedit/internal/dom"
	"github.com/dshills/richedit/internal/object"
)

// Shadow intensity bounds.
const (
	MinShadowIntensity = 1
	MaxShadowIntensity = 10
)

// ShadowCSS maps an intensity to a box-shadow value: offset i, blur 3i,
// spread i/2 and opacity 0.05 + 0.03i.
func ShadowCSS(intensity int) string {
	i := float64(clamp(intensity, MinShadowIntensity, MaxShadowIntensity))
	return fmt.Sprintf("%s %s %s %s rgba(0, 0, 0, %s)",
		object.FormatPx(i),
		object.FormatPx(i),
		object.FormatPx(3*i),
		object.FormatPx(i/2),
		strconv.FormatFloat(0.05+0.03*i, 'f', 2, 64),
	)
}

// SetShadow turns the active object's shadow on or off. A nil intensity
// uses the configured default.
func (e *Editor) SetShadow(enabled bool, intensity *int) error {
	o, err := e.activeObject()
	if err != nil {
		return err
	}
	n := o.Node()
	if !enabled {
		dom.RemoveStyle(n, "box-shadow")
		dom.RemoveAttr(n, object.AttrShadow)
		e.commitActive("setShadow")
		return nil
	}

	i := e.opts.ShadowIntensity
	if intensity != nil {
		i = *intensity
	}
	i = clamp(i, MinShadowIntensity, MaxShadowIntensity)
	dom.SetStyle(n, "box-shadow", ShadowCSS(i))
	dom.SetAttr(n, object.AttrShadow, strconv.Itoa(i))
	e.commitActive("setShadow")
	return nil
}
