package theme

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// LuminanceThreshold separates dark backgrounds (white text) from light
// ones (black text).
const LuminanceThreshold = 0.5

// Text colors chosen by ContrastText.
const (
	TextWhite = "#ffffff"
	TextBlack = "#000000"
)

var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"gray":    "#808080",
	"grey":    "#808080",
	"silver":  "#c0c0c0",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"navy":    "#000080",
	"maroon":  "#800000",
	"purple":  "#800080",
	"teal":    "#008080",
	"olive":   "#808000",
	"lime":    "#00ff00",
	"aqua":    "#00ffff",
	"fuchsia": "#ff00ff",
}

// ParseColor parses a CSS color in #rgb, #rrggbb, rgb(), rgba() or basic
// named form. Alpha is ignored. "transparent" and unknown values fail.
func ParseColor(s string) (colorful.Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[v]; ok {
		v = hex
	}
	switch {
	case strings.HasPrefix(v, "#") && len(v) == 4:
		v = "#" + string([]byte{v[1], v[1], v[2], v[2], v[3], v[3]})
		return colorful.Hex(v)
	case strings.HasPrefix(v, "#"):
		return colorful.Hex(v)
	case strings.HasPrefix(v, "rgb(") || strings.HasPrefix(v, "rgba("):
		return parseRGBFunc(v)
	}
	return colorful.Color{}, fmt.Errorf("unsupported color %q", s)
}

func parseRGBFunc(v string) (colorful.Color, error) {
	open := strings.IndexByte(v, '(')
	end := strings.LastIndexByte(v, ')')
	if open < 0 || end <= open {
		return colorful.Color{}, fmt.Errorf("malformed color %q", v)
	}
	parts := strings.Split(v[open+1:end], ",")
	if len(parts) < 3 {
		return colorful.Color{}, fmt.Errorf("malformed color %q", v)
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 || n > 255 {
			return colorful.Color{}, fmt.Errorf("malformed color %q", v)
		}
		ch[i] = uint8(n)
	}
	return colorful.Color{
		R: float64(ch[0]) / 255,
		G: float64(ch[1]) / 255,
		B: float64(ch[2]) / 255,
	}, nil
}

// NormalizeColor returns the #rrggbb form of s, or s unchanged when it
// cannot be parsed (e.g. "transparent").
func NormalizeColor(s string) string {
	c, err := ParseColor(s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return c.Hex()
}

// SameColor reports whether two CSS colors denote the same RGB value.
func SameColor(a, b string) bool {
	ca, errA := ParseColor(a)
	cb, errB := ParseColor(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	return ca.Hex() == cb.Hex()
}

// Luminance returns (0.299 R + 0.587 G + 0.114 B) / 255 for c.
func Luminance(c colorful.Color) float64 {
	r, g, b := c.RGB255()
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
}

// ContrastText picks white text for dark backgrounds and black otherwise.
// Unparseable backgrounds get black text.
func ContrastText(background string) string {
	c, err := ParseColor(background)
	if err != nil {
		return TextBlack
	}
	if Luminance(c) < LuminanceThreshold {
		return TextWhite
	}
	return TextBlack
}

// ValidHex reports whether s is a #rrggbb color.
func ValidHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	_, err := colorful.Hex(s)
	return err == nil
}
