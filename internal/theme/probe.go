// Package theme reports the host's light/dark preference and derives the
// palette used for newly created table elements.
package theme

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/event/topic"
)

// Scheme is a color-scheme preference.
type Scheme uint8

const (
	// Light is the default scheme.
	Light Scheme = iota
	// Dark is the dark scheme.
	Dark
)

// String returns a string representation of the scheme.
func (s Scheme) String() string {
	if s == Dark {
		return "dark"
	}
	return "light"
}

// ParseScheme parses "light" or "dark" (case-insensitive).
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light", "":
		return Light, nil
	case "dark":
		return Dark, nil
	}
	return Light, fmt.Errorf("unknown color scheme %q", s)
}

// Palette holds the colors applied to new tables.
type Palette struct {
	Border           string
	HeaderBackground string
}

// PaletteFor returns the default palette of a scheme.
func PaletteFor(s Scheme) Palette {
	if s == Dark {
		return Palette{Border: "#555555", HeaderBackground: "#333333"}
	}
	return Palette{Border: "#cccccc", HeaderBackground: "#f0f0f0"}
}

// TopicChanged is published on the probe's bus when the scheme changes.
const TopicChanged topic.Topic = "theme.changed"

// Changed is the payload of TopicChanged.
type Changed struct {
	Old Scheme `json:"old"`
	New Scheme `json:"new"`
}

// ChangeFunc receives the previous and the new palette.
type ChangeFunc func(old, new Palette)

// Probe tracks the current scheme and publishes TopicChanged on change.
type Probe struct {
	mu     sync.Mutex
	scheme Scheme
	bus    *event.Bus
}

// NewProbe creates a probe starting at scheme s that publishes on bus.
// A nil bus gets a private one.
func NewProbe(s Scheme, bus *event.Bus) *Probe {
	if bus == nil {
		bus = event.NewBus()
	}
	return &Probe{scheme: s, bus: bus}
}

// Scheme returns the current scheme.
func (p *Probe) Scheme() Scheme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scheme
}

// Palette returns the palette of the current scheme.
func (p *Probe) Palette() Palette {
	return PaletteFor(p.Scheme())
}

// SetScheme switches the scheme. Subscribers run synchronously, in bus
// delivery order, only when the scheme actually changes.
func (p *Probe) SetScheme(s Scheme) bool {
	p.mu.Lock()
	old := p.scheme
	p.scheme = s
	p.mu.Unlock()
	if old == s {
		return false
	}

	// A scheme change nobody listens to is not an error.
	_, _ = p.bus.Publish(context.Background(), event.NewEvent(TopicChanged, Changed{Old: old, New: s}, "theme"))
	return true
}

// Subscribe registers fn for palette changes on the probe's bus. The
// returned function cancels the subscription.
func (p *Probe) Subscribe(fn ChangeFunc) (cancel func()) {
	sub, err := p.bus.SubscribeFunc(TopicChanged, func(_ context.Context, ev any) error {
		if c, ok := ev.(event.Event[Changed]); ok {
			fn(PaletteFor(c.Payload.Old), PaletteFor(c.Payload.New))
		}
		return nil
	})
	if err != nil {
		return func() {}
	}
	return func() { _ = p.bus.Unsubscribe(sub) }
}
