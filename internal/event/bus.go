package event

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/richedit/internal/event/topic"
)

// Bus delivers events synchronously to matching subscriptions.
// It is safe for concurrent use; handlers may subscribe and unsubscribe
// while an event is being delivered.
type Bus struct {
	mu   sync.RWMutex
	subs []*subscription
	seq  uint64

	published atomic.Uint64
	unheard   atomic.Uint64
	executed  atomic.Uint64
	errored   atomic.Uint64
	panicked  atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers handler for events whose topic matches pattern.
func (b *Bus) Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	sub := newSubscription(uuid.NewString(), b.seq, pattern, handler, opts...)
	b.subs = append(b.subs, sub)
	sort.SliceStable(b.subs, func(i, j int) bool {
		if b.subs[i].config.Priority != b.subs[j].config.Priority {
			return b.subs[i].config.Priority < b.subs[j].config.Priority
		}
		return b.subs[i].seq < b.subs[j].seq
	})
	return sub, nil
}

// SubscribeFunc is Subscribe for a plain function.
func (b *Bus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, fn, opts...)
}

// Unsubscribe cancels and removes a subscription.
func (b *Bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == sub.ID() {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// match returns the active subscriptions for t in delivery order.
func (b *Bus) match(t topic.Topic) []*subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []*subscription
	for _, s := range b.subs {
		if s.IsActive() && t.Matches(s.pattern) {
			out = append(out, s)
		}
	}
	return out
}

// Publish delivers event to every matching subscription and returns the
// number of handlers invoked. With no match it returns ErrNoSubscriber.
// Handler failures are joined into the returned error; delivery continues.
func (b *Bus) Publish(ctx context.Context, event any) (int, error) {
	tp, ok := event.(TopicProvider)
	if !ok || tp.EventTopic() == "" {
		return 0, ErrInvalidEvent
	}
	t := tp.EventTopic()
	b.published.Add(1)

	subs := b.match(t)
	if len(subs) == 0 {
		b.unheard.Add(1)
		return 0, ErrNoSubscriber
	}

	var errs []error
	delivered := 0
	for _, s := range subs {
		if !s.IsActive() {
			continue
		}
		if s.config.Once {
			s.Cancel()
		}
		delivered++
		if err := b.deliver(ctx, s, t, event); err != nil {
			errs = append(errs, err)
		}
		if s.config.Once {
			_ = b.Unsubscribe(s)
		}
	}
	return delivered, errors.Join(errs...)
}

func (b *Bus) deliver(ctx context.Context, s *subscription, t topic.Topic, event any) (err error) {
	b.executed.Add(1)
	defer func() {
		if r := recover(); r != nil {
			b.panicked.Add(1)
			err = &PanicError{SubscriptionID: s.id, Topic: t.String(), Value: r}
		}
	}()
	if herr := s.handler.Handle(ctx, event); herr != nil {
		b.errored.Add(1)
		return &HandlerError{SubscriptionID: s.id, Topic: t.String(), Err: herr}
	}
	return nil
}

// Count returns the number of registered subscriptions.
func (b *Bus) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Stats returns the bus counters.
func (b *Bus) Stats() Stats {
	return Stats{
		EventsPublished:   b.published.Load(),
		EventsUnheard:     b.unheard.Load(),
		HandlersExecuted:  b.executed.Load(),
		HandlerErrors:     b.errored.Load(),
		HandlerPanics:     b.panicked.Load(),
		ActiveSubscribers: b.Count(),
	}
}
