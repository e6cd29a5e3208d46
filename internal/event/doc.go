// Package event provides the synchronous topic bus that carries editor
// notifications to the host bridge and to script hooks.
//
// Publishers hand the bus a typed Event; every subscription whose pattern
// matches the event topic is invoked in priority order, in the publisher's
// goroutine, before Publish returns. Notifications are therefore strictly
// ordered after the mutation that caused them.
//
// # Topics
//
// Topics are dot separated and subscriptions accept wildcards (see package
// topic):
//
//	editor.content.changed
//	editor.object.*
//	editor.**
//
// # Usage
//
//	bus := event.NewBus()
//	sub, _ := bus.SubscribeFunc("editor.object.*", func(ctx context.Context, ev any) error {
//		...
//	})
//	defer bus.Unsubscribe(sub)
//
//	n, err := bus.Publish(ctx, event.NewEvent(events.TopicContentChanged, events.ContentChanged{}, "editor"))
//
// Publish reports ErrNoSubscriber when nothing matched. Handler errors and
// recovered panics are joined into the returned error; they never stop
// delivery to the remaining subscribers.
package event
