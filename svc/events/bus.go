package events

import (
	"context"

	"github.com/dmitrymomot/depselect/pkg/broadcast"
)

// Bus is an in-process Publisher. Subscribers that fall behind miss events;
// publishing never blocks.
type Bus struct {
	b *broadcast.MemoryBroadcaster[Event]
}

// NewBus creates a bus whose subscribers buffer up to bufferSize events.
func NewBus(bufferSize int) *Bus {
	return &Bus{b: broadcast.NewMemoryBroadcaster[Event](bufferSize)}
}

func (b *Bus) Publish(ctx context.Context, e Event) error {
	return b.b.Broadcast(ctx, broadcast.Message[Event]{Topic: e.Type, Data: e})
}

// Subscribe receives events of the given types, or all events when none are
// given, until ctx is done or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context, types ...string) <-chan Event {
	sub := b.b.Subscribe(ctx, types...)
	out := make(chan Event)
	go func() {
		defer close(out)
		for msg := range sub.Receive() {
			select {
			case out <- msg.Data:
			case <-ctx.Done():
				_ = sub.Close()
				return
			}
		}
	}()
	return out
}

func (b *Bus) Close() error {
	return b.b.Close()
}
