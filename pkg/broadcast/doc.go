// Package broadcast provides type-safe one-to-many message delivery.
//
//	b := broadcast.NewMemoryBroadcaster[string](16)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx, "greetings")
//	_ = b.Broadcast(ctx, broadcast.Message[string]{Topic: "greetings", Data: "hello"})
//	msg := <-sub.Receive()
//
// Delivery never blocks the sender: a subscriber whose buffer is full misses
// the message. Subscriptions end when their context is cancelled, when the
// subscriber is closed, or when the broadcaster is closed.
package broadcast
