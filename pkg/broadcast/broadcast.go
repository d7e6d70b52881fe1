package broadcast

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when broadcasting on a closed broadcaster.
var ErrClosed = errors.New("broadcast: broadcaster is closed")

// Message wraps data of type T. Topic is optional and used for subscriber filtering.
type Message[T any] struct {
	Topic string
	Data  T
}

// Subscriber receives messages from a Broadcaster.
type Subscriber[T any] interface {
	// Receive returns the channel messages are delivered on.
	// The channel is closed when the subscriber or its broadcaster is closed.
	Receive() <-chan Message[T]

	// Close stops delivery. It is idempotent.
	Close() error
}

// Broadcaster sends messages to multiple subscribers.
// Slow consumers lose messages instead of blocking the sender.
type Broadcaster[T any] interface {
	// Subscribe registers a subscriber for the given topics, or for every
	// topic when none are given. The subscription ends when ctx is done.
	Subscribe(ctx context.Context, topics ...string) Subscriber[T]

	// Broadcast delivers msg to all matching subscribers.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Close closes every subscriber. Subsequent Broadcast calls return ErrClosed.
	Close() error
}

type subscriber[T any] struct {
	ch     chan Message[T]
	topics map[string]struct{}
	closed bool
	mu     sync.RWMutex
}

func newSubscriber[T any](bufferSize int, topics []string) *subscriber[T] {
	s := &subscriber[T]{ch: make(chan Message[T], bufferSize)}
	if len(topics) > 0 {
		s.topics = make(map[string]struct{}, len(topics))
		for _, t := range topics {
			s.topics[t] = struct{}{}
		}
	}
	return s
}

func (s *subscriber[T]) Receive() <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

func (s *subscriber[T]) wants(topic string) bool {
	if s.topics == nil {
		return true
	}
	_, ok := s.topics[topic]
	return ok
}

// send reports false only when the buffer is full or the subscriber is closed.
func (s *subscriber[T]) send(msg Message[T]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}
