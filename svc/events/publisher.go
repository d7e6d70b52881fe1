package events

import (
	"context"
	"errors"

	"github.com/dmitrymomot/depselect/pkg/metrics"
)

// Publisher delivers domain events. Implementations must be safe for
// concurrent use and should not block on slow consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, e Event) error

func (f PublisherFunc) Publish(ctx context.Context, e Event) error { return f(ctx, e) }

// Nop discards every event.
var Nop Publisher = PublisherFunc(func(context.Context, Event) error { return nil })

type multi []Publisher

// Multi fans an event out to every publisher. All publishers are called even
// when some fail; their errors are joined.
func Multi(publishers ...Publisher) Publisher {
	var m multi
	for _, p := range publishers {
		if p != nil {
			m = append(m, p)
		}
	}
	return m
}

func (m multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Counted increments the published events counter of met for every event p
// accepted. A nil met returns p unchanged.
func Counted(p Publisher, met *metrics.Metrics) Publisher {
	if met == nil {
		return p
	}
	return PublisherFunc(func(ctx context.Context, e Event) error {
		if err := p.Publish(ctx, e); err != nil {
			return err
		}
		met.EventsPublished.WithLabelValues(e.Type).Inc()
		return nil
	})
}
