package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Guard decides whether a transition may proceed. All guards of a transition must pass.
type Guard[S, E comparable] func(ctx context.Context, from S, event E, data any) bool

// Action runs before the state changes. An error aborts the transition.
type Action[S, E comparable] func(ctx context.Context, from, to S, event E, data any) error

// Observer is notified after every committed transition.
type Observer[S, E comparable] func(from, to S, event E)

type transition[S, E comparable] struct {
	to      S
	guards  []Guard[S, E]
	actions []Action[S, E]
}

// Machine is a thread-safe finite state machine over comparable state and event types.
//
// Transitions are looked up by (from, event). Transitions registered with
// WithTransitionFromAny apply to every state that has no specific transition
// for the event.
type Machine[S, E comparable] struct {
	initial     S
	current     S
	transitions map[S]map[E][]transition[S, E]
	wildcard    map[E][]transition[S, E]
	observers   []Observer[S, E]
	mu          sync.RWMutex
}

// New creates a machine in the initial state and applies opts.
func New[S, E comparable](initial S, opts ...Option[S, E]) (*Machine[S, E], error) {
	m := &Machine[S, E]{
		initial:     initial,
		current:     initial,
		transitions: make(map[S]map[E][]transition[S, E]),
		wildcard:    make(map[E][]transition[S, E]),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// MustNew is like New but panics on configuration errors.
func MustNew[S, E comparable](initial S, opts ...Option[S, E]) *Machine[S, E] {
	m, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// Current returns the current state.
func (m *Machine[S, E]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Fire applies event to the current state.
// A failure to move returns a *TransitionError wrapping ErrNoTransition or
// ErrRejected.
func (m *Machine[S, E]) Fire(ctx context.Context, event E, data any) error {
	m.mu.Lock()

	from := m.current
	candidates := m.candidates(from, event)
	if len(candidates) == 0 {
		m.mu.Unlock()
		return newTransitionError(ErrNoTransition, from, event)
	}

	// First transition whose guards pass wins
	t, ok := m.pick(ctx, from, event, data, candidates)
	if !ok {
		m.mu.Unlock()
		return newTransitionError(ErrRejected, from, event)
	}

	for _, action := range t.actions {
		if err := action(ctx, from, t.to, event, data); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("action failed: %w", err)
		}
	}

	m.current = t.to
	observers := m.observers
	m.mu.Unlock()

	for _, obs := range observers {
		obs(from, t.to, event)
	}
	return nil
}

// CanFire reports whether Fire would succeed for event right now.
// Actions are not executed.
func (m *Machine[S, E]) CanFire(ctx context.Context, event E, data any) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	candidates := m.candidates(m.current, event)
	_, ok := m.pick(ctx, m.current, event, data, candidates)
	return ok
}

// Reset returns the machine to its initial state without running actions.
func (m *Machine[S, E]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

// Must be called with lock held.
func (m *Machine[S, E]) candidates(from S, event E) []transition[S, E] {
	if byEvent, ok := m.transitions[from]; ok {
		if ts := byEvent[event]; len(ts) > 0 {
			return ts
		}
	}
	return m.wildcard[event]
}

func (m *Machine[S, E]) pick(ctx context.Context, from S, event E, data any, ts []transition[S, E]) (transition[S, E], bool) {
	for _, t := range ts {
		passed := true
		for _, guard := range t.guards {
			if !guard(ctx, from, event, data) {
				passed = false
				break
			}
		}
		if passed {
			return t, true
		}
	}
	return transition[S, E]{}, false
}

func (m *Machine[S, E]) add(from S, event E, t transition[S, E]) {
	if _, ok := m.transitions[from]; !ok {
		m.transitions[from] = make(map[E][]transition[S, E])
	}
	m.transitions[from][event] = append(m.transitions[from][event], t)
}
