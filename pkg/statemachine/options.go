package statemachine

// Option configures a Machine during construction.
type Option[S, E comparable] func(*Machine[S, E]) error

// TransitionOption attaches guards and actions to a single transition.
type TransitionOption[S, E comparable] func(*transition[S, E])

// WithTransition registers from --event--> to.
func WithTransition[S, E comparable](from, to S, event E, opts ...TransitionOption[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) error {
		m.add(from, event, newTransition(to, opts))
		return nil
	}
}

// WithTransitionsFrom registers the same event and target for several source states.
func WithTransitionsFrom[S, E comparable](from []S, to S, event E, opts ...TransitionOption[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) error {
		if len(from) == 0 {
			return ErrNoSourceStates
		}
		for _, f := range from {
			m.add(f, event, newTransition(to, opts))
		}
		return nil
	}
}

// WithTransitionFromAny registers a fallback transition for event that applies
// to every state without a specific transition for it.
func WithTransitionFromAny[S, E comparable](to S, event E, opts ...TransitionOption[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) error {
		m.wildcard[event] = append(m.wildcard[event], newTransition(to, opts))
		return nil
	}
}

// WithObserver registers fn to run after each committed transition.
func WithObserver[S, E comparable](fn Observer[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) error {
		if fn != nil {
			m.observers = append(m.observers, fn)
		}
		return nil
	}
}

// WithGuard adds a guard to a transition. Nil guards are ignored.
func WithGuard[S, E comparable](g Guard[S, E]) TransitionOption[S, E] {
	return func(t *transition[S, E]) {
		if g != nil {
			t.guards = append(t.guards, g)
		}
	}
}

// WithAction adds an action to a transition. Nil actions are ignored.
func WithAction[S, E comparable](a Action[S, E]) TransitionOption[S, E] {
	return func(t *transition[S, E]) {
		if a != nil {
			t.actions = append(t.actions, a)
		}
	}
}

func newTransition[S, E comparable](to S, opts []TransitionOption[S, E]) transition[S, E] {
	t := transition[S, E]{to: to}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}
