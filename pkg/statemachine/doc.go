// Package statemachine implements a small generic finite state machine.
//
// States and events are any comparable types, usually string-based enums:
//
//	type Status string
//	type Event string
//
//	m := statemachine.MustNew[Status, Event]("idle",
//		statemachine.WithTransition[Status, Event]("idle", "loading", "fetch"),
//		statemachine.WithTransition[Status, Event]("loading", "done", "resolve"),
//		statemachine.WithTransitionFromAny[Status, Event]("idle", "reset"),
//	)
//	err := m.Fire(ctx, "fetch", nil)
//
// Transitions may carry guards (all must pass) and actions (run in order before
// the state changes; any error aborts the transition). Observers run after a
// transition is committed, outside the machine lock.
//
// Fire reports a *TransitionError matching ErrNoTransition when nothing is
// registered for the current state and event, or ErrRejected when guards
// blocked every candidate.
package statemachine
