package statemachine_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/depselect/pkg/statemachine"
)

type state string
type event string

const (
	idle    state = "idle"
	loading state = "loading"
	done    state = "done"
	failed  state = "failed"

	fetch   event = "fetch"
	resolve event = "resolve"
	reject  event = "reject"
	reset   event = "reset"
)

func newMachine(t *testing.T, extra ...statemachine.Option[state, event]) *statemachine.Machine[state, event] {
	t.Helper()
	opts := []statemachine.Option[state, event]{
		statemachine.WithTransitionsFrom([]state{idle, done, failed}, loading, fetch),
		statemachine.WithTransition[state, event](loading, done, resolve),
		statemachine.WithTransition[state, event](loading, failed, reject),
		statemachine.WithTransitionFromAny[state, event](idle, reset),
	}
	m, err := statemachine.New(idle, append(opts, extra...)...)
	require.NoError(t, err)
	return m
}

func TestMachine_Fire(t *testing.T) {
	t.Parallel()

	t.Run("follows registered transitions", func(t *testing.T) {
		t.Parallel()
		m := newMachine(t)
		ctx := context.Background()

		require.NoError(t, m.Fire(ctx, fetch, nil))
		assert.Equal(t, loading, m.Current())
		require.NoError(t, m.Fire(ctx, resolve, nil))
		assert.Equal(t, done, m.Current())
		require.NoError(t, m.Fire(ctx, fetch, nil))
		require.NoError(t, m.Fire(ctx, reject, nil))
		assert.Equal(t, failed, m.Current())
	})

	t.Run("unknown pair returns typed error", func(t *testing.T) {
		t.Parallel()
		m := newMachine(t)

		err := m.Fire(context.Background(), resolve, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, statemachine.ErrNoTransition)
		var terr *statemachine.TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "resolve", terr.Event)
		assert.Contains(t, err.Error(), "idle")
		assert.Contains(t, err.Error(), "resolve")
		assert.Equal(t, idle, m.Current())
	})

	t.Run("wildcard applies to every state", func(t *testing.T) {
		t.Parallel()
		m := newMachine(t)
		ctx := context.Background()

		require.NoError(t, m.Fire(ctx, fetch, nil))
		require.NoError(t, m.Fire(ctx, reset, nil))
		assert.Equal(t, idle, m.Current())
	})

	t.Run("guard rejection keeps state", func(t *testing.T) {
		t.Parallel()
		m, err := statemachine.New(idle,
			statemachine.WithTransition(idle, loading, fetch,
				statemachine.WithGuard(func(_ context.Context, _ state, _ event, data any) bool {
					return data == "ok"
				}),
			),
		)
		require.NoError(t, err)

		err = m.Fire(context.Background(), fetch, "nope")
		assert.ErrorIs(t, err, statemachine.ErrRejected)
		assert.Equal(t, idle, m.Current())
		assert.False(t, m.CanFire(context.Background(), fetch, "nope"))
		assert.True(t, m.CanFire(context.Background(), fetch, "ok"))

		require.NoError(t, m.Fire(context.Background(), fetch, "ok"))
		assert.Equal(t, loading, m.Current())
	})

	t.Run("failing action aborts transition", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		m, err := statemachine.New(idle,
			statemachine.WithTransition(idle, loading, fetch,
				statemachine.WithAction(func(context.Context, state, state, event, any) error { return boom }),
			),
		)
		require.NoError(t, err)

		err = m.Fire(context.Background(), fetch, nil)
		require.ErrorIs(t, err, boom)
		assert.Equal(t, idle, m.Current())
	})

	t.Run("observer sees committed transitions", func(t *testing.T) {
		t.Parallel()
		var seen []state
		m := newMachine(t, statemachine.WithObserver(func(from, to state, _ event) {
			seen = append(seen, from, to)
		}))

		require.NoError(t, m.Fire(context.Background(), fetch, nil))
		_ = m.Fire(context.Background(), fetch, nil)

		assert.Equal(t, []state{idle, loading}, seen)
	})
}

func TestMachine_Reset(t *testing.T) {
	t.Parallel()
	m := newMachine(t)
	require.NoError(t, m.Fire(context.Background(), fetch, nil))
	m.Reset()
	assert.Equal(t, idle, m.Current())
}

func TestNew_EmptySources(t *testing.T) {
	t.Parallel()
	_, err := statemachine.New(idle, statemachine.WithTransitionsFrom[state, event](nil, loading, fetch))
	require.ErrorIs(t, err, statemachine.ErrNoSourceStates)

	assert.Panics(t, func() {
		statemachine.MustNew(idle, statemachine.WithTransitionsFrom[state, event](nil, loading, fetch))
	})
}

func TestMachine_Concurrent(t *testing.T) {
	t.Parallel()
	m := newMachine(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Fire(ctx, fetch, nil)
			_ = m.Fire(ctx, resolve, nil)
			_ = m.Current()
		}()
	}
	wg.Wait()

	assert.Contains(t, []state{loading, done}, m.Current())
}
