package fetch

import "time"

// Status is the lifecycle phase of a loader.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

func (s Status) String() string { return string(s) }

// State is an immutable snapshot of a loader.
// Data keeps the last successful value while a new fetch is loading or has failed.
type State[T any] struct {
	Data      T
	Status    Status
	Err       string
	UpdatedAt time.Time
}

func (s State[T]) IsIdle() bool    { return s.Status == StatusIdle }
func (s State[T]) IsLoading() bool { return s.Status == StatusLoading }
func (s State[T]) IsSuccess() bool { return s.Status == StatusSuccess }
func (s State[T]) IsError() bool   { return s.Status == StatusError }

// event drives the status machine.
type event string

const (
	eventFetch   event = "fetch"
	eventResolve event = "resolve"
	eventReject  event = "reject"
	eventHit     event = "hit"
	eventCancel  event = "cancel"
)
