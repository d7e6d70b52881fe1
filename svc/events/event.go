package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types published by the selection coordinator.
const (
	TypeCategorySelected    = "category.selected"
	TypeCategoryUnselected  = "category.unselected"
	TypeSubCategorySelected = "subcategory.selected"
	TypeSelectionCleared    = "selection.cleared"
)

// Event is a domain event describing a change of a selection.
// AggregateID identifies the selection (one per form session).
type Event struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	AggregateID   string    `json:"aggregateId"`
	CategoryID    string    `json:"categoryId,omitempty"`
	SubCategoryID string    `json:"subCategoryId,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// New creates an event with a random ID stamped with the current UTC time.
func New(eventType, aggregateID string) Event {
	return Event{
		ID:          uuid.New(),
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
	}
}

// WithCategory returns a copy of e carrying categoryID.
func (e Event) WithCategory(categoryID string) Event {
	e.CategoryID = categoryID
	return e
}

// WithSubCategory returns a copy of e carrying subCategoryID.
func (e Event) WithSubCategory(subCategoryID string) Event {
	e.SubCategoryID = subCategoryID
	return e
}
