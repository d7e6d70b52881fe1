package catalog

import "errors"

var (
	ErrInvalidID        = errors.New("catalog: invalid identifier")
	ErrInvalidName      = errors.New("catalog: invalid name")
	ErrCategoryNotFound = errors.New("catalog: category not found")
	ErrInvalidDataset   = errors.New("catalog: invalid dataset")
	ErrSimulatedNetwork = errors.New("Simulated network error")
)
