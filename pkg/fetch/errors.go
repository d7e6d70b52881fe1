package fetch

import (
	"errors"

	"github.com/dmitrymomot/depselect/pkg/async"
)

// DefaultFallbackMessage is reported when a failure carries no usable message.
const DefaultFallbackMessage = "unknown error"

// ErrNilProducer is the panic value of New when called without a producer.
var ErrNilProducer = errors.New("fetch: producer must not be nil")

// errorMessage maps a producer failure to the message stored in State.Err.
// Panics with non-error values and errors with empty text map to fallback.
func errorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var pe *async.PanicError
	if errors.As(err, &pe) {
		if _, ok := pe.Value.(error); !ok {
			return fallback
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
