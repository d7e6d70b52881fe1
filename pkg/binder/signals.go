package binder

import (
	"fmt"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"
)

// DatastarRequestHeader is set by the datastar client on every backend action.
const DatastarRequestHeader = "Datastar-Request"

// Signals decodes datastar signals into v using its json tags. GET requests
// carry signals in the datastar query parameter, other methods in the body.
// Non-datastar requests yield ErrNotApplicable.
func Signals() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if r.Header.Get(DatastarRequestHeader) != "true" {
			return ErrNotApplicable
		}
		if err := datastar.ReadSignals(r, v); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSignals, err)
		}
		return nil
	}
}
