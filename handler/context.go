package handler

import (
	"context"
	"net/http"
	"sync"

	"github.com/starfederation/datastar-go/datastar"
)

// Context is the request context handed to a HandlerFunc.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	// SSE returns the datastar event generator, creating it on first use.
	// It is nil for non-datastar requests.
	SSE() *datastar.ServerSentEventGenerator
}

func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return &httpContext{Context: r.Context(), w: w, r: r}
}

type httpContext struct {
	context.Context
	w       http.ResponseWriter
	r       *http.Request
	sseOnce sync.Once
	sse     *datastar.ServerSentEventGenerator
}

func (c *httpContext) Request() *http.Request              { return c.r }
func (c *httpContext) ResponseWriter() http.ResponseWriter { return c.w }

func (c *httpContext) SSE() *datastar.ServerSentEventGenerator {
	if !IsDataStar(c.r) {
		return nil
	}
	c.sseOnce.Do(func() { c.sse = datastar.NewSSE(c.w, c.r) })
	return c.sse
}
