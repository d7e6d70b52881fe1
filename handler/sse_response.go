package handler

import (
	"net/http"

	"github.com/starfederation/datastar-go/datastar"
)

// StreamContext sends patches over an open datastar SSE connection.
type StreamContext interface {
	Context
	SendComponent(c Component, opts ...TemplOption) error
	SendSignals(signals map[string]any) error
}

// SSEHandler runs for the lifetime of the stream; returning ends it.
type SSEHandler func(stream StreamContext) error

type sseResponse struct {
	handler SSEHandler
}

func (s sseResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if !IsDataStar(r) {
		return ErrNotDataStar
	}
	base := NewContext(w, r)
	return s.handler(&streamContext{Context: base, sse: base.SSE()})
}

// SSE keeps the response open and hands the stream to h.
func SSE(h SSEHandler) Response {
	return sseResponse{handler: h}
}

type streamContext struct {
	Context
	sse *datastar.ServerSentEventGenerator
}

func (c *streamContext) SendComponent(comp Component, opts ...TemplOption) error {
	return c.sse.PatchElementTempl(comp, opts...)
}

func (c *streamContext) SendSignals(signals map[string]any) error {
	return c.sse.MarshalAndPatchSignals(signals)
}
