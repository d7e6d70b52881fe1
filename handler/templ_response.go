package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"
)

// Component matches templ.Component.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

type TemplOption = datastar.PatchElementOption

func WithTarget(selector string) TemplOption {
	return datastar.WithSelector(selector)
}

func WithPatchMode(mode datastar.ElementPatchMode) TemplOption {
	return datastar.WithMode(mode)
}

// TemplPatch is one element patch, or a signals patch when Signals is set.
type TemplPatch struct {
	Component Component
	Options   []TemplOption
	Signals   map[string]any
}

func Patch(c Component, opts ...TemplOption) TemplPatch {
	return TemplPatch{Component: c, Options: opts}
}

// PatchSignals updates client signals. Plain HTML responses ignore it.
func PatchSignals(signals map[string]any) TemplPatch {
	return TemplPatch{Signals: signals}
}

type templResponse struct {
	status  int
	full    Component
	patches []TemplPatch
}

// Render streams the patches over SSE for datastar requests. Other requests
// get the full component, or the patched components concatenated when no
// full component is set.
func (t templResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		sse := datastar.NewSSE(w, r)
		for _, p := range t.patches {
			if err := sendPatch(sse, p); err != nil {
				return err
			}
		}
		return nil
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if t.status != 0 {
		w.WriteHeader(t.status)
	}
	if t.full != nil {
		return t.full.Render(r.Context(), w)
	}
	for _, p := range t.patches {
		if p.Component == nil {
			continue
		}
		if err := p.Component.Render(r.Context(), w); err != nil {
			return err
		}
	}
	return nil
}

func sendPatch(sse *datastar.ServerSentEventGenerator, p TemplPatch) error {
	if p.Component != nil {
		if err := sse.PatchElementTempl(p.Component, p.Options...); err != nil {
			return err
		}
	}
	if p.Signals != nil {
		return sse.MarshalAndPatchSignals(p.Signals)
	}
	return nil
}

// Templ renders c as a page, or patches it into the DOM for datastar requests.
func Templ(c Component, opts ...TemplOption) Response {
	return templResponse{patches: []TemplPatch{Patch(c, opts...)}}
}

// TemplStatus is Templ with an explicit status for plain HTML responses.
func TemplStatus(status int, c Component, opts ...TemplOption) Response {
	return templResponse{status: status, patches: []TemplPatch{Patch(c, opts...)}}
}

// TemplPartial sends patches to datastar requests and full to everyone else.
func TemplPartial(full Component, patches ...TemplPatch) Response {
	return templResponse{full: full, patches: patches}
}

// TemplMulti sends several patches in one response.
func TemplMulti(patches ...TemplPatch) Response {
	return templResponse{patches: patches}
}
