package handler

import (
	"net/http"

	"github.com/starfederation/datastar-go/datastar"
)

type redirectResponse struct {
	url string
}

// Render answers 303 See Other, or asks the datastar client to navigate.
func (rr redirectResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		return datastar.NewSSE(w, r).Redirect(rr.url)
	}
	http.Redirect(w, r, rr.url, http.StatusSeeOther)
	return nil
}

func Redirect(url string) Response {
	return redirectResponse{url: url}
}
