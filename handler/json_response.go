package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/depselect/pkg/validator"
)

// JSONBody is the envelope of every JSON response.
type JSONBody struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONBody
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSON answers 200 with v as data.
func JSON(v any) Response {
	return jsonResponse{status: http.StatusOK, body: JSONBody{Data: v}}
}

// JSONError answers with the status derived from err. Validation errors
// become 422 with per-field details.
func JSONError(err error) Response {
	info := Classify(err)
	detail := &ErrorDetail{Code: info.Key, Message: info.Message}
	if errs := validator.ExtractValidationErrors(err); errs != nil {
		detail.Details = make(map[string][]string)
		for _, field := range errs.Fields() {
			detail.Details[field] = errs.Get(field)
		}
	}
	return jsonResponse{status: info.StatusCode, body: JSONBody{Error: detail}}
}
