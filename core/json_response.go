package core

import (
	"encoding/json"
	"net/http"
)

// JSONResponse is the standard JSON response envelope.
type JSONResponse struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail carries error information to the client.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// JSON writes data inside the standard envelope with the given status.
func JSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, JSONResponse{Data: data})
}

// JSONError writes an error response. The error is classified through
// MapError first, so handlers can pass domain errors straight through.
func JSONError(w http.ResponseWriter, err error) {
	httpErr := MapError(err)

	detail := &ErrorDetail{
		Code:    httpErr.Key,
		Message: http.StatusText(httpErr.Code),
	}
	// Client errors carry the domain message; server errors stay opaque.
	if httpErr.Code < http.StatusInternalServerError && err != nil {
		detail.Message = err.Error()
	}

	writeJSON(w, httpErr.Code, JSONResponse{Error: detail})
}

func writeJSON(w http.ResponseWriter, status int, body JSONResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
