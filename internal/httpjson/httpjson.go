// Package httpjson holds the JSON response helpers shared by handlers and
// middleware. Every failure body is {"error": string}; internal failures may
// additionally carry a "message" with detail in development mode.
package httpjson

import (
	"encoding/json"
	"net/http"
)

// Write writes v as a JSON response with the given status
func Write(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes the standard error envelope
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]string{"error": msg})
}

// ServerError writes a 500. The underlying error detail is only exposed when
// development is true.
func ServerError(w http.ResponseWriter, development bool, err error) {
	body := map[string]string{"error": "Internal server error"}
	if development && err != nil {
		body["message"] = err.Error()
	}
	Write(w, http.StatusInternalServerError, body)
}

// NotFoundHandler is the fallback for unmatched routes
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Error(w, http.StatusNotFound, "Route not found")
	})
}
