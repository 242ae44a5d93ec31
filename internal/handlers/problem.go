package handlers

import (
	"encoding/json"
	"net/http"
)

const problemContentType = "application/problem+json"

// Problem is the structured error payload every failure renders as.
type Problem struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`

	// ValidationMessages carries field-level messages on 422 responses.
	ValidationMessages map[string][]string `json:"validation_messages,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Status: status,
		Title:  http.StatusText(status),
		Detail: detail,
	})
}

func writeValidationProblem(w http.ResponseWriter, messages map[string][]string) {
	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(Problem{
		Status:             http.StatusUnprocessableEntity,
		Title:              http.StatusText(http.StatusUnprocessableEntity),
		Detail:             "Failed validation",
		ValidationMessages: messages,
	})
}

// writeAuthProblem writes a 401 with the challenge header the bearer scheme
// requires.
func writeAuthProblem(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeProblem(w, http.StatusUnauthorized, detail)
}

// NotFound is the router-level fallback for unknown paths.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeProblem(w, http.StatusNotFound, "resource not found")
}

// MethodNotAllowed is the router-level fallback for known paths with
// unsupported methods.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeProblem(w, http.StatusMethodNotAllowed, "method not allowed")
}
