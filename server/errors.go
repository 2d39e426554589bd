package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// APIError is an error with an HTTP status and a stable machine code.
type APIError struct {
	Message    string
	StatusCode int
	Code       string
}

func (e *APIError) Error() string {
	return e.Message
}

func badRequest(format string, args ...any) *APIError {
	return &APIError{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusBadRequest, Code: "BAD_REQUEST"}
}

func notFound(message string) *APIError {
	return &APIError{Message: message, StatusCode: http.StatusNotFound, Code: "NOT_FOUND"}
}

func rateLimited(message string) *APIError {
	return &APIError{Message: message, StatusCode: http.StatusTooManyRequests, Code: "RATE_LIMITED"}
}

func internal(message string) *APIError {
	return &APIError{Message: message, StatusCode: http.StatusInternalServerError, Code: "INTERNAL_ERROR"}
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Timestamp string `json:"timestamp"`
}

// handleError is the single conversion point from errors to HTTP responses.
// Collaborator errors are classified by message ("rate limit" → 429,
// "not found" → 404); no stack traces cross the transport boundary.
func (s *Server) handleError(w http.ResponseWriter, err error) {
	log.Printf("REQUEST_ERROR | error=%v", err)

	apiErr, ok := err.(*APIError)
	if !ok {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "rate limit"):
			apiErr = rateLimited("GitHub API rate limit exceeded. Please try again later.")
		case strings.Contains(msg, "not found"):
			apiErr = notFound(msg)
		default:
			apiErr = internal(msg)
		}
	}

	s.writeJSON(w, apiErr.StatusCode, errorResponse{
		Error:     apiErr.Message,
		Code:      apiErr.Code,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("RESPONSE_ENCODE_ERROR | error=%v", err)
	}
}
