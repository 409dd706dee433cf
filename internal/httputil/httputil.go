// Package httputil provides utility functions for HTTP servers.
package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// EncodeJSON encodes v to JSON, sets status, and writes it to w.
func EncodeJSON[T any](w http.ResponseWriter, statusCode int, v T) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}

	return nil
}

// MaxBodyBytes is the largest request body DecodeJSON reads.
const MaxBodyBytes = 100 << 10

// DecodeJSON decodes JSON from the body of r.
// Bodies over MaxBodyBytes fail with an error wrapping *http.MaxBytesError.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var v T
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&v); err != nil {
		return v, fmt.Errorf("failed to decode json: %w", err)
	}

	return v, nil
}

// MessageResponse is the body of every error response.
type MessageResponse struct {
	Message string `json:"message"`
}

// EncodeMessage writes a {"message": msg} body with the given status.
func EncodeMessage(w http.ResponseWriter, statusCode int, msg string) error {
	return EncodeJSON(w, statusCode, MessageResponse{Message: msg})
}
