// Package response writes JSON responses in the storefront API's wire shape:
// plain payloads on success, `{"message": ...}` for expected failures, and
// `{"message": "Server error", "error": ...}` for unhandled ones.
package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// OK sends a 200 with the payload as-is.
func OK(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusOK, v)
}

// Created sends a 201 with the payload as-is.
func Created(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusCreated, v)
}

// Error sends a JSON error with a human-readable message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

// ValidationError sends a 400 with field-level error details.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	JSON(w, http.StatusBadRequest, map[string]interface{}{
		"message": "Validation failed",
		"errors":  errs,
	})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

// Forbidden sends the API's access-denial shape.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Access denied")
}

// NotFound sends a 404 with the given message.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// ServerError sends a 500 with a generic message and the underlying error text.
func ServerError(w http.ResponseWriter, err error) {
	JSON(w, http.StatusInternalServerError, map[string]string{
		"message": "Server error",
		"error":   err.Error(),
	})
}
