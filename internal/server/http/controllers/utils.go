package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/pluglog/pluglog/internal/entry"
	logsvc "github.com/pluglog/pluglog/internal/services/logs"
)

// Helper functions for common HTTP responses

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response with the given data.
func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// writeCreated writes a 201 Created response with a JSON body.
func writeCreated(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(data)
}

// writeServiceError maps service errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, logsvc.ErrMissingMessage),
		errors.Is(err, logsvc.ErrMessageTooLarge),
		errors.Is(err, logsvc.ErrBadFilter),
		errors.Is(err, logsvc.ErrNoTarget),
		errors.Is(err, entry.ErrBadSort):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, logsvc.ErrUnknownSession):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, logsvc.ErrSessionEnded):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// parseInt parses a positive integer query value, returning 0 when absent
// or invalid.
func parseInt(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return 0
}

// parseBool parses a boolean query value, defaulting to false.
func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}
