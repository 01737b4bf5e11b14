// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP JSON API over the post and tag
// stores. Handlers parse and validate primitives from the request, call
// store operations, and marshal plain structs back — no store type ever
// sees a framework request or response.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorResponse is the body for every non-2xx reply.
type errorResponse struct {
	Message string `json:"message"`
}

// writeJSON marshals v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError replies with a JSON message body and the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// notFound replies 404 with a message.
func notFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, message)
}

// serverError logs err and replies 500 without leaking details.
func serverError(w http.ResponseWriter, err error) {
	slog.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "There was a problem processing your request")
}
