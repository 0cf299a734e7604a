// Package handlers provides HTTP API handlers for the Folio server.
package handlers

// ErrorResponse is the standard API error body (message only).
type ErrorResponse struct {
	Message string `json:"message"`
}
