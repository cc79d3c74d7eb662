// Package response defines the JSON envelopes shared by the read API
// handlers.
package response

// APIResponse wraps every successful payload served by the quota read API.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// ErrorResponse is the envelope for 4xx/5xx replies.
type ErrorResponse struct {
	Error string `json:"error"`
}
