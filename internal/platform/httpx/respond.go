// Package httpx provides HTTP response utilities sharing one envelope shape.
package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// Response is the envelope every endpoint returns. Reason and DeveloperMessage
// are only populated on errors.
type Response struct {
	Timestamp        string         `json:"timestamp"`
	StatusCode       int            `json:"statusCode"`
	Status           string         `json:"status"`
	Message          string         `json:"message,omitempty"`
	Reason           string         `json:"reason,omitempty"`
	DeveloperMessage string         `json:"developerMessage,omitempty"`
	Data             map[string]any `json:"data,omitempty"`
}

// JSON sends a success envelope with the given status code.
func JSON(w http.ResponseWriter, status int, message string, data map[string]any) {
	write(w, status, Response{
		Timestamp:  time.Now().Format(time.RFC3339),
		StatusCode: status,
		Status:     http.StatusText(status),
		Message:    message,
		Data:       data,
	})
}

// Fail sends an error envelope. The reason is the user-safe message; the
// developer message carries the underlying error text.
func Fail(w http.ResponseWriter, status int, reason, developerMessage string) {
	write(w, status, Response{
		Timestamp:        time.Now().Format(time.RFC3339),
		StatusCode:       status,
		Status:           http.StatusText(status),
		Reason:           reason,
		DeveloperMessage: developerMessage,
	})
}

func write(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
