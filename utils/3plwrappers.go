package utils

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID returns the caller's X-Request-ID, or a fresh UUID when none
// was sent.
func RequestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return uuid.New().String()
}
