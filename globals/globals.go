package globals

import (
	"time"
)

// RequestTimeout bounds the store work of a single request.
const RequestTimeout = 5 * time.Second

// Context keys
type ContextKey string

const IdentityKey ContextKey = "identity"
const RequestIDKey ContextKey = "requestId"

// Identity is the authenticated caller, resolved once per request by the
// authentication middleware.
type Identity struct {
	ID       string
	Email    string
	Name     string
	Nickname string
}
