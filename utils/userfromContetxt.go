package utils

import (
	"context"
	"net/http"

	"recreo/globals"
)

// IdentityFromRequest returns the caller resolved by the authentication
// middleware.
func IdentityFromRequest(r *http.Request) (globals.Identity, bool) {
	return IdentityFromContext(r.Context())
}

func IdentityFromContext(ctx context.Context) (globals.Identity, bool) {
	id, ok := ctx.Value(globals.IdentityKey).(globals.Identity)
	if !ok || id.Email == "" {
		return globals.Identity{}, false
	}
	return id, true
}

// WithIdentity stores id on ctx.
func WithIdentity(ctx context.Context, id globals.Identity) context.Context {
	return context.WithValue(ctx, globals.IdentityKey, id)
}
