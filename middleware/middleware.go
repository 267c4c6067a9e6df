// Package middleware holds the HTTP middleware shared by every route:
// bearer authentication, request logging, panic recovery and security
// headers.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"recreo/auth"
	"recreo/errs"
	"recreo/globals"
	"recreo/logging"
	"recreo/metrics"
	"recreo/models"
	"recreo/utils"
)

const (
	NoTokenMsg      = "No authorization token was found."
	BadFormatMsg    = "Format is Authorization: Bearer [token]"
	UserNotFoundMsg = "User not found."
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Authenticate requires a valid bearer token whose email belongs to a
// stored user, and puts that user's identity on the request context.
func Authenticate(tokens TokenVerifier, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				utils.RespondWithError(w, http.StatusUnauthorized, NoTokenMsg)
				return
			}
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				utils.RespondWithError(w, http.StatusUnauthorized, BadFormatMsg)
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				utils.RespondWithErr(w, err)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), globals.RequestTimeout)
			u, err := users.FindByEmail(ctx, claims.Email)
			cancel()
			if errors.Is(err, errs.ErrNoDocument) {
				utils.RespondWithError(w, http.StatusUnauthorized, UserNotFoundMsg)
				return
			}
			if err != nil {
				utils.RespondWithErr(w, errs.Wrap("auth.identity", err))
				return
			}

			who := globals.Identity{ID: u.ID.Hex(), Email: u.Email, Name: u.Name, Nickname: u.Nickname}
			next.ServeHTTP(w, r.WithContext(utils.WithIdentity(r.Context(), who)))
		})
	}
}

// RequestLogger logs each request once and records its duration under the
// matched route pattern.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := utils.RequestID(r)
		w.Header().Set("X-Request-ID", reqID)
		r = r.WithContext(context.WithValue(r.Context(), globals.RequestIDKey, reqID))

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())

		logging.Info().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("route", route).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", elapsed).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

// PanicMsg is the body sent when a handler panics.
const PanicMsg = "Internal server error."

// Recoverer turns a handler panic into a logged 500 with a JSON body. It
// belongs inside RequestLogger so the request id is on the context.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			reqID, _ := r.Context().Value(globals.RequestIDKey).(string)
			logging.Error().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")
			utils.RespondWithError(w, http.StatusInternalServerError, PanicMsg)
		}()
		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders sets the response hardening headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "frame-ancestors 'none'")
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}
