package handler

import (
	"context"
	"net/http"

	"github.com/ticketdesk/ticketdesk/internal/domain"
	"github.com/ticketdesk/ticketdesk/internal/service"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionFromContext extracts the active session from the request context.
// Returns nil if the request is unauthenticated.
func SessionFromContext(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(sessionContextKey).(*domain.Session)
	return session
}

// RequireAuth is middleware that guards routes requiring a logged-in user.
// It reads the auth_token cookie, resolves it against the session store, and
// injects the session into the request context. The decision is made fresh on
// every request; nothing is cached. Requests without a live session get 401.
func RequireAuth(sessions *service.SessionService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := authenticateRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Session expired. Please log in to continue.")
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func authenticateRequest(r *http.Request, sessions *service.SessionService) (*domain.Session, error) {
	cookie, err := r.Cookie("auth_token")
	if err != nil {
		return nil, domain.ErrNoSession
	}

	return sessions.Current(r.Context(), cookie.Value)
}

// SecurityHeaders wraps a handler and sets common security response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
