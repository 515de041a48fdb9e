package handler

import (
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/ticketdesk/ticketdesk/internal/domain"
	"github.com/ticketdesk/ticketdesk/internal/service"
)

const rememberMeMaxAge = 30 * 24 * 60 * 60 // 30 days, in seconds

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth         *service.AuthService
	sessions     *service.SessionService
	loginLimiter *service.TokenBucket
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, loginLimiter *service.TokenBucket, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		sessions:     sessions,
		loginLimiter: loginLimiter,
		cookieSecure: cookieSecure,
	}
}

// HandleRegister processes a JSON registration request. A successful signup
// also logs the user in, matching the signup-then-dashboard flow.
// POST /api/auth/register
// Request:  {"fullname":"...","email":"...","password":"...","agreeToTerms":true}
// Response: {"user": {...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName     string `json:"fullname"`
		Email        string `json:"email"`
		Password     string `json:"password"`
		AgreeToTerms bool   `json:"agreeToTerms"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if !req.AgreeToTerms {
		writeError(w, http.StatusUnprocessableEntity, "You must agree to the terms and conditions.")
		return
	}

	user, err := h.auth.Register(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "An account with that email already exists.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("register user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	session, err := h.sessions.Start(r.Context(), user, false)
	if err != nil {
		slog.Error("start session after register", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	h.setSessionCookie(w, session)

	writeJSON(w, http.StatusCreated, map[string]any{
		"user": toUserDTO(user),
	})
}

// HandleLogin processes a JSON login request.
// POST /api/auth/login
// Request:  {"email":"...","password":"...","rememberMe":false}
// Response: {"user": {...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.loginLimiter.Allow(clientAddr(r)) {
		writeError(w, http.StatusTooManyRequests, "Too many login attempts. Please wait and try again.")
		return
	}

	var req struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		RememberMe bool   `json:"rememberMe"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		slog.Error("login user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	session, err := h.sessions.Start(r.Context(), user, req.RememberMe)
	if err != nil {
		slog.Error("start session after login", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	h.setSessionCookie(w, session)

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user),
	})
}

// HandleLogout ends the session and clears the auth cookie. Logging out
// without a session is a no-op.
// POST /api/auth/logout
// Response: 204 No Content
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("auth_token"); err == nil {
		if err := h.sessions.End(r.Context(), cookie.Value); err != nil {
			slog.Error("end session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the currently authenticated session.
// GET /api/auth/me
// Response: {"session": {...}}
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	if session == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session": toSessionDTO(session),
	})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, session *domain.Session) {
	cookie := &http.Cookie{
		Name:     "auth_token",
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	// "Keep me logged in" only affects how long the browser keeps the
	// cookie; the stored session itself never expires.
	if session.RememberMe {
		cookie.MaxAge = rememberMeMaxAge
	}
	http.SetCookie(w, cookie)
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
