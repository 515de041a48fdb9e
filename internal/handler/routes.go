package handler

import (
	"net/http"

	"github.com/ticketdesk/ticketdesk/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	sessions *service.SessionService,
	tickets *service.TicketService,
	prefs *service.PreferenceService,
	cookieSecure bool,
) {
	// Allow a burst of 5 login attempts per client, refilling one every 2s.
	loginLimiter := service.NewTokenBucket(0.5, 5)

	authHandler := NewAuthHandler(auth, sessions, loginLimiter, cookieSecure)
	ticketHandler := NewTicketHandler(tickets)
	settingsHandler := NewSettingsHandler(prefs)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", authHandler.HandleLogout)
	mux.Handle("GET /api/auth/me", RequireAuth(sessions, http.HandlerFunc(authHandler.HandleMe)))

	mux.Handle("GET /api/tickets", RequireAuth(sessions, http.HandlerFunc(ticketHandler.HandleList)))
	mux.Handle("POST /api/tickets", RequireAuth(sessions, http.HandlerFunc(ticketHandler.HandleCreate)))
	mux.Handle("GET /api/tickets/stats", RequireAuth(sessions, http.HandlerFunc(ticketHandler.HandleStats)))
	mux.Handle("GET /api/tickets/{id}", RequireAuth(sessions, http.HandlerFunc(ticketHandler.HandleGet)))
	mux.Handle("PUT /api/tickets/{id}", RequireAuth(sessions, http.HandlerFunc(ticketHandler.HandleUpdate)))
	mux.Handle("DELETE /api/tickets/{id}", RequireAuth(sessions, http.HandlerFunc(ticketHandler.HandleDelete)))

	mux.Handle("GET /api/settings", RequireAuth(sessions, http.HandlerFunc(settingsHandler.HandleGet)))
	mux.Handle("PUT /api/settings", RequireAuth(sessions, http.HandlerFunc(settingsHandler.HandleUpdate)))
	mux.Handle("DELETE /api/settings", RequireAuth(sessions, http.HandlerFunc(settingsHandler.HandleReset)))
}
