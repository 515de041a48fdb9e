package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ticketdesk/ticketdesk/internal/domain"
	"github.com/ticketdesk/ticketdesk/internal/service"
)

// SettingsHandler handles per-user preference requests.
type SettingsHandler struct {
	prefs *service.PreferenceService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(prefs *service.PreferenceService) *SettingsHandler {
	return &SettingsHandler{prefs: prefs}
}

// HandleGet returns the user's preferences, falling back to defaults when
// none are saved.
// GET /api/settings
// Response: {"preferences": {...}}
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	prefs, err := h.prefs.Get(r.Context(), session.UserID)
	if err != nil {
		slog.Error("get preferences", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"preferences": prefs,
	})
}

// HandleUpdate replaces the user's preferences.
// PUT /api/settings
// Request:  {"theme":"dark","emailNotifications":true,"defaultPriority":"low"}
// Response: {"preferences": {...}}
func (h *SettingsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	var prefs service.Preferences
	if err := readJSON(r, &prefs); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.prefs.Set(r.Context(), session.UserID, prefs); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("set preferences", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"preferences": prefs,
	})
}

// HandleReset restores the user's preferences to the defaults.
// DELETE /api/settings
// Response: {"preferences": {...}}
func (h *SettingsHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	if err := h.prefs.Reset(r.Context(), session.UserID); err != nil {
		slog.Error("reset preferences", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"preferences": service.DefaultPreferences(),
	})
}
