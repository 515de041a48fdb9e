package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ticketdesk/ticketdesk/internal/domain"
	"github.com/ticketdesk/ticketdesk/internal/service"
)

// TicketHandler handles ticket CRUD HTTP requests. Every route is behind
// RequireAuth, so a session is always present in the context.
type TicketHandler struct {
	tickets *service.TicketService
}

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(tickets *service.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

type ticketRequest struct {
	Title       string `json:"title"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// HandleList returns the user's tickets, optionally filtered.
// GET /api/tickets?q=...&status=open|in_progress|closed|all
// Response: {"tickets": [...]}
func (h *TicketHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	tickets, err := h.tickets.List(r.Context(), session.UserID, r.URL.Query().Get("q"), r.URL.Query().Get("status"))
	if err != nil {
		slog.Error("list tickets", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tickets": toTicketDTOs(tickets),
	})
}

// HandleCreate creates a new ticket for the user.
// POST /api/tickets
// Request:  {"title":"...","status":"open","description":"...","priority":"low"}
// Response: {"ticket": {...}}
func (h *TicketHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	var req ticketRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	ticket := &domain.Ticket{
		Title:       req.Title,
		Status:      domain.TicketStatus(req.Status),
		Description: req.Description,
		Priority:    domain.TicketPriority(req.Priority),
	}

	if err := h.tickets.Create(r.Context(), session.UserID, ticket); err != nil {
		h.respondTicketError(w, err, "create ticket")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"ticket": toTicketDTO(ticket),
	})
}

// HandleGet returns a single ticket.
// GET /api/tickets/{id}
// Response: {"ticket": {...}}
func (h *TicketHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	ticket, err := h.tickets.GetByID(r.Context(), session.UserID, r.PathValue("id"))
	if err != nil {
		h.respondTicketError(w, err, "get ticket")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ticket": toTicketDTO(ticket),
	})
}

// HandleUpdate replaces the ticket with the matching ID.
// PUT /api/tickets/{id}
// Request:  {"title":"...","status":"closed","description":"...","priority":"high"}
// Response: {"ticket": {...}}
func (h *TicketHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	var req ticketRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	ticket := &domain.Ticket{
		ID:          r.PathValue("id"),
		Title:       req.Title,
		Status:      domain.TicketStatus(req.Status),
		Description: req.Description,
		Priority:    domain.TicketPriority(req.Priority),
	}

	if err := h.tickets.Update(r.Context(), session.UserID, ticket); err != nil {
		h.respondTicketError(w, err, "update ticket")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ticket": toTicketDTO(ticket),
	})
}

// HandleDelete removes the ticket with the matching ID. Deleting a ticket
// that does not exist succeeds without changing anything.
// DELETE /api/tickets/{id}
// Response: 204 No Content
func (h *TicketHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	if err := h.tickets.Delete(r.Context(), session.UserID, r.PathValue("id")); err != nil {
		h.respondTicketError(w, err, "delete ticket")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleStats returns per-status counts for the user's tickets.
// GET /api/tickets/stats
// Response: {"stats": {"total":n,"open":n,"in_progress":n,"closed":n}}
func (h *TicketHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	stats, err := h.tickets.Stats(r.Context(), session.UserID)
	if err != nil {
		slog.Error("ticket stats", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stats": toTicketStatsDTO(stats),
	})
}

func (h *TicketHandler) respondTicketError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Ticket not found.")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "You do not have access to this ticket.")
	default:
		slog.Error(action, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
