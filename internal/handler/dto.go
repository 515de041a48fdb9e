package handler

import (
	"time"

	"github.com/ticketdesk/ticketdesk/internal/domain"
)

// UserDTO is the JSON representation of a user. The password hash never
// leaves the server.
type UserDTO struct {
	ID        int64  `json:"id"`
	FullName  string `json:"fullname"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// SessionDTO is the JSON representation of the active session.
type SessionDTO struct {
	ID         int64  `json:"id"`
	FullName   string `json:"fullname"`
	Email      string `json:"email"`
	RememberMe bool   `json:"rememberMe"`
	CreatedAt  string `json:"createdAt"`
}

func toSessionDTO(s *domain.Session) SessionDTO {
	return SessionDTO{
		ID:         s.UserID,
		FullName:   s.FullName,
		Email:      s.Email,
		RememberMe: s.RememberMe,
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
	}
}

// TicketDTO is the JSON representation of a ticket.
type TicketDTO struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Status      string  `json:"status"`
	Description string  `json:"description,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt,omitempty"`
}

func toTicketDTO(t *domain.Ticket) TicketDTO {
	dto := TicketDTO{
		ID:          t.ID,
		Title:       t.Title,
		Status:      string(t.Status),
		Description: t.Description,
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
	if t.UpdatedAt != nil {
		updated := t.UpdatedAt.Format(time.RFC3339)
		dto.UpdatedAt = &updated
	}
	return dto
}

func toTicketDTOs(tickets []domain.Ticket) []TicketDTO {
	dtos := make([]TicketDTO, len(tickets))
	for i := range tickets {
		dtos[i] = toTicketDTO(&tickets[i])
	}
	return dtos
}

// TicketStatsDTO is the JSON representation of per-status ticket counts.
type TicketStatsDTO struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Closed     int `json:"closed"`
}

func toTicketStatsDTO(s *domain.TicketStats) TicketStatsDTO {
	return TicketStatsDTO{
		Total:      s.Total,
		Open:       s.Open,
		InProgress: s.InProgress,
		Closed:     s.Closed,
	}
}
