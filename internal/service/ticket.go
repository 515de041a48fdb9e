package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ticketdesk/ticketdesk/internal/domain"
)

// TicketService handles ticket CRUD with validation and ownership checks.
type TicketService struct {
	tickets domain.TicketRepository
}

// NewTicketService creates a new TicketService.
func NewTicketService(tickets domain.TicketRepository) *TicketService {
	return &TicketService{tickets: tickets}
}

// Create validates and stores a new ticket for the user. The ID is a random
// UUID, so rapid successive creations cannot collide.
func (s *TicketService) Create(ctx context.Context, userID int64, ticket *domain.Ticket) error {
	if err := validateTicket(ticket); err != nil {
		return err
	}

	ticket.ID = uuid.NewString()
	ticket.UserID = userID

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

// GetByID returns a ticket after checking the user owns it.
func (s *TicketService) GetByID(ctx context.Context, userID int64, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return ticket, nil
}

// List returns the user's tickets in insertion order, optionally narrowed by
// a case-insensitive substring search over title and description and by a
// status filter ("all" or empty means no status filtering).
func (s *TicketService) List(ctx context.Context, userID int64, query, status string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	if query == "" && (status == "" || status == "all") {
		return tickets, nil
	}

	q := strings.ToLower(query)
	filtered := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if q != "" &&
			!strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			continue
		}
		if status != "" && status != "all" && string(t.Status) != status {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered, nil
}

// Update validates and replaces the ticket with the matching ID, after an
// ownership check. Updating an unknown ID returns ErrNotFound.
func (s *TicketService) Update(ctx context.Context, userID int64, ticket *domain.Ticket) error {
	existing, err := s.tickets.GetByID(ctx, ticket.ID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return domain.ErrUnauthorized
	}

	if err := validateTicket(ticket); err != nil {
		return err
	}

	ticket.UserID = existing.UserID
	ticket.CreatedAt = existing.CreatedAt

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	return nil
}

// Delete removes the ticket with the matching ID after an ownership check.
// Deleting an ID that is not present leaves the store unchanged.
func (s *TicketService) Delete(ctx context.Context, userID int64, id string) error {
	existing, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.UserID != userID {
		return domain.ErrUnauthorized
	}

	return s.tickets.Delete(ctx, id)
}

// Stats returns per-status counts for the user's tickets.
func (s *TicketService) Stats(ctx context.Context, userID int64) (*domain.TicketStats, error) {
	return s.tickets.StatsByUser(ctx, userID)
}

func validateTicket(t *domain.Ticket) error {
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if len(t.Title) < 3 {
		return fmt.Errorf("%w: title must be at least 3 characters", domain.ErrInvalidInput)
	}
	if len(t.Title) > 100 {
		return fmt.Errorf("%w: title must not exceed 100 characters", domain.ErrInvalidInput)
	}

	switch t.Status {
	case domain.StatusOpen, domain.StatusInProgress, domain.StatusClosed:
	default:
		return fmt.Errorf("%w: status must be 'open', 'in_progress', or 'closed'", domain.ErrInvalidInput)
	}

	if len(t.Description) > 500 {
		return fmt.Errorf("%w: description must not exceed 500 characters", domain.ErrInvalidInput)
	}

	switch t.Priority {
	case "", domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
	default:
		return fmt.Errorf("%w: priority must be 'low', 'medium', or 'high'", domain.ErrInvalidInput)
	}

	return nil
}
