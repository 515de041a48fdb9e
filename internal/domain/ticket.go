package domain

import (
	"context"
	"time"
)

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in_progress"
	StatusClosed     TicketStatus = "closed"
)

// TicketPriority is the optional urgency of a ticket. Empty means unset.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
)

// Ticket is a unit of trackable work owned by exactly one user.
type Ticket struct {
	ID          string
	UserID      int64
	Title       string
	Status      TicketStatus
	Description string
	Priority    TicketPriority
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// TicketStats holds per-status counts for one user's tickets.
type TicketStats struct {
	Total      int
	Open       int
	InProgress int
	Closed     int
}

// TicketRepository defines persistence operations for tickets.
// ListByUser preserves insertion order, which is also display order.
type TicketRepository interface {
	Create(ctx context.Context, ticket *Ticket) error
	GetByID(ctx context.Context, id string) (*Ticket, error)
	ListByUser(ctx context.Context, userID int64) ([]Ticket, error)
	Update(ctx context.Context, ticket *Ticket) error
	// Delete removes a ticket. Deleting an absent ID is a no-op.
	Delete(ctx context.Context, id string) error
	StatsByUser(ctx context.Context, userID int64) (*TicketStats, error)
}
