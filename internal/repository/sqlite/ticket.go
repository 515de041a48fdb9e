package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ticketdesk/ticketdesk/internal/domain"
)

// TicketRepository implements domain.TicketRepository using SQLite.
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new SQLite-backed TicketRepository.
func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db.SqlDB}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tickets (id, user_id, title, status, description, priority, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, NULL)`,
		ticket.ID, ticket.UserID, ticket.Title, ticket.Status, ticket.Description, ticket.Priority, now,
	)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}

	ticket.CreatedAt = now
	ticket.UpdatedAt = nil
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, status, description, priority, created_at, updated_at
		 FROM tickets WHERE id = ?`, id)

	ticket, err := scanTicket(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query ticket by id: %w", err)
	}
	return ticket, nil
}

// ListByUser returns the user's tickets in insertion order.
func (r *TicketRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, status, description, priority, created_at, updated_at
		 FROM tickets WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, rows.Err()
}

func (r *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE tickets SET title = ?, status = ?, description = ?, priority = ?, updated_at = ?
		 WHERE id = ?`,
		ticket.Title, ticket.Status, ticket.Description, ticket.Priority, now, ticket.ID,
	)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	ticket.UpdatedAt = &now
	return nil
}

func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM tickets WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) StatsByUser(ctx context.Context, userID int64) (*domain.TicketStats, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM tickets WHERE user_id = ? GROUP BY status", userID)
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}
	defer rows.Close()

	stats := &domain.TicketStats{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan ticket count: %w", err)
		}
		stats.Total += count
		switch domain.TicketStatus(status) {
		case domain.StatusOpen:
			stats.Open = count
		case domain.StatusInProgress:
			stats.InProgress = count
		case domain.StatusClosed:
			stats.Closed = count
		}
	}
	return stats, rows.Err()
}

func scanTicket(scan func(dest ...any) error) (*domain.Ticket, error) {
	ticket := &domain.Ticket{}
	var updatedAt sql.NullTime
	err := scan(&ticket.ID, &ticket.UserID, &ticket.Title, &ticket.Status,
		&ticket.Description, &ticket.Priority, &ticket.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		ticket.UpdatedAt = &updatedAt.Time
	}
	return ticket, nil
}
