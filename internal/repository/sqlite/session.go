package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ticketdesk/ticketdesk/internal/domain"
)

// SessionRepository implements domain.SessionRepository using SQLite.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SQLite-backed SessionRepository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db.SqlDB}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, remember_me, created_at)
		 VALUES (?, ?, ?, ?)`,
		session.Token, session.UserID, session.RememberMe, now,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	session.CreatedAt = now
	return nil
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	session := &domain.Session{}
	err := r.db.QueryRowContext(ctx,
		`SELECT s.token, s.user_id, u.full_name, u.email, s.remember_me, s.created_at
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.token = ?`, token,
	).Scan(&session.Token, &session.UserID, &session.FullName, &session.Email, &session.RememberMe, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query session by token: %w", err)
	}
	return session, nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete sessions for user: %w", err)
	}
	return nil
}
