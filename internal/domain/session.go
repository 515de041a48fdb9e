package domain

import (
	"context"
	"time"
)

// Session is the record asserting which user is currently logged in.
// The token doubles as the primary key; FullName and Email carry the owning
// user's profile as of lookup time.
type Session struct {
	Token      string
	UserID     int64
	FullName   string
	Email      string
	RememberMe bool
	CreatedAt  time.Time
}

// SessionRepository defines persistence operations for login sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	// DeleteByToken removes a session. Removing an absent token is a no-op.
	DeleteByToken(ctx context.Context, token string) error
	// DeleteByUser removes every session owned by the user. Starting a new
	// session calls this first, keeping at most one active session per user.
	DeleteByUser(ctx context.Context, userID int64) error
}
