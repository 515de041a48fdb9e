package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ticketdesk/ticketdesk/internal/domain"
)

// SessionService manages the login session lifecycle. Tokens are signed JWTs
// that are also persisted, so logout actually revokes them. Sessions have no
// expiry; they live until an explicit End.
type SessionService struct {
	sessions  domain.SessionRepository
	jwtSecret []byte
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessions domain.SessionRepository, jwtSecret string) *SessionService {
	return &SessionService{sessions: sessions, jwtSecret: []byte(jwtSecret)}
}

// Start mints a fresh token for the user and persists the session, replacing
// any session the user already had. At most one session per user is active.
func (s *SessionService) Start(ctx context.Context, user *domain.User, rememberMe bool) (*domain.Session, error) {
	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	if err := s.sessions.DeleteByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("replace existing session: %w", err)
	}

	session := &domain.Session{
		Token:      token,
		UserID:     user.ID,
		FullName:   user.FullName,
		Email:      user.Email,
		RememberMe: rememberMe,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return session, nil
}

// Current returns the session for the given token, or ErrNoSession if the
// token is invalid or no longer stored. Presence of the stored record is the
// entire authorization decision; there is no expiry check.
func (s *SessionService) Current(ctx context.Context, token string) (*domain.Session, error) {
	if _, err := s.parseToken(token); err != nil {
		return nil, domain.ErrNoSession
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoSession
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// End removes the session for the given token. Ending an absent or invalid
// token is a no-op.
func (s *SessionService) End(ctx context.Context, token string) error {
	return s.sessions.DeleteByToken(ctx, token)
}

func (s *SessionService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		// Random jti keeps tokens distinct even when two logins land on the
		// same clock tick.
		"jti": uuid.NewString(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *SessionService) parseToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	return userID, nil
}
