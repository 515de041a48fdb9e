package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"

	"github.com/ticketdesk/ticketdesk/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var (
	hasUpper = regexp.MustCompile(`[A-Z]`)
	hasLower = regexp.MustCompile(`[a-z]`)
	hasDigit = regexp.MustCompile(`[0-9]`)
)

// AuthService handles user registration and credential checks.
type AuthService struct {
	users      domain.UserRepository
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, bcryptCost int) *AuthService {
	return &AuthService{users: users, bcryptCost: bcryptCost}
}

// Register creates a new user account after validating inputs.
func (s *AuthService) Register(ctx context.Context, fullName, email, password string) (*domain.User, error) {
	if len(fullName) < 2 {
		return nil, fmt.Errorf("%w: full name must be at least 2 characters", domain.ErrInvalidInput)
	}
	if len(fullName) > 50 {
		return nil, fmt.Errorf("%w: full name must not exceed 50 characters", domain.ErrInvalidInput)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}

	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}
	if !hasUpper.MatchString(password) {
		return nil, fmt.Errorf("%w: password must contain at least one uppercase letter", domain.ErrInvalidInput)
	}
	if !hasLower.MatchString(password) {
		return nil, fmt.Errorf("%w: password must contain at least one lowercase letter", domain.ErrInvalidInput)
	}
	if !hasDigit.MatchString(password) {
		return nil, fmt.Errorf("%w: password must contain at least one number", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and returns the matching user.
// The wrapped messages distinguish an unknown email from a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: email not found", domain.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: incorrect password", domain.ErrInvalidCredentials)
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
