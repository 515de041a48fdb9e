package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ticketdesk/ticketdesk/internal/domain"
)

// Preferences holds a user's dashboard settings, stored as one JSON value in
// the key-value store.
type Preferences struct {
	Theme              string `json:"theme"`
	EmailNotifications bool   `json:"emailNotifications"`
	DefaultPriority    string `json:"defaultPriority"`
}

// DefaultPreferences returns the settings applied before a user saves any.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:              "system",
		EmailNotifications: true,
		DefaultPriority:    "",
	}
}

// PreferenceService stores per-user preferences in the key-value store.
type PreferenceService struct {
	kv domain.KVStore
}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService(kv domain.KVStore) *PreferenceService {
	return &PreferenceService{kv: kv}
}

// Get returns the user's saved preferences. Absent or malformed stored values
// degrade to the defaults rather than surfacing an error.
func (s *PreferenceService) Get(ctx context.Context, userID int64) (Preferences, error) {
	value, err := s.kv.Get(ctx, prefsKey(userID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return DefaultPreferences(), nil
		}
		return Preferences{}, fmt.Errorf("get preferences: %w", err)
	}

	var prefs Preferences
	if err := json.Unmarshal([]byte(value), &prefs); err != nil {
		return DefaultPreferences(), nil
	}
	return prefs, nil
}

// Set validates and persists the user's preferences.
func (s *PreferenceService) Set(ctx context.Context, userID int64, prefs Preferences) error {
	switch prefs.Theme {
	case "light", "dark", "system":
	default:
		return fmt.Errorf("%w: theme must be 'light', 'dark', or 'system'", domain.ErrInvalidInput)
	}

	switch domain.TicketPriority(prefs.DefaultPriority) {
	case "", domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
	default:
		return fmt.Errorf("%w: default priority must be 'low', 'medium', or 'high'", domain.ErrInvalidInput)
	}

	value, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	if err := s.kv.Set(ctx, prefsKey(userID), string(value)); err != nil {
		return fmt.Errorf("set preferences: %w", err)
	}
	return nil
}

// Reset removes the user's saved preferences, restoring the defaults.
func (s *PreferenceService) Reset(ctx context.Context, userID int64) error {
	return s.kv.Delete(ctx, prefsKey(userID))
}

func prefsKey(userID int64) string {
	return fmt.Sprintf("prefs:%d", userID)
}
