// Package identity owns the durable user identifier and the ephemeral
// cross-page session identifier.
package identity

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/use-agent/mindtrace/models"
	"github.com/use-agent/mindtrace/storage"
)

// Fixed storage keys. The user id lives forever; the session id only bridges
// the navigation from the last quiz page to the results page.
const (
	userIDKey  = "personalityTrackerUserId"
	sessionKey = "personalityTrackerCurrentSessionId"
)

// Manager wraps a durable store with the identifier lifecycle.
type Manager struct {
	store storage.Store
}

// NewManager creates a Manager over the given store.
func NewManager(store storage.Store) *Manager {
	return &Manager{store: store}
}

// GetOrCreateUserID returns the persisted user id, minting and persisting a
// fresh UUIDv4 on first run. Failure to obtain secure randomness is fatal for
// the whole tracker and is returned as NO_SECURE_RANDOM.
func (m *Manager) GetOrCreateUserID() (string, error) {
	if v, ok, err := m.store.Get(userIDKey); err != nil {
		return "", fmt.Errorf("identity: read user id: %w", err)
	} else if ok {
		return v, nil
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return "", models.NewTrackError(models.ErrCodeNoEntropy, "cannot generate user id", err)
	}

	userID := id.String()
	if err := m.store.Set(userIDKey, userID); err != nil {
		return "", fmt.Errorf("identity: persist user id: %w", err)
	}
	slog.Info("created new user id", "userId", userID)
	return userID, nil
}

// StartNewSession mints a fresh session id. It does not persist anything;
// call PersistSession to bridge it across navigation.
func (m *Manager) StartNewSession() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", models.NewTrackError(models.ErrCodeNoEntropy, "cannot generate session id", err)
	}
	return id.String(), nil
}

// PersistSession stores the session id under the fixed session key.
func (m *Manager) PersistSession(id string) error {
	if err := m.store.Set(sessionKey, id); err != nil {
		return fmt.Errorf("identity: persist session: %w", err)
	}
	return nil
}

// StoredSession returns the persisted session id without deleting it.
// Deletion is explicit and happens only after a successful result delivery.
func (m *Manager) StoredSession() (string, bool, error) {
	v, ok, err := m.store.Get(sessionKey)
	if err != nil {
		return "", false, fmt.Errorf("identity: read session: %w", err)
	}
	return v, ok, nil
}

// ClearSession deletes the persisted session id.
func (m *Manager) ClearSession() error {
	if err := m.store.Delete(sessionKey); err != nil {
		return fmt.Errorf("identity: clear session: %w", err)
	}
	return nil
}
