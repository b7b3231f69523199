// Package credentials holds the signed-in user's bearer token and profile.
// It is the only owner of that state; everything else goes through Store.
package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/wolfman30/cozyhotel-client/internal/storage"
	"github.com/wolfman30/cozyhotel-client/pkg/logging"
)

// Storage keys, shared with the browser client's localStorage layout.
const (
	TokenKey   = "authToken"
	ProfileKey = "userData"
)

// Store persists at most one credential (token + profile).
//
// Reads never fail: a backend error is logged and reported as "absent".
// Writes return the backend error.
type Store struct {
	backend storage.Backend
	logger  *logging.Logger
	mu      sync.Mutex
}

// NewStore creates a Store over backend.
func NewStore(backend storage.Backend, logger *logging.Logger) *Store {
	if backend == nil {
		backend = storage.NewMemory()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{backend: backend, logger: logger}
}

// Token returns the stored bearer token.
func (s *Store) Token(ctx context.Context) (string, bool) {
	data, ok, err := s.backend.Get(ctx, TokenKey)
	if err != nil {
		s.logger.Warn("credentials: token read failed", "error", err)
		return "", false
	}
	if !ok || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// SetToken replaces the stored token.
func (s *Store) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Set(ctx, TokenKey, []byte(token)); err != nil {
		return fmt.Errorf("credentials: store token: %w", err)
	}
	return nil
}

// Profile returns the stored profile.
func (s *Store) Profile(ctx context.Context) (*Profile, bool) {
	var p Profile
	ok, err := storage.GetJSON(ctx, s.backend, ProfileKey, &p)
	if err != nil {
		s.logger.Warn("credentials: profile read failed", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &p, true
}

// SetProfile replaces the stored profile.
func (s *Store) SetProfile(ctx context.Context, profile *Profile) error {
	if profile == nil {
		return fmt.Errorf("credentials: nil profile")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := storage.SetJSON(ctx, s.backend, ProfileKey, profile); err != nil {
		return fmt.Errorf("credentials: store profile: %w", err)
	}
	return nil
}

// Save stores token and profile together, overwriting any previous credential.
func (s *Store) Save(ctx context.Context, token string, profile *Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("credentials: encode profile: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Set(ctx, TokenKey, []byte(token)); err != nil {
		return fmt.Errorf("credentials: store token: %w", err)
	}
	if err := s.backend.Set(ctx, ProfileKey, data); err != nil {
		return fmt.Errorf("credentials: store profile: %w", err)
	}
	return nil
}

// Clear removes both token and profile.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Delete(ctx, TokenKey, ProfileKey); err != nil {
		return fmt.Errorf("credentials: clear: %w", err)
	}
	return nil
}

// IsLoggedIn is true iff a token is present.
func (s *Store) IsLoggedIn(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

// IsAdmin is true iff the stored profile carries the Admin role.
func (s *Store) IsAdmin(ctx context.Context) bool {
	p, ok := s.Profile(ctx)
	return ok && p.HasRole(AdminRole)
}
