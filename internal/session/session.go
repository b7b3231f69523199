// Package session keeps the short-lived page handoff state: the room picked
// on the listing page and where to go after login.
package session

import (
	"context"
	"fmt"

	"github.com/wolfman30/cozyhotel-client/internal/storage"
)

const (
	SelectedRoomKey       = "selectedRoom"
	RedirectAfterLoginKey = "redirectAfterLogin"
)

// SelectedRoom is the room handed from the listing page to the booking page.
type SelectedRoom struct {
	ID    int     `json:"id"`
	Type  string  `json:"type"`
	Price float64 `json:"price"`
}

// Store is session-scoped state over a storage backend.
type Store struct {
	backend storage.Backend
}

func New(backend storage.Backend) *Store {
	if backend == nil {
		backend = storage.NewMemory()
	}
	return &Store{backend: backend}
}

func (s *Store) SetSelectedRoom(ctx context.Context, room SelectedRoom) error {
	if err := storage.SetJSON(ctx, s.backend, SelectedRoomKey, room); err != nil {
		return fmt.Errorf("session: save selected room: %w", err)
	}
	return nil
}

// SelectedRoom returns the pending room selection, if any.
func (s *Store) SelectedRoom(ctx context.Context) (*SelectedRoom, bool, error) {
	var room SelectedRoom
	ok, err := storage.GetJSON(ctx, s.backend, SelectedRoomKey, &room)
	if err != nil {
		return nil, false, fmt.Errorf("session: load selected room: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return &room, true, nil
}

func (s *Store) ClearSelectedRoom(ctx context.Context) error {
	return s.backend.Delete(ctx, SelectedRoomKey)
}

func (s *Store) SetRedirectAfterLogin(ctx context.Context, target string) error {
	if err := s.backend.Set(ctx, RedirectAfterLoginKey, []byte(target)); err != nil {
		return fmt.Errorf("session: save redirect: %w", err)
	}
	return nil
}

// TakeRedirectAfterLogin returns the stored post-login target and forgets
// it, or fallback when none is stored.
func (s *Store) TakeRedirectAfterLogin(ctx context.Context, fallback string) (string, error) {
	data, ok, err := s.backend.Get(ctx, RedirectAfterLoginKey)
	if err != nil {
		return fallback, fmt.Errorf("session: load redirect: %w", err)
	}
	if !ok || len(data) == 0 {
		return fallback, nil
	}
	if err := s.backend.Delete(ctx, RedirectAfterLoginKey); err != nil {
		return string(data), fmt.Errorf("session: clear redirect: %w", err)
	}
	return string(data), nil
}
