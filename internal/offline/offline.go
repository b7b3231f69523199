// Package offline records bookings locally when the client runs in demo
// mode and no server is involved.
package offline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/cozyhotel-client/internal/storage"
)

// BookingsKey matches the browser demo's localStorage key.
const BookingsKey = "user_bookings"

// Booking is one demo-mode booking.
type Booking struct {
	ID       string    `json:"id"`
	RoomID   int       `json:"roomId,omitempty"`
	Room     string    `json:"room"`
	Price    float64   `json:"price"`
	CheckIn  string    `json:"date"`
	CheckOut string    `json:"checkOut,omitempty"`
	Guests   int       `json:"guests,omitempty"`
	SavedAt  time.Time `json:"savedAt"`
}

// Cache is an append-only list of demo bookings.
type Cache struct {
	backend storage.Backend
	mu      sync.Mutex
	now     func() time.Time
}

func New(backend storage.Backend) *Cache {
	if backend == nil {
		backend = storage.NewMemory()
	}
	return &Cache{backend: backend, now: time.Now}
}

// Record appends b, assigning an id and timestamp.
func (c *Cache) Record(ctx context.Context, b Booking) (Booking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.list(ctx)
	if err != nil {
		return Booking{}, err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.SavedAt = c.now().UTC()
	existing = append(existing, b)
	if err := storage.SetJSON(ctx, c.backend, BookingsKey, existing); err != nil {
		return Booking{}, fmt.Errorf("offline: save booking: %w", err)
	}
	return b, nil
}

// List returns the recorded bookings, oldest first.
func (c *Cache) List(ctx context.Context) ([]Booking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list(ctx)
}

func (c *Cache) list(ctx context.Context) ([]Booking, error) {
	var out []Booking
	if _, err := storage.GetJSON(ctx, c.backend, BookingsKey, &out); err != nil {
		return nil, fmt.Errorf("offline: load bookings: %w", err)
	}
	return out, nil
}
