// Package rooms turns the flat room list into the per-type catalogue shown
// on the rooms page and handles room selection.
package rooms

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wolfman30/cozyhotel-client/internal/hotelapi"
	"github.com/wolfman30/cozyhotel-client/internal/session"
	"github.com/wolfman30/cozyhotel-client/pkg/logging"
)

const (
	DefaultType = "Standard"
	BookingPath = "booking.html"

	defaultDescription = "Comfortable accommodation for your stay."
	defaultImage       = "standard-room"
	maxImageNumber     = 3
)

// ErrFullyBooked is returned when selecting a type with no free room.
var ErrFullyBooked = errors.New("rooms: this room type is currently fully booked")

var descriptions = map[string]string{
	"Standard":      "Cozy room with essential amenities.",
	"standard":      "Cozy room with essential amenities.",
	"Deluxe":        "King bed, city view, complimentary breakfast.",
	"Delux":         "King bed, city view, complimentary breakfast.",
	"Suite":         "Spacious suite with lounge and balcony.",
	"Premium Suite": "Luxury suite with premium amenities.",
	"Superior":      "Queen bed, garden view, workspace area.",
	"Twin":          "Two twin beds, ideal for friends and family.",
	"Family Suite":  "Two bedrooms, kitchenette, and living area.",
}

var images = map[string]string{
	"Standard":      "standard-room",
	"standard":      "standard-room",
	"Deluxe":        "Deluxe-room",
	"Delux":         "Deluxe-room",
	"Suite":         "executive-room",
	"Premium Suite": "family-suite",
	"Superior":      "superior-room",
	"Twin":          "twin-room",
}

// TypeSummary is one card of the catalogue.
type TypeSummary struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Images      []string        `json:"images"`
	Price       float64         `json:"pricePerNight"`
	RoomID      int             `json:"roomId"`
	Total       int             `json:"total"`
	Available   int             `json:"available"`
	Rooms       []hotelapi.Room `json:"-"`
}

// Bookable reports whether at least one room of the type is free.
func (s TypeSummary) Bookable() bool { return s.Available > 0 }

// Group buckets rooms by type in first-seen order. A missing type counts as
// Standard. The first room of each type supplies the price and id.
func Group(list []hotelapi.Room) []TypeSummary {
	index := make(map[string]int)
	var out []TypeSummary
	for _, room := range list {
		typ := strings.TrimSpace(room.Type)
		if typ == "" {
			typ = DefaultType
		}
		i, ok := index[typ]
		if !ok {
			i = len(out)
			index[typ] = i
			out = append(out, TypeSummary{
				Type:        typ,
				Description: Description(typ),
				Images:      []string{Image(typ, 1), Image(typ, 2)},
				Price:       room.PricePerNight,
				RoomID:      room.ID,
			})
		}
		s := &out[i]
		s.Rooms = append(s.Rooms, room)
		s.Total++
		if room.IsAvailable {
			s.Available++
		}
	}
	return out
}

func Description(roomType string) string {
	if d, ok := descriptions[roomType]; ok {
		return d
	}
	return defaultDescription
}

// Image returns the n-th picture for roomType. Numbers above 3 wrap to 1.
func Image(roomType string, n int) string {
	base, ok := images[roomType]
	if !ok {
		base = defaultImage
	}
	if n < 1 || n > maxImageNumber {
		n = 1
	}
	return fmt.Sprintf("image/%s%d.jpg", base, n)
}

// RoomLister is the part of the rooms API the catalogue reads.
type RoomLister interface {
	List(ctx context.Context) ([]hotelapi.Room, error)
}

// LoginChecker reports whether a credential is stored.
type LoginChecker interface {
	IsLoggedIn(ctx context.Context) bool
}

// Catalogue drives the rooms page.
type Catalogue struct {
	rooms     RoomLister
	creds     LoginChecker
	session   *session.Store
	navigator hotelapi.Navigator
	loginPath string
	logger    *logging.Logger
}

func NewCatalogue(rooms RoomLister, creds LoginChecker, sess *session.Store, nav hotelapi.Navigator, loginPath string, logger *logging.Logger) *Catalogue {
	if loginPath == "" {
		loginPath = hotelapi.DefaultLoginPath
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Catalogue{rooms: rooms, creds: creds, session: sess, navigator: nav, loginPath: loginPath, logger: logger}
}

// List fetches every room and groups it by type.
func (c *Catalogue) List(ctx context.Context) ([]TypeSummary, error) {
	list, err := c.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("rooms: fetched", "count", len(list))
	return Group(list), nil
}

// Select stores the chosen room for the booking page and redirects there.
// A logged-out visitor is sent to login with the booking page queued as the
// post-login target. The returned string is the redirect target.
func (c *Catalogue) Select(ctx context.Context, room session.SelectedRoom, available bool) (string, error) {
	if !available {
		return "", ErrFullyBooked
	}
	if err := c.session.SetSelectedRoom(ctx, room); err != nil {
		return "", err
	}
	if c.creds == nil || !c.creds.IsLoggedIn(ctx) {
		if err := c.session.SetRedirectAfterLogin(ctx, BookingPath); err != nil {
			return "", err
		}
		c.navigator.Redirect(ctx, c.loginPath)
		return c.loginPath, nil
	}
	target := BookingPath + "?roomId=" + strconv.Itoa(room.ID)
	c.navigator.Redirect(ctx, target)
	return target, nil
}
