package hotelapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// BookingService wraps /Bookings and the admin booking endpoints.
type BookingService struct {
	client *Client
}

// Create books a room. idempotencyKey is sent as Idempotency-Key; an empty
// key gets a fresh uuid so every call is still keyed.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest, idempotencyKey string) (*Booking, error) {
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	booking, err := Do[Booking](ctx, s.client, Call{
		Method: http.MethodPost,
		Path:   "/Bookings",
		Body:   req,
		Header: http.Header{"Idempotency-Key": []string{idempotencyKey}},
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *BookingService) Mine(ctx context.Context) ([]Booking, error) {
	return Do[[]Booking](ctx, s.client, Call{Path: "/Bookings/my-bookings"})
}

func (s *BookingService) Get(ctx context.Context, id int) (*Booking, error) {
	booking, err := Do[Booking](ctx, s.client, Call{Path: bookingPath(id)})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *BookingService) Cancel(ctx context.Context, id int) error {
	_, err := s.client.Request(ctx, Call{Method: http.MethodPut, Path: bookingPath(id) + "/cancel"})
	return err
}

// UpdateStatus sets the booking status. The body is a bare JSON string.
func (s *BookingService) UpdateStatus(ctx context.Context, id int, status string) error {
	_, err := s.client.Request(ctx, Call{Method: http.MethodPut, Path: bookingPath(id) + "/status", Body: status})
	return err
}

// All lists every booking (admin). An empty status lists all of them.
func (s *BookingService) All(ctx context.Context, status string) ([]Booking, error) {
	path := "/Admin/bookings"
	if status != "" {
		path += "?" + url.Values{"status": []string{status}}.Encode()
	}
	return Do[[]Booking](ctx, s.client, Call{Path: path})
}

func (s *BookingService) Approve(ctx context.Context, id int) error {
	return s.adminAction(ctx, id, "approve")
}

func (s *BookingService) Reject(ctx context.Context, id int) error {
	return s.adminAction(ctx, id, "reject")
}

func (s *BookingService) Complete(ctx context.Context, id int) error {
	return s.adminAction(ctx, id, "complete")
}

func (s *BookingService) adminAction(ctx context.Context, id int, action string) error {
	_, err := s.client.Request(ctx, Call{
		Method: http.MethodPut,
		Path:   "/Admin/bookings/" + strconv.Itoa(id) + "/" + action,
	})
	return err
}

func bookingPath(id int) string {
	return "/Bookings/" + strconv.Itoa(id)
}
