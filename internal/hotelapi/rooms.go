package hotelapi

import (
	"context"
	"net/url"
	"strconv"
)

// DateLayout is the wire format for check-in/check-out dates.
const DateLayout = "2006-01-02"

// RoomService wraps /Rooms.
type RoomService struct {
	client *Client
}

func (s *RoomService) List(ctx context.Context) ([]Room, error) {
	return Do[[]Room](ctx, s.client, Call{Path: "/Rooms"})
}

func (s *RoomService) Get(ctx context.Context, id int) (*Room, error) {
	room, err := Do[Room](ctx, s.client, Call{Path: "/Rooms/" + strconv.Itoa(id)})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// Available lists rooms of hotelID free between checkIn and checkOut
// (YYYY-MM-DD).
func (s *RoomService) Available(ctx context.Context, hotelID int, checkIn, checkOut string) ([]Room, error) {
	q := url.Values{}
	q.Set("checkIn", checkIn)
	q.Set("checkOut", checkOut)
	return Do[[]Room](ctx, s.client, Call{Path: "/Rooms/available/" + strconv.Itoa(hotelID) + "?" + q.Encode()})
}
