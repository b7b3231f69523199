package hotelapi

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultRecentCount      = 5
	DefaultAdminRecentCount = 10
	DefaultTopCustomers     = 10
)

// DashboardService wraps /Dashboard/user and /Dashboard/admin.
type DashboardService struct {
	client *Client
	now    func() time.Time
}

func (s *DashboardService) Stats(ctx context.Context) (*UserStats, error) {
	stats, err := Do[UserStats](ctx, s.client, Call{Path: "/Dashboard/user/stats"})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecentBookings returns the latest count bookings; count <= 0 means 5.
func (s *DashboardService) RecentBookings(ctx context.Context, count int) ([]Booking, error) {
	return Do[[]Booking](ctx, s.client, Call{Path: withCount("/Dashboard/user/recent-bookings", count, DefaultRecentCount)})
}

func (s *DashboardService) UpcomingBookings(ctx context.Context) ([]Booking, error) {
	return Do[[]Booking](ctx, s.client, Call{Path: "/Dashboard/user/upcoming-bookings"})
}

func (s *DashboardService) SpendingSummary(ctx context.Context) (*SpendingSummary, error) {
	summary, err := Do[SpendingSummary](ctx, s.client, Call{Path: "/Dashboard/user/spending-summary"})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *DashboardService) AdminStats(ctx context.Context) (*AdminStats, error) {
	stats, err := Do[AdminStats](ctx, s.client, Call{Path: "/Dashboard/admin/stats"})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminRecentBookings returns the latest count bookings across all users;
// count <= 0 means 10.
func (s *DashboardService) AdminRecentBookings(ctx context.Context, count int) ([]Booking, error) {
	return Do[[]Booking](ctx, s.client, Call{Path: withCount("/Dashboard/admin/recent-bookings", count, DefaultAdminRecentCount)})
}

// RevenueByMonth returns monthly revenue for year; year <= 0 means the
// current year.
func (s *DashboardService) RevenueByMonth(ctx context.Context, year int) ([]MonthlyAmount, error) {
	if year <= 0 {
		now := time.Now
		if s.now != nil {
			now = s.now
		}
		year = now().Year()
	}
	q := url.Values{"year": []string{strconv.Itoa(year)}}
	return Do[[]MonthlyAmount](ctx, s.client, Call{Path: "/Dashboard/admin/revenue-by-month?" + q.Encode()})
}

func (s *DashboardService) RoomTypeStats(ctx context.Context) ([]RoomTypeStat, error) {
	return Do[[]RoomTypeStat](ctx, s.client, Call{Path: "/Dashboard/admin/room-type-stats"})
}

func (s *DashboardService) BookingStatusSummary(ctx context.Context) ([]StatusCount, error) {
	return Do[[]StatusCount](ctx, s.client, Call{Path: "/Dashboard/admin/booking-status-summary"})
}

// TopCustomers returns the count best customers; count <= 0 means 10.
func (s *DashboardService) TopCustomers(ctx context.Context, count int) ([]TopCustomer, error) {
	return Do[[]TopCustomer](ctx, s.client, Call{Path: withCount("/Dashboard/admin/top-customers", count, DefaultTopCustomers)})
}

func withCount(path string, count, fallback int) string {
	if count <= 0 {
		count = fallback
	}
	return path + "?" + url.Values{"count": []string{strconv.Itoa(count)}}.Encode()
}
