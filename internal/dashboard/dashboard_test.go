package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/cozyhotel-client/internal/hotelapi"
	"github.com/wolfman30/cozyhotel-client/pkg/logging"
)

type fakeAPI struct {
	statsErr   error
	recentErr  error
	counts     chan int
	adminStats *hotelapi.AdminStats
	// waitUpcoming makes UpcomingBookings block until its context ends.
	waitUpcoming bool
}

func (f *fakeAPI) Stats(context.Context) (*hotelapi.UserStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return &hotelapi.UserStats{TotalBookings: 3}, nil
}

func (f *fakeAPI) RecentBookings(_ context.Context, count int) ([]hotelapi.Booking, error) {
	f.counts <- count
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	return []hotelapi.Booking{{ID: 1}}, nil
}

func (f *fakeAPI) UpcomingBookings(ctx context.Context) ([]hotelapi.Booking, error) {
	if f.waitUpcoming {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return nil, errors.New("upcoming bookings not cancelled")
		}
	}
	return []hotelapi.Booking{{ID: 2}, {ID: 3}}, nil
}

func (f *fakeAPI) AdminStats(context.Context) (*hotelapi.AdminStats, error) {
	return f.adminStats, nil
}

func (f *fakeAPI) AdminRecentBookings(_ context.Context, count int) ([]hotelapi.Booking, error) {
	f.counts <- count
	return nil, nil
}

func (f *fakeAPI) BookingStatusSummary(context.Context) ([]hotelapi.StatusCount, error) {
	return []hotelapi.StatusCount{{Status: "Pending", Count: 4}}, nil
}

func (f *fakeAPI) TopCustomers(_ context.Context, count int) ([]hotelapi.TopCustomer, error) {
	f.counts <- count
	return nil, errors.New("top customers unavailable")
}

func TestLoader_UserSectionsFailIndependently(t *testing.T) {
	api := &fakeAPI{recentErr: &hotelapi.Error{Kind: hotelapi.KindRequestFailed, Status: 500, Message: "HTTP error 500"}, counts: make(chan int, 4)}
	d, err := NewLoader(api, logging.Discard()).User(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, d.Stats.Data.TotalBookings)
	assert.Empty(t, d.Stats.Error)
	assert.Equal(t, "HTTP error 500", d.Recent.Error)
	assert.Error(t, d.Recent.Err())
	assert.Len(t, d.Upcoming.Data, 2)
	assert.Equal(t, hotelapi.DefaultRecentCount, <-api.counts)
}

func TestLoader_UserSessionExpired(t *testing.T) {
	api := &fakeAPI{statsErr: &hotelapi.Error{Kind: hotelapi.KindAuthenticationRequired, Status: 401}, counts: make(chan int, 4)}
	_, err := NewLoader(api, logging.Discard()).User(context.Background())
	assert.ErrorIs(t, err, hotelapi.ErrAuthenticationRequired)
}

func TestLoader_Admin(t *testing.T) {
	api := &fakeAPI{adminStats: &hotelapi.AdminStats{TotalUsers: 12}, counts: make(chan int, 4)}
	d, err := NewLoader(api, logging.Discard()).Admin(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, d.Stats.Data.TotalUsers)
	assert.Equal(t, "Pending", d.StatusSummary.Data[0].Status)
	assert.Equal(t, "top customers unavailable", d.TopCustomers.Error)

	got := []int{<-api.counts, <-api.counts}
	assert.ElementsMatch(t, []int{hotelapi.DefaultAdminRecentCount, hotelapi.DefaultTopCustomers}, got)
}

func TestLoader_SessionExpiryCancelsOtherSections(t *testing.T) {
	api := &fakeAPI{
		statsErr:     &hotelapi.Error{Kind: hotelapi.KindAuthenticationRequired, Status: 401},
		counts:       make(chan int, 4),
		waitUpcoming: true,
	}
	d, err := NewLoader(api, logging.Discard()).User(context.Background())
	assert.ErrorIs(t, err, hotelapi.ErrAuthenticationRequired)
	assert.ErrorIs(t, d.Upcoming.Err(), context.Canceled)
}
