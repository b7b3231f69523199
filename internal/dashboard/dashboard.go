// Package dashboard loads the user and admin dashboards. Sections are
// fetched concurrently and fail independently.
package dashboard

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/cozyhotel-client/internal/hotelapi"
	"github.com/wolfman30/cozyhotel-client/pkg/logging"
)

// Section is one panel of a dashboard. Error carries the user-facing
// message when the panel failed to load.
type Section[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
	err   error
}

// Err returns the load error of the section.
func (s Section[T]) Err() error { return s.err }

func (s *Section[T]) set(data T, err error) error {
	if err != nil {
		s.err = err
		s.Error = hotelapi.ErrorMessage(err)
		return err
	}
	s.Data = data
	return nil
}

// sessionOnly lets a section failure through to the group only when the
// session expired, which cancels the sibling requests.
func sessionOnly(err error) error {
	if errors.Is(err, hotelapi.ErrAuthenticationRequired) {
		return err
	}
	return nil
}

type UserDashboard struct {
	Stats    Section[*hotelapi.UserStats] `json:"stats"`
	Recent   Section[[]hotelapi.Booking]  `json:"recentBookings"`
	Upcoming Section[[]hotelapi.Booking]  `json:"upcomingBookings"`
}

type AdminDashboard struct {
	Stats         Section[*hotelapi.AdminStats]   `json:"stats"`
	Recent        Section[[]hotelapi.Booking]     `json:"recentBookings"`
	StatusSummary Section[[]hotelapi.StatusCount] `json:"bookingStatusSummary"`
	TopCustomers  Section[[]hotelapi.TopCustomer] `json:"topCustomers"`
}

// API is the part of the dashboard client the loader reads.
type API interface {
	Stats(ctx context.Context) (*hotelapi.UserStats, error)
	RecentBookings(ctx context.Context, count int) ([]hotelapi.Booking, error)
	UpcomingBookings(ctx context.Context) ([]hotelapi.Booking, error)
	AdminStats(ctx context.Context) (*hotelapi.AdminStats, error)
	AdminRecentBookings(ctx context.Context, count int) ([]hotelapi.Booking, error)
	BookingStatusSummary(ctx context.Context) ([]hotelapi.StatusCount, error)
	TopCustomers(ctx context.Context, count int) ([]hotelapi.TopCustomer, error)
}

type Loader struct {
	api    API
	logger *logging.Logger
}

func NewLoader(api API, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Default()
	}
	return &Loader{api: api, logger: logger}
}

// User loads the signed-in user's dashboard. The returned error is non-nil
// only when the session expired; other failures stay on their section.
func (l *Loader) User(ctx context.Context) (*UserDashboard, error) {
	d := &UserDashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sessionOnly(d.Stats.set(l.api.Stats(gctx)))
	})
	g.Go(func() error {
		return sessionOnly(d.Recent.set(l.api.RecentBookings(gctx, hotelapi.DefaultRecentCount)))
	})
	g.Go(func() error {
		return sessionOnly(d.Upcoming.set(l.api.UpcomingBookings(gctx)))
	})
	if err := g.Wait(); err != nil {
		return d, err
	}
	l.logFailures("user", d.Stats.err, d.Recent.err, d.Upcoming.err)
	return d, nil
}

// Admin loads the admin dashboard.
func (l *Loader) Admin(ctx context.Context) (*AdminDashboard, error) {
	d := &AdminDashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sessionOnly(d.Stats.set(l.api.AdminStats(gctx)))
	})
	g.Go(func() error {
		return sessionOnly(d.Recent.set(l.api.AdminRecentBookings(gctx, hotelapi.DefaultAdminRecentCount)))
	})
	g.Go(func() error {
		return sessionOnly(d.StatusSummary.set(l.api.BookingStatusSummary(gctx)))
	})
	g.Go(func() error {
		return sessionOnly(d.TopCustomers.set(l.api.TopCustomers(gctx, hotelapi.DefaultTopCustomers)))
	})
	if err := g.Wait(); err != nil {
		return d, err
	}
	l.logFailures("admin", d.Stats.err, d.Recent.err, d.StatusSummary.err, d.TopCustomers.err)
	return d, nil
}

func (l *Loader) logFailures(kind string, errs ...error) {
	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed > 0 {
		l.logger.Warn("dashboard: sections failed", "dashboard", kind, "failed", failed, "total", len(errs))
	}
}
