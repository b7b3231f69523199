// Package portal serves the hotel client over HTTP for browser front ends.
// Each visitor (identified by cookie) gets an isolated credential store and
// session namespace, and every call to the hotel API goes through the same
// request pipeline the CLI uses.
package portal

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/cozyhotel-client/internal/chat"
	"github.com/wolfman30/cozyhotel-client/internal/checkout"
	httpmiddleware "github.com/wolfman30/cozyhotel-client/internal/http/middleware"
	"github.com/wolfman30/cozyhotel-client/internal/observability/metrics"
	"github.com/wolfman30/cozyhotel-client/internal/storage"
	"github.com/wolfman30/cozyhotel-client/pkg/logging"
)

const (
	VisitorCookie = "cozyhotel_sid"

	userDashboardPath  = "user-dashboard.html"
	adminDashboardPath = "admin-dashboard.html"
)

// Config wires the portal.
type Config struct {
	APIBaseURL         string
	HTTPClient         *http.Client
	Backend            storage.Backend
	SessionTTL         time.Duration
	LoginPath          string
	HomePath           string
	DemoMode           bool
	ChatMode           chat.Mode
	HotelID            int
	Card               checkout.CardConfirmer
	CORSAllowedOrigins []string
	SecureCookies      bool
	AuthRateLimit      float64
	AuthBurst          int
	Logger             *logging.Logger
	Metrics            *metrics.APIMetrics
	MetricsHandler     http.Handler
}

// Server holds shared dependencies; per-visitor state lives in Backend.
type Server struct {
	cfg    Config
	logger *logging.Logger

	// offline holds one cache per visitor id so concurrent requests from
	// the same browser share its lock.
	offline sync.Map
}

func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Backend == nil {
		cfg.Backend = storage.NewMemory()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "login.html"
	}
	if cfg.HomePath == "" {
		cfg.HomePath = "index.html"
	}
	if cfg.HotelID <= 0 {
		cfg.HotelID = 1
	}
	if cfg.AuthRateLimit <= 0 {
		cfg.AuthRateLimit = 1
	}
	if cfg.AuthBurst <= 0 {
		cfg.AuthBurst = 10
	}
	return &Server{cfg: cfg, logger: cfg.Logger}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if len(s.cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(s.cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(s.logger))

	r.Get("/health", s.handleHealth)
	if s.cfg.MetricsHandler != nil {
		r.Handle("/metrics", s.cfg.MetricsHandler)
	}

	limiter := httpmiddleware.NewRateLimiter(s.cfg.AuthRateLimit, s.cfg.AuthBurst)
	r.Group(func(auth chi.Router) {
		auth.Use(limiter.Middleware)
		auth.Post("/login", s.handleLogin)
		auth.Post("/signup", s.handleSignup)
		auth.Post("/verify-otp", s.handleVerifyOTP)
	})
	r.Post("/logout", s.handleLogout)

	r.Get("/rooms", s.handleRooms)
	r.Post("/rooms/select", s.handleSelectRoom)

	r.Route("/bookings", func(b chi.Router) {
		b.Get("/", s.handleMyBookings)
		b.Post("/", s.handleCreateBooking)
		b.Post("/{id}/cancel", s.handleCancelBooking)
	})

	r.Get("/dashboard", s.handleUserDashboard)
	r.Get("/admin/dashboard", s.handleAdminDashboard)
	r.Post("/chat", s.handleChat)

	return r
}
