package portal

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/wolfman30/cozyhotel-client/internal/checkout"
	"github.com/wolfman30/cozyhotel-client/internal/credentials"
	"github.com/wolfman30/cozyhotel-client/internal/hotelapi"
	"github.com/wolfman30/cozyhotel-client/internal/offline"
	"github.com/wolfman30/cozyhotel-client/internal/rooms"
	"github.com/wolfman30/cozyhotel-client/internal/session"
	"github.com/wolfman30/cozyhotel-client/internal/storage"
)

// redirectRecorder is the per-request navigator; the handler turns a
// recorded target into the response.
type redirectRecorder struct {
	mu     sync.Mutex
	target string
}

func (n *redirectRecorder) Redirect(_ context.Context, target string) {
	n.mu.Lock()
	n.target = target
	n.mu.Unlock()
}

func (n *redirectRecorder) Target() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.target
}

// visitor bundles one browser's state for the length of a request.
type visitor struct {
	id      string
	creds   *credentials.Store
	session *session.Store
	offline *offline.Cache
	nav     *redirectRecorder
	api     *hotelapi.Client
}

// visitor loads or assigns the visitor cookie and builds the per-request
// client stack over the visitor's storage namespace.
func (s *Server) visitor(w http.ResponseWriter, r *http.Request) *visitor {
	id := ""
	if c, err := r.Cookie(VisitorCookie); err == nil {
		if parsed, err := uuid.Parse(c.Value); err == nil {
			id = parsed.String()
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	ns := storage.Namespace(s.cfg.Backend, "visitor:"+id+":")
	v := &visitor{
		id:      id,
		creds:   credentials.NewStore(storage.Namespace(ns, "cred:"), s.logger),
		session: session.New(storage.Namespace(ns, "session:")),
		offline: s.offlineCache(id, ns),
		nav:     &redirectRecorder{},
	}
	v.api = hotelapi.New(hotelapi.Options{
		BaseURL:     s.cfg.APIBaseURL,
		HTTPClient:  s.cfg.HTTPClient,
		Credentials: v.creds,
		Navigator:   v.nav,
		LoginPath:   s.cfg.LoginPath,
		HomePath:    s.cfg.HomePath,
		Logger:      s.logger.With("visitor", id),
		Metrics:     s.cfg.Metrics,
	})
	return v
}

func (s *Server) offlineCache(id string, ns storage.Backend) *offline.Cache {
	if c, ok := s.offline.Load(id); ok {
		return c.(*offline.Cache)
	}
	c, _ := s.offline.LoadOrStore(id, offline.New(storage.Namespace(ns, "offline:")))
	return c.(*offline.Cache)
}

func (s *Server) catalogue(v *visitor) *rooms.Catalogue {
	return rooms.NewCatalogue(v.api.Rooms, v.creds, v.session, v.nav, s.cfg.LoginPath, s.logger)
}

func (s *Server) checkout(v *visitor) *checkout.Flow {
	return checkout.New(checkout.Options{
		Bookings: v.api.Bookings,
		Payments: v.api.Payments,
		Card:     s.cfg.Card,
		Offline:  v.offline,
		Demo:     s.cfg.DemoMode,
		Logger:   s.logger,
		Metrics:  s.cfg.Metrics,
	})
}
