package portal

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/cozyhotel-client/internal/chat"
	"github.com/wolfman30/cozyhotel-client/internal/storage"
	"github.com/wolfman30/cozyhotel-client/pkg/logging"
)

// fakeHotelAPI is a minimal upstream that issues token "tok-<email>".
type fakeHotelAPI struct {
	mu         sync.Mutex
	authHeader []string
	expired    bool
}

func (f *fakeHotelAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.authHeader = append(f.authHeader, r.Header.Get("Authorization"))
	expired := f.expired
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path != "/api/Auth/login" && expired {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"token expired"}`)
		return
	}
	switch r.URL.Path {
	case "/api/Auth/login":
		var body struct{ Email string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email == "admin@x.com" {
			_, _ = io.WriteString(w, `{"success":true,"token":"tok-admin","firstName":"Ada","roles":["Admin"]}`)
			return
		}
		_, _ = io.WriteString(w, `{"success":true,"token":"tok-user","firstName":"A","email":"`+body.Email+`"}`)
	case "/api/Rooms":
		_, _ = io.WriteString(w, `[{"id":1,"type":"Suite","pricePerNight":300,"isAvailable":true},{"id":2,"type":"Suite","isAvailable":false},{"id":3,"pricePerNight":80,"isAvailable":true}]`)
	case "/api/Bookings/my-bookings":
		_, _ = io.WriteString(w, `[{"id":7,"roomId":1,"status":"Pending"}]`)
	case "/api/Dashboard/user/stats":
		_, _ = io.WriteString(w, `{"totalBookings":2}`)
	case "/api/Dashboard/user/recent-bookings", "/api/Dashboard/user/upcoming-bookings":
		_, _ = io.WriteString(w, `[]`)
	case "/api/Chat/message":
		_, _ = io.WriteString(w, `{"reply":"We have **3** rooms"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"not found"}`)
	}
}

func (f *fakeHotelAPI) lastAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.authHeader) == 0 {
		return ""
	}
	return f.authHeader[len(f.authHeader)-1]
}

func (f *fakeHotelAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.authHeader)
}

type portalEnv struct {
	upstream *fakeHotelAPI
	server   *httptest.Server
}

func newPortalEnv(t *testing.T, mutate func(*Config)) *portalEnv {
	t.Helper()
	upstream := &fakeHotelAPI{}
	api := httptest.NewServer(upstream)
	t.Cleanup(api.Close)

	cfg := Config{
		APIBaseURL: api.URL + "/api",
		Backend:    storage.NewMemory(),
		ChatMode:   chat.ModeServer,
		Logger:     logging.Discard(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	srv := httptest.NewServer(New(cfg).Routes())
	t.Cleanup(srv.Close)
	return &portalEnv{upstream: upstream, server: srv}
}

func (e *portalEnv) browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func do(t *testing.T, c *http.Client, method, url string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		require.NoError(t, json.Unmarshal(raw, &out))
	} else if trimmed != "" {
		out["_raw"] = trimmed
	}
	return resp.StatusCode, out
}

func TestPortal_Health(t *testing.T) {
	env := newPortalEnv(t, nil)
	status, body := do(t, env.browser(t), http.MethodGet, env.server.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestPortal_LoginThenDashboard(t *testing.T) {
	env := newPortalEnv(t, nil)
	b := env.browser(t)

	status, body := do(t, b, http.MethodPost, env.server.URL+"/login", map[string]string{"email": "user@x.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, userDashboardPath, body["redirect"])
	assert.Empty(t, env.upstream.lastAuth(), "login is a public call")

	status, body = do(t, b, http.MethodGet, env.server.URL+"/dashboard", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Bearer tok-user", env.upstream.lastAuth())
	stats := body["stats"].(map[string]any)["data"].(map[string]any)
	assert.EqualValues(t, 2, stats["totalBookings"])
}

func TestPortal_AdminLoginRedirectsToAdminDashboard(t *testing.T) {
	env := newPortalEnv(t, nil)
	b := env.browser(t)

	_, body := do(t, b, http.MethodPost, env.server.URL+"/login", map[string]string{"email": "admin@x.com", "password": "secret123"})
	assert.Equal(t, adminDashboardPath, body["redirect"])

	other := env.browser(t)
	do(t, other, http.MethodPost, env.server.URL+"/login", map[string]string{"email": "user@x.com", "password": "secret123"})
	status, _ := do(t, other, http.MethodGet, env.server.URL+"/admin/dashboard", nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestPortal_ExpiredSessionRedirectsToLogin(t *testing.T) {
	env := newPortalEnv(t, nil)
	b := env.browser(t)
	do(t, b, http.MethodPost, env.server.URL+"/login", map[string]string{"email": "user@x.com", "password": "secret123"})

	env.upstream.mu.Lock()
	env.upstream.expired = true
	env.upstream.mu.Unlock()

	status, body := do(t, b, http.MethodGet, env.server.URL+"/bookings", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "login.html", body["redirect"])

	calls := env.upstream.calls()
	status, body = do(t, b, http.MethodGet, env.server.URL+"/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "login.html", body["redirect"])
	assert.Equal(t, calls, env.upstream.calls(), "credential was cleared, no upstream call")
}

func TestPortal_BookingValidation(t *testing.T) {
	env := newPortalEnv(t, nil)
	b := env.browser(t)
	do(t, b, http.MethodPost, env.server.URL+"/login", map[string]string{"email": "user@x.com", "password": "secret123"})
	calls := env.upstream.calls()

	status, body := do(t, b, http.MethodPost, env.server.URL+"/bookings", map[string]any{
		"roomId": 1, "checkInDate": "2025-01-10", "checkOutDate": "2025-01-05", "numberOfGuests": 2,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "checkOut", body["field"])
	assert.Equal(t, calls, env.upstream.calls())
}

func TestPortal_LoginValidation(t *testing.T) {
	env := newPortalEnv(t, nil)
	status, body := do(t, env.browser(t), http.MethodPost, env.server.URL+"/login", map[string]string{"email": "nope", "password": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "email", body["field"])
	assert.Zero(t, env.upstream.calls())
}

func TestPortal_SelectRoomBeforeLogin(t *testing.T) {
	env := newPortalEnv(t, nil)
	b := env.browser(t)

	status, body := do(t, b, http.MethodPost, env.server.URL+"/rooms/select", map[string]any{"id": 1, "type": "Suite", "price": 300, "available": true})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "login.html", body["redirect"])

	_, body = do(t, b, http.MethodPost, env.server.URL+"/login", map[string]string{"email": "user@x.com", "password": "secret123"})
	assert.Equal(t, "booking.html", body["redirect"])
}

func TestPortal_RoomsGrouped(t *testing.T) {
	env := newPortalEnv(t, nil)
	resp, err := env.browser(t).Get(env.server.URL + "/rooms")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var groups []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&groups))
	require.Len(t, groups, 2)
	assert.Equal(t, "Suite", groups[0]["type"])
	assert.EqualValues(t, 1, groups[0]["available"])
	assert.Equal(t, "Standard", groups[1]["type"])
}

func TestPortal_ChatRequiresLogin(t *testing.T) {
	env := newPortalEnv(t, nil)
	b := env.browser(t)

	_, body := do(t, b, http.MethodPost, env.server.URL+"/chat", map[string]string{"message": "hi"})
	assert.Equal(t, chat.NoticeLoginRequired, body["reply"])
	assert.Zero(t, env.upstream.calls())

	do(t, b, http.MethodPost, env.server.URL+"/login", map[string]string{"email": "user@x.com", "password": "secret123"})
	_, body = do(t, b, http.MethodPost, env.server.URL+"/chat", map[string]string{"option": "1"})
	assert.Equal(t, "We have **3** rooms", body["reply"])
	assert.Contains(t, body["html"], "<strong>3</strong>")
}

func TestPortal_DemoBookingStaysLocal(t *testing.T) {
	env := newPortalEnv(t, func(c *Config) { c.DemoMode = true })
	b := env.browser(t)

	status, body := do(t, b, http.MethodPost, env.server.URL+"/bookings", map[string]any{
		"roomId": 1, "roomType": "Suite", "pricePerNight": 100,
		"checkInDate": "2025-01-05", "checkOutDate": "2025-01-07", "numberOfGuests": 2,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["demo"])
	assert.Zero(t, env.upstream.calls())

	resp, err := b.Get(env.server.URL + "/bookings")
	require.NoError(t, err)
	defer resp.Body.Close()
	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "Suite", list[0]["room"])
}

func TestPortal_ConcurrentDemoBookingsAllKept(t *testing.T) {
	env := newPortalEnv(t, func(c *Config) { c.DemoMode = true })
	b := env.browser(t)
	status, _ := do(t, b, http.MethodGet, env.server.URL+"/bookings", nil)
	require.Equal(t, http.StatusOK, status)

	const n = 8
	statuses := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			raw, _ := json.Marshal(map[string]any{
				"roomId": i + 1, "roomType": "Suite", "pricePerNight": 100,
				"checkInDate": "2025-01-05", "checkOutDate": "2025-01-07", "numberOfGuests": 2,
			})
			resp, err := b.Post(env.server.URL+"/bookings", "application/json", bytes.NewReader(raw))
			if err != nil {
				return
			}
			resp.Body.Close()
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()
	for _, st := range statuses {
		require.Equal(t, http.StatusCreated, st)
	}

	resp, err := b.Get(env.server.URL + "/bookings")
	require.NoError(t, err)
	defer resp.Body.Close()
	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, n)
}

func TestPortal_OnlineBookingWithoutCardProvider(t *testing.T) {
	env := newPortalEnv(t, nil)
	b := env.browser(t)
	do(t, b, http.MethodPost, env.server.URL+"/login", map[string]string{"email": "user@x.com", "password": "secret123"})

	status, _ := do(t, b, http.MethodPost, env.server.URL+"/bookings", map[string]any{
		"roomId": 1, "checkInDate": "2025-01-05", "checkOutDate": "2025-01-07", "numberOfGuests": 2,
	})
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestPortal_LogoutClearsVisitor(t *testing.T) {
	env := newPortalEnv(t, nil)
	b := env.browser(t)
	do(t, b, http.MethodPost, env.server.URL+"/login", map[string]string{"email": "user@x.com", "password": "secret123"})

	status, body := do(t, b, http.MethodPost, env.server.URL+"/logout", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "index.html", body["redirect"])

	status, _ = do(t, b, http.MethodGet, env.server.URL+"/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
