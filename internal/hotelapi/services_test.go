package hotelapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/cozyhotel-client/internal/credentials"
)

func TestAuth_LoginStoresCredentials(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/Auth/login", r.URL.Path)
		var body LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, LoginRequest{Email: "user@x.com", Password: "secret123"}, body)
		writeJSON(w, http.StatusOK, `{"success":true,"token":"abc","firstName":"A"}`)
	})
	ctx := context.Background()

	resp, err := env.client.Auth.Login(ctx, LoginRequest{Email: "user@x.com", Password: "secret123"})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	assert.True(t, env.store.IsLoggedIn(ctx))
	token, _ := env.store.Token(ctx)
	assert.Equal(t, "abc", token)
	profile, ok := env.store.Profile(ctx)
	require.True(t, ok)
	assert.Equal(t, "A", profile.FirstName)
}

func TestAuth_LoginBackfillsFromClaims(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u-9",
		"email": "admin@x.com",
		"role":  []string{"Admin"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"token":"`+token+`","firstName":"Ola"}`)
	})
	ctx := context.Background()

	_, err = env.client.Auth.Login(ctx, LoginRequest{Email: "admin@x.com", Password: "secret123"})
	require.NoError(t, err)
	assert.True(t, env.store.IsAdmin(ctx))
	profile, _ := env.store.Profile(ctx)
	assert.Equal(t, "u-9", profile.ID)
	assert.Equal(t, "Ola", profile.FirstName)
}

func TestAuth_LoginRequiringOTPStoresNothing(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"requiresOtp":true,"message":"OTP sent"}`)
	})
	ctx := context.Background()

	resp, err := env.client.Auth.Login(ctx, LoginRequest{Email: "user@x.com", Password: "secret123"})
	require.NoError(t, err)
	assert.True(t, resp.RequiresOTP)
	assert.False(t, env.store.IsLoggedIn(ctx))
}

func TestAuth_VerifyOTPStoresCredentials(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Auth/verify-otp", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"success":true,"token":"t-2","email":"user@x.com","roles":["User"]}`)
	})
	ctx := context.Background()

	_, err := env.client.Auth.VerifyOTP(ctx, VerifyOTPRequest{Email: "user@x.com", OTP: "123456"})
	require.NoError(t, err)
	assert.True(t, env.store.IsLoggedIn(ctx))
	assert.False(t, env.store.IsAdmin(ctx))
}

func TestAuth_RegisterDoesNotStore(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"token":"early","message":"Check your e-mail"}`)
	})
	ctx := context.Background()

	resp, err := env.client.Auth.Register(ctx, RegisterRequest{Email: "n@x.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Check your e-mail", resp.Message)
	assert.False(t, env.store.IsLoggedIn(ctx))
}

func TestAuth_LogoutClearsAndGoesHome(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("logout must not call the server: %s", r.URL.Path)
	})
	ctx := context.Background()
	require.NoError(t, env.store.Save(ctx, "abc", &credentials.Profile{FirstName: "A"}))

	require.NoError(t, env.client.Auth.Logout(ctx))
	assert.False(t, env.store.IsLoggedIn(ctx))
	assert.Equal(t, []string{DefaultHomePath}, env.nav.Targets())
}

func TestAuth_PasswordEndpoints(t *testing.T) {
	var paths []string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writeJSON(w, http.StatusOK, `{"success":true,"message":"ok"}`)
	})
	ctx := context.Background()

	_, err := env.client.Auth.ResendOTP(ctx, "user@x.com")
	require.NoError(t, err)
	_, err = env.client.Auth.ForgotPassword(ctx, "user@x.com")
	require.NoError(t, err)
	_, err = env.client.Auth.ResetPassword(ctx, ResetPasswordRequest{Email: "user@x.com", Token: "t", NewPassword: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/Auth/resend-otp", "/api/Auth/forgot-password", "/api/Auth/reset-password"}, paths)
}

func TestRooms_Available(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Rooms/available/1", r.URL.Path)
		assert.Equal(t, "2025-01-05", r.URL.Query().Get("checkIn"))
		assert.Equal(t, "2025-01-10", r.URL.Query().Get("checkOut"))
		writeJSON(w, http.StatusOK, `[{"id":1,"type":"Deluxe","isAvailable":true}]`)
	})

	rooms, err := env.client.Rooms.Available(context.Background(), 1, "2025-01-05", "2025-01-10")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Deluxe", rooms[0].Type)
}

func TestBookings_CreateSendsIdempotencyKey(t *testing.T) {
	var keys []string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		writeJSON(w, http.StatusCreated, `{"id":77,"roomId":3,"status":"Pending","totalPrice":500}`)
	})
	ctx := context.Background()
	req := CreateBookingRequest{RoomID: 3, CheckInDate: "2025-01-05", CheckOutDate: "2025-01-07", NumberOfGuests: 2}

	booking, err := env.client.Bookings.Create(ctx, req, "fixed-key")
	require.NoError(t, err)
	assert.Equal(t, 77, booking.ID)

	_, err = env.client.Bookings.Create(ctx, req, "")
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "fixed-key", keys[0])
	assert.NotEmpty(t, keys[1])
}

func TestBookings_AdminRoutes(t *testing.T) {
	var calls []string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.RequestURI())
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusOK, `[]`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	_, err := env.client.Bookings.All(ctx, "Pending")
	require.NoError(t, err)
	require.NoError(t, env.client.Bookings.Approve(ctx, 5))
	require.NoError(t, env.client.Bookings.Reject(ctx, 6))
	require.NoError(t, env.client.Bookings.Complete(ctx, 7))
	require.NoError(t, env.client.Bookings.Cancel(ctx, 8))
	assert.Equal(t, []string{
		"GET /api/Admin/bookings?status=Pending",
		"PUT /api/Admin/bookings/5/approve",
		"PUT /api/Admin/bookings/6/reject",
		"PUT /api/Admin/bookings/7/complete",
		"PUT /api/Bookings/8/cancel",
	}, calls)
}

func TestPayments_Routes(t *testing.T) {
	var calls []string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.RequestURI())
		writeJSON(w, http.StatusOK, `{"paymentIntentId":"pi_1","status":"succeeded","clientSecret":"pi_1_secret"}`)
	})
	ctx := context.Background()

	intent, err := env.client.Payments.CreateIntent(ctx, PaymentIntentRequest{BookingID: 1, Amount: 100})
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret", intent.ClientSecret)
	st, err := env.client.Payments.CheckStatus(ctx, "pi_1")
	require.NoError(t, err)
	assert.True(t, st.Succeeded())
	_, err = env.client.Payments.ProcessCardPayment(ctx, "pi_1")
	require.NoError(t, err)
	_, err = env.client.Payments.Status(ctx, "pi_1")
	require.NoError(t, err)
	_, err = env.client.Payments.Refund(ctx, "pi_1", 25.5)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /api/Payment/create-payment-intent",
		"POST /api/Payment/check-payment-status/pi_1",
		"POST /api/Payment/process-card-payment?PaymentIntentId=pi_1",
		"GET /api/Payment/status/pi_1",
		"POST /api/Payment/refund/pi_1?amount=25.5",
	}, calls)
}

func TestDashboard_Defaults(t *testing.T) {
	var calls []string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.RequestURI())
		writeJSON(w, http.StatusOK, `[]`)
	})
	env.client.Dashboard.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	_, err := env.client.Dashboard.RecentBookings(ctx, 0)
	require.NoError(t, err)
	_, err = env.client.Dashboard.AdminRecentBookings(ctx, 0)
	require.NoError(t, err)
	_, err = env.client.Dashboard.TopCustomers(ctx, 3)
	require.NoError(t, err)
	_, err = env.client.Dashboard.RevenueByMonth(ctx, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/api/Dashboard/user/recent-bookings?count=5",
		"/api/Dashboard/admin/recent-bookings?count=10",
		"/api/Dashboard/admin/top-customers?count=3",
		"/api/Dashboard/admin/revenue-by-month?year=2025",
	}, calls)
}

func TestAdmin_RoleManagement(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Admin/users/u%201/assign-role", "/api/Admin/users/u 1/assign-role":
			var body RoleRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Admin", body.RoleName)
			w.WriteHeader(http.StatusNoContent)
		case "/api/Admin/users/u 1/roles":
			writeJSON(w, http.StatusOK, `["User","Admin"]`)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	require.NoError(t, env.client.Admin.AssignRole(ctx, "u 1", "Admin"))
	roles, err := env.client.Admin.UserRoles(ctx, "u 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"User", "Admin"}, roles)
}

func TestChat_Send(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		var body ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body.Message)
		writeJSON(w, http.StatusOK, `{"success":true,"reply":"Hi!"}`)
	})

	reply, err := env.client.Chat.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi!", reply.Reply)
}
