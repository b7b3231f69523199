package portal

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/cozyhotel-client/internal/cardpay"
	"github.com/wolfman30/cozyhotel-client/internal/chat"
	"github.com/wolfman30/cozyhotel-client/internal/checkout"
	"github.com/wolfman30/cozyhotel-client/internal/credentials"
	"github.com/wolfman30/cozyhotel-client/internal/dashboard"
	"github.com/wolfman30/cozyhotel-client/internal/hotelapi"
	"github.com/wolfman30/cozyhotel-client/internal/rooms"
	"github.com/wolfman30/cozyhotel-client/internal/session"
	"github.com/wolfman30/cozyhotel-client/internal/validate"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type authResult struct {
	Success     bool                 `json:"success"`
	Message     string               `json:"message,omitempty"`
	RequiresOTP bool                 `json:"requiresOtp,omitempty"`
	Profile     *credentials.Profile `json:"profile,omitempty"`
	Redirect    string               `json:"redirect,omitempty"`
}

// finishAuth turns an auth envelope into the portal response and, when a
// credential was stored, picks the post-login page.
func (s *Server) finishAuth(ctx context.Context, v *visitor, resp *hotelapi.AuthResponse) authResult {
	out := authResult{Success: resp.Success, Message: resp.Message, RequiresOTP: resp.RequiresOTP}
	profile, ok := v.creds.Profile(ctx)
	if !ok || !v.creds.IsLoggedIn(ctx) {
		return out
	}
	out.Profile = profile
	fallback := userDashboardPath
	if profile.HasRole(credentials.AdminRole) {
		fallback = adminDashboardPath
	}
	target, err := v.session.TakeRedirectAfterLogin(ctx, fallback)
	if err != nil {
		s.logger.Warn("portal: read post-login redirect", "error", err)
	}
	out.Redirect = target
	return out
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	v := s.visitor(w, r)
	var form validate.LoginForm
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, v, err)
		return
	}
	form.Email, form.Password = strings.TrimSpace(body.Email), body.Password
	if err := validate.Login(form); err != nil {
		s.writeError(w, v, err)
		return
	}
	resp, err := v.api.Auth.Login(r.Context(), hotelapi.LoginRequest{Email: form.Email, Password: form.Password})
	if err != nil {
		s.writeError(w, v, err)
		return
	}
	writeJSON(w, http.StatusOK, s.finishAuth(r.Context(), v, resp))
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	v := s.visitor(w, r)
	var body hotelapi.RegisterRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, v, err)
		return
	}
	body.Email = strings.TrimSpace(body.Email)
	if err := validate.Signup(validate.SignupForm{
		FirstName:       body.FirstName,
		LastName:        body.LastName,
		Email:           body.Email,
		PhoneNumber:     body.PhoneNumber,
		Password:        body.Password,
		ConfirmPassword: body.ConfirmPassword,
	}); err != nil {
		s.writeError(w, v, err)
		return
	}
	resp, err := v.api.Auth.Register(r.Context(), body)
	if err != nil {
		s.writeError(w, v, err)
		return
	}
	writeJSON(w, http.StatusOK, authResult{Success: resp.Success, Message: resp.Message, RequiresOTP: true})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	v := s.visitor(w, r)
	var body hotelapi.VerifyOTPRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, v, err)
		return
	}
	body.Email, body.OTP = strings.TrimSpace(body.Email), strings.TrimSpace(body.OTP)
	if err := validate.OTP(validate.OTPForm{Email: body.Email, Code: body.OTP}); err != nil {
		s.writeError(w, v, err)
		return
	}
	resp, err := v.api.Auth.VerifyOTP(r.Context(), body)
	if err != nil {
		s.writeError(w, v, err)
		return
	}
	writeJSON(w, http.StatusOK, s.finishAuth(r.Context(), v, resp))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	v := s.visitor(w, r)
	if err := v.api.Auth.Logout(r.Context()); err != nil {
		s.writeError(w, v, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"redirect": v.nav.Target()})
}

// handleRooms lists the catalogue. With checkIn and checkOut it lists only
// rooms free for that stay.
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	v := s.visitor(w, r)
	q := r.URL.Query()
	checkIn, checkOut := q.Get("checkIn"), q.Get("checkOut")
	if checkIn == "" && checkOut == "" {
		groups, err := s.catalogue(v).List(r.Context())
		if err != nil {
			s.writeError(w, v, err)
			return
		}
		writeJSON(w, http.StatusOK, groups)
		return
	}

	if err := validate.Booking(validate.BookingForm{RoomID: 1, CheckIn: checkIn, CheckOut: checkOut, Guests: 1}); err != nil {
		s.writeError(w, v, err)
		return
	}
	hotelID := s.cfg.HotelID
	if raw := q.Get("hotelId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			s.writeError(w, v, hotelapi.ValidationError("hotelId", "Hotel id must be a positive number"))
			return
		}
		hotelID = id
	}
	list, err := v.api.Rooms.Available(r.Context(), hotelID, checkIn, checkOut)
	if err != nil {
		s.writeError(w, v, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms.Group(list))
}

type selectRoomRequest struct {
	ID        int     `json:"id"`
	Type      string  `json:"type"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

func (s *Server) handleSelectRoom(w http.ResponseWriter, r *http.Request) {
	v := s.visitor(w, r)
	var body selectRoomRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, v, err)
		return
	}
	if body.ID <= 0 {
		s.writeError(w, v, hotelapi.ValidationError("id", "Please select a room"))
		return
	}
	target, err := s.catalogue(v).Select(r.Context(), session.SelectedRoom{ID: body.ID, Type: body.Type, Price: body.Price}, body.Available)
	if err != nil {
		s.writeError(w, v, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"redirect": target})
}

type createBookingRequest struct {
	RoomID          int     `json:"roomId"`
	RoomType        string  `json:"roomType"`
	PricePerNight   float64 `json:"pricePerNight"`
	CheckIn         string  `json:"checkInDate"`
	CheckOut        string  `json:"checkOutDate"`
	Guests          int     `json:"numberOfGuests"`
	SpecialRequests string  `json:"specialRequests"`
	PaymentMethod   string  `json:"paymentMethod"`
	CardholderName  string  `json:"cardholderName"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	v := s.visitor(w, r)
	ctx := r.Context()
	var body createBookingRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, v, err)
		return
	}
	if !s.cfg.DemoMode && !v.creds.IsLoggedIn(ctx) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: hotelapi.ErrAuthenticationRequired.Message, Redirect: s.cfg.LoginPath})
		return
	}
	if selected, ok, err := v.session.SelectedRoom(ctx); err == nil && ok {
		if body.RoomID == 0 {
			body.RoomID = selected.ID
		}
		if body.RoomType == "" {
			body.RoomType = selected.Type
		}
		if body.PricePerNight == 0 {
			body.PricePerNight = selected.Price
		}
	}
	email := ""
	if p, ok := v.creds.Profile(ctx); ok {
		email = p.Email
	}

	receipt, err := s.checkout(v).Submit(ctx, checkout.Request{
		Form: validate.BookingForm{
			RoomID:          body.RoomID,
			CheckIn:         body.CheckIn,
			CheckOut:        body.CheckOut,
			Guests:          body.Guests,
			SpecialRequests: body.SpecialRequests,
		},
		Card:           cardpay.Card{PaymentMethod: body.PaymentMethod, HolderName: body.CardholderName, Email: email},
		RoomType:       body.RoomType,
		PricePerNight:  body.PricePerNight,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		s.writeError(w, v, err)
		return
	}
	if err := v.session.ClearSelectedRoom(ctx); err != nil {
		s.logger.Warn("portal: clear selected room", "error", err)
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (s *Server) handleMyBookings(w http.ResponseWriter, r *http.Request) {
	v := s.visitor(w, r)
	if s.cfg.DemoMode {
		list, err := v.offline.List(r.Context())
		if err != nil {
			s.writeError(w, v, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}
	list, err := v.api.Bookings.Mine(r.Context())
	if err != nil {
		s.writeError(w, v, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	v := s.visitor(w, r)
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		s.writeError(w, v, hotelapi.ValidationError("id", "Booking id must be a positive number"))
		return
	}
	if err := v.api.Bookings.Cancel(r.Context(), id); err != nil {
		s.writeError(w, v, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUserDashboard(w http.ResponseWriter, r *http.Request) {
	v := s.visitor(w, r)
	if !v.creds.IsLoggedIn(r.Context()) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: hotelapi.ErrAuthenticationRequired.Message, Redirect: s.cfg.LoginPath})
		return
	}
	d, err := dashboard.NewLoader(v.api.Dashboard, s.logger).User(r.Context())
	if err != nil {
		s.writeError(w, v, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	v := s.visitor(w, r)
	if !v.creds.IsAdmin(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "Admin access required", Redirect: s.cfg.LoginPath})
		return
	}
	d, err := dashboard.NewLoader(v.api.Dashboard, s.logger).Admin(r.Context())
	if err != nil {
		s.writeError(w, v, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type chatRequest struct {
	Message string `json:"message"`
	Option  string `json:"option"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	HTML  string `json:"html"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	v := s.visitor(w, r)
	var body chatRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, v, err)
		return
	}
	widget := chat.NewWidget(v.api.Chat, v.creds, s.cfg.ChatMode, s.logger)
	var (
		reply string
		ok    bool
	)
	if body.Option != "" {
		reply, ok = widget.SendOption(r.Context(), body.Option)
	} else {
		reply, ok = widget.Send(r.Context(), body.Message)
	}
	if !ok {
		s.writeError(w, v, hotelapi.ValidationError("message", "Message is empty"))
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, HTML: chat.FormatHTML(reply)})
}
