package hotelapi

import "github.com/wolfman30/cozyhotel-client/internal/credentials"

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email"`
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// AuthResponse is the envelope returned by the auth endpoints. Profile is
// decoded from the same body and backfilled from the token claims.
type AuthResponse struct {
	Success     bool                 `json:"success"`
	Message     string               `json:"message"`
	Token       string               `json:"token"`
	RequiresOTP bool                 `json:"requiresOtp"`
	Profile     *credentials.Profile `json:"-"`
}

// MessageResponse is the generic {success, message} reply.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Room struct {
	ID            int     `json:"id"`
	RoomNumber    string  `json:"roomNumber"`
	Type          string  `json:"type"`
	PricePerNight float64 `json:"pricePerNight"`
	Capacity      int     `json:"capacity,omitempty"`
	Description   string  `json:"description,omitempty"`
	IsAvailable   bool    `json:"isAvailable"`
	HotelID       int     `json:"hotelId,omitempty"`
}

type Booking struct {
	ID              int     `json:"id"`
	RoomID          int     `json:"roomId"`
	RoomNumber      string  `json:"roomNumber,omitempty"`
	RoomType        string  `json:"roomType,omitempty"`
	UserID          string  `json:"userId,omitempty"`
	UserName        string  `json:"userName,omitempty"`
	CheckInDate     string  `json:"checkInDate"`
	CheckOutDate    string  `json:"checkOutDate"`
	NumberOfGuests  int     `json:"numberOfGuests"`
	TotalPrice      float64 `json:"totalPrice"`
	Status          string  `json:"status"`
	SpecialRequests string  `json:"specialRequests,omitempty"`
	CreatedAt       string  `json:"createdAt,omitempty"`
}

type CreateBookingRequest struct {
	RoomID          int    `json:"roomId"`
	CheckInDate     string `json:"checkInDate"`
	CheckOutDate    string `json:"checkOutDate"`
	NumberOfGuests  int    `json:"numberOfGuests"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

type PaymentIntentRequest struct {
	BookingID int     `json:"bookingId"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency,omitempty"`
}

type PaymentIntent struct {
	PaymentIntentID string  `json:"paymentIntentId"`
	ClientSecret    string  `json:"clientSecret"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	Status          string  `json:"status"`
}

type PaymentStatus struct {
	PaymentIntentID string  `json:"paymentIntentId"`
	Status          string  `json:"status"`
	Amount          float64 `json:"amount"`
	Success         bool    `json:"success"`
	Message         string  `json:"message"`
}

// Succeeded reports whether the provider settled the payment.
func (s PaymentStatus) Succeeded() bool {
	return s.Status == "succeeded"
}

type UserStats struct {
	TotalBookings     int     `json:"totalBookings"`
	ActiveBookings    int     `json:"activeBookings"`
	CompletedBookings int     `json:"completedBookings"`
	CancelledBookings int     `json:"cancelledBookings"`
	TotalSpent        float64 `json:"totalSpent"`
}

type MonthlyAmount struct {
	Year         int     `json:"year,omitempty"`
	Month        int     `json:"month"`
	MonthName    string  `json:"monthName,omitempty"`
	Amount       float64 `json:"amount"`
	BookingCount int     `json:"bookingCount"`
}

type SpendingSummary struct {
	TotalSpent          float64         `json:"totalSpent"`
	AverageBookingValue float64         `json:"averageBookingValue"`
	Monthly             []MonthlyAmount `json:"monthly"`
}

type AdminStats struct {
	TotalUsers      int     `json:"totalUsers"`
	TotalRooms      int     `json:"totalRooms"`
	AvailableRooms  int     `json:"availableRooms"`
	TotalBookings   int     `json:"totalBookings"`
	PendingBookings int     `json:"pendingBookings"`
	TotalRevenue    float64 `json:"totalRevenue"`
}

type RoomTypeStat struct {
	RoomType     string  `json:"roomType"`
	TotalRooms   int     `json:"totalRooms"`
	BookingCount int     `json:"bookingCount"`
	Revenue      float64 `json:"revenue"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type TopCustomer struct {
	UserID       string  `json:"userId"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	BookingCount int     `json:"bookingCount"`
	TotalSpent   float64 `json:"totalSpent"`
}

type User struct {
	ID             string   `json:"id"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Email          string   `json:"email"`
	PhoneNumber    string   `json:"phoneNumber,omitempty"`
	EmailConfirmed bool     `json:"emailConfirmed"`
	Roles          []string `json:"roles"`
}

type RoleRequest struct {
	RoleName string `json:"roleName"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

// ChatReply is the assistant response. Older servers put the text in
// message instead of reply.
type ChatReply struct {
	Success bool   `json:"success"`
	Reply   string `json:"reply"`
	Message string `json:"message"`
}

type ChatStatus struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

type ChatCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}
