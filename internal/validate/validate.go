// Package validate holds the local form checks that run before any call to
// the hotel API. Every failure is a hotelapi.Error of KindValidationFailed
// naming the offending field.
package validate

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/wolfman30/cozyhotel-client/internal/hotelapi"
)

// MinPasswordLength is the shortest password the server accepts.
const MinPasswordLength = 6

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	otpRe   = regexp.MustCompile(`^[0-9]{4,8}$`)
)

type LoginForm struct {
	Email    string
	Password string
}

type SignupForm struct {
	FirstName       string
	LastName        string
	Email           string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
}

type ResetPasswordForm struct {
	Email           string
	Token           string
	NewPassword     string
	ConfirmPassword string
}

type OTPForm struct {
	Email string
	Code  string
}

type BookingForm struct {
	RoomID          int
	CheckIn         string
	CheckOut        string
	Guests          int
	SpecialRequests string
}

func Login(f LoginForm) error {
	if err := email("email", f.Email); err != nil {
		return err
	}
	return required("password", f.Password)
}

func Signup(f SignupForm) error {
	if err := required("firstName", f.FirstName); err != nil {
		return err
	}
	if err := required("lastName", f.LastName); err != nil {
		return err
	}
	if err := email("email", f.Email); err != nil {
		return err
	}
	return password("password", f.Password, "confirmPassword", f.ConfirmPassword)
}

func ResetPassword(f ResetPasswordForm) error {
	if err := email("email", f.Email); err != nil {
		return err
	}
	if err := required("token", f.Token); err != nil {
		return err
	}
	return password("newPassword", f.NewPassword, "confirmPassword", f.ConfirmPassword)
}

func OTP(f OTPForm) error {
	if err := email("email", f.Email); err != nil {
		return err
	}
	code := strings.TrimSpace(f.Code)
	if code == "" {
		return hotelapi.ValidationError("otp", "Verification code is required")
	}
	if !otpRe.MatchString(code) {
		return hotelapi.ValidationError("otp", "Verification code must be digits only")
	}
	return nil
}

// Booking checks the room, the stay dates (YYYY-MM-DD, check-out strictly
// after check-in) and the guest count.
func Booking(f BookingForm) error {
	if f.RoomID <= 0 {
		return hotelapi.ValidationError("roomId", "Please select a room")
	}
	checkIn, err := date("checkIn", f.CheckIn)
	if err != nil {
		return err
	}
	checkOut, err := date("checkOut", f.CheckOut)
	if err != nil {
		return err
	}
	if !checkOut.After(checkIn) {
		return hotelapi.ValidationError("checkOut", "Check-out date must be after check-in date")
	}
	if f.Guests < 1 {
		return hotelapi.ValidationError("guests", "At least one guest is required")
	}
	return nil
}

// Nights returns the number of nights between two valid booking dates.
func Nights(checkIn, checkOut string) int {
	in, err1 := time.Parse(hotelapi.DateLayout, strings.TrimSpace(checkIn))
	out, err2 := time.Parse(hotelapi.DateLayout, strings.TrimSpace(checkOut))
	if err1 != nil || err2 != nil || !out.After(in) {
		return 0
	}
	return int(out.Sub(in).Hours() / 24)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return hotelapi.ValidationError(field, "This field is required")
	}
	return nil
}

func email(field, value string) error {
	if err := required(field, value); err != nil {
		return err
	}
	if !emailRe.MatchString(strings.TrimSpace(value)) {
		return hotelapi.ValidationError(field, "Please enter a valid email address")
	}
	return nil
}

func password(field, value, confirmField, confirm string) error {
	if err := required(field, value); err != nil {
		return err
	}
	if utf8.RuneCountInString(value) < MinPasswordLength {
		return hotelapi.ValidationError(field, "Password must be at least 6 characters")
	}
	if value != confirm {
		return hotelapi.ValidationError(confirmField, "Passwords do not match")
	}
	return nil
}

func date(field, value string) (time.Time, error) {
	if err := required(field, value); err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(hotelapi.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, hotelapi.ValidationError(field, "Date must be in YYYY-MM-DD format")
	}
	return t, nil
}
