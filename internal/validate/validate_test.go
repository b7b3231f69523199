package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/cozyhotel-client/internal/hotelapi"
)

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	var apiErr *hotelapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, hotelapi.KindValidationFailed, apiErr.Kind)
	return apiErr.Field
}

func TestBooking_CheckoutBeforeCheckin(t *testing.T) {
	err := Booking(BookingForm{RoomID: 1, CheckIn: "2025-01-10", CheckOut: "2025-01-05", Guests: 2})
	assert.Equal(t, "checkOut", fieldOf(t, err))
	assert.Contains(t, err.Error(), "after check-in")
}

func TestBooking(t *testing.T) {
	valid := BookingForm{RoomID: 1, CheckIn: "2025-01-05", CheckOut: "2025-01-10", Guests: 2}
	require.NoError(t, Booking(valid))

	cases := map[string]struct {
		mutate func(*BookingForm)
		field  string
	}{
		"no room":         {func(f *BookingForm) { f.RoomID = 0 }, "roomId"},
		"missing checkin": {func(f *BookingForm) { f.CheckIn = " " }, "checkIn"},
		"bad date":        {func(f *BookingForm) { f.CheckOut = "10/01/2025" }, "checkOut"},
		"same day":        {func(f *BookingForm) { f.CheckOut = f.CheckIn }, "checkOut"},
		"no guests":       {func(f *BookingForm) { f.Guests = 0 }, "guests"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := valid
			tc.mutate(&f)
			assert.Equal(t, tc.field, fieldOf(t, Booking(f)))
		})
	}
}

func TestSignup(t *testing.T) {
	valid := SignupForm{FirstName: "Ola", LastName: "N", Email: "ola@x.com", Password: "secret1", ConfirmPassword: "secret1"}
	require.NoError(t, Signup(valid))

	f := valid
	f.Email = "not-an-email"
	assert.Equal(t, "email", fieldOf(t, Signup(f)))

	f = valid
	f.Password, f.ConfirmPassword = "12345", "12345"
	assert.Equal(t, "password", fieldOf(t, Signup(f)))

	f = valid
	f.Password, f.ConfirmPassword = "سرّ", "سرّ"
	assert.Equal(t, "password", fieldOf(t, Signup(f)))

	f = valid
	f.Password, f.ConfirmPassword = "كلمةسر", "كلمةسر"
	require.NoError(t, Signup(f))

	f = valid
	f.ConfirmPassword = "secret2"
	assert.Equal(t, "confirmPassword", fieldOf(t, Signup(f)))

	f = valid
	f.FirstName = ""
	assert.Equal(t, "firstName", fieldOf(t, Signup(f)))
}

func TestLoginAndOTP(t *testing.T) {
	require.NoError(t, Login(LoginForm{Email: "user@x.com", Password: "secret123"}))
	assert.Equal(t, "password", fieldOf(t, Login(LoginForm{Email: "user@x.com"})))
	assert.Equal(t, "email", fieldOf(t, Login(LoginForm{Password: "x"})))

	require.NoError(t, OTP(OTPForm{Email: "user@x.com", Code: "123456"}))
	assert.Equal(t, "otp", fieldOf(t, OTP(OTPForm{Email: "user@x.com", Code: "12a456"})))
	assert.Equal(t, "otp", fieldOf(t, OTP(OTPForm{Email: "user@x.com"})))
}

func TestResetPassword(t *testing.T) {
	require.NoError(t, ResetPassword(ResetPasswordForm{Email: "u@x.com", Token: "t", NewPassword: "secret1", ConfirmPassword: "secret1"}))
	assert.Equal(t, "token", fieldOf(t, ResetPassword(ResetPasswordForm{Email: "u@x.com", NewPassword: "secret1", ConfirmPassword: "secret1"})))
	assert.Equal(t, "newPassword", fieldOf(t, ResetPassword(ResetPasswordForm{Email: "u@x.com", Token: "t", NewPassword: "سرّ", ConfirmPassword: "سرّ"})))
}

func TestNights(t *testing.T) {
	assert.Equal(t, 5, Nights("2025-01-05", "2025-01-10"))
	assert.Equal(t, 0, Nights("2025-01-10", "2025-01-05"))
	assert.Equal(t, 0, Nights("bad", "2025-01-05"))
}
