package hotelapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wolfman30/cozyhotel-client/internal/credentials"
)

// AuthService wraps the public /Auth endpoints.
type AuthService struct {
	client *Client
}

// Register creates an account. The server follows up with an OTP e-mail;
// nothing is stored until VerifyOTP succeeds.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	return s.authenticate(ctx, "/Auth/register", req, false)
}

// Login signs in and, when the server returns a token, stores it with the
// profile. A response with requiresOtp and no token stores nothing.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	return s.authenticate(ctx, "/Auth/login", req, true)
}

func (s *AuthService) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*AuthResponse, error) {
	return s.authenticate(ctx, "/Auth/verify-otp", req, true)
}

func (s *AuthService) ResendOTP(ctx context.Context, email string) (*MessageResponse, error) {
	return s.message(ctx, "/Auth/resend-otp", EmailRequest{Email: email})
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	return s.message(ctx, "/Auth/forgot-password", EmailRequest{Email: email})
}

func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	return s.message(ctx, "/Auth/reset-password", req)
}

// Logout clears the stored credential and sends the user home. It makes no
// network call.
func (s *AuthService) Logout(ctx context.Context) error {
	c := s.client
	var err error
	if c.creds != nil {
		err = c.creds.Clear(ctx)
	}
	c.navigator.Redirect(ctx, c.homePath)
	if err != nil {
		return fmt.Errorf("hotelapi: logout: %w", err)
	}
	return nil
}

func (s *AuthService) message(ctx context.Context, path string, body any) (*MessageResponse, error) {
	resp, err := PublicDo[MessageResponse](ctx, s.client, Call{Method: http.MethodPost, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *AuthService) authenticate(ctx context.Context, path string, body any, store bool) (*AuthResponse, error) {
	c := s.client
	res, err := c.PublicRequest(ctx, Call{Method: http.MethodPost, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	var resp AuthResponse
	if err := res.Decode(&resp); err != nil {
		return nil, err
	}
	if res.Empty() {
		return &resp, nil
	}
	profile := &credentials.Profile{}
	if err := res.Decode(profile); err != nil {
		return nil, err
	}
	resp.Profile = profile

	if !store || !resp.Success || resp.Token == "" {
		return &resp, nil
	}
	if claims, err := credentials.ProfileFromToken(resp.Token); err == nil {
		profile.FillFrom(claims)
	} else {
		c.logger.Debug("hotelapi: token claims unreadable", "error", err)
	}
	if c.creds != nil {
		if err := c.creds.Save(ctx, resp.Token, profile); err != nil {
			return &resp, fmt.Errorf("hotelapi: store credentials: %w", err)
		}
	}
	c.logger.Info("hotelapi: signed in", "user_id", profile.ID, "admin", profile.HasRole(credentials.AdminRole))
	return &resp, nil
}
