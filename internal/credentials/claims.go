package credentials

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ASP.NET Identity claim URIs, used when the token carries them instead of
// the short JWT names.
const (
	claimNameIdentifier = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	claimEmail          = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
	claimGivenName      = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/givenname"
	claimSurname        = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/surname"
	claimRole           = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
)

// ProfileFromToken reads identity claims from a bearer token without
// verifying its signature. The server remains the authority; this only
// backfills profile fields a login response left out.
func ProfileFromToken(token string) (*Profile, error) {
	claims, err := parseClaims(token)
	if err != nil {
		return nil, err
	}
	p := &Profile{
		ID:        firstString(claims, "sub", "nameid", "userId", claimNameIdentifier),
		Email:     firstString(claims, "email", claimEmail),
		FirstName: firstString(claims, "given_name", "firstName", claimGivenName),
		LastName:  firstString(claims, "family_name", "lastName", claimSurname),
	}
	for _, key := range []string{"role", "roles", claimRole} {
		p.Roles = append(p.Roles, stringList(claims[key])...)
	}
	return p, nil
}

// TokenExpiry returns the exp claim of token, if any.
func TokenExpiry(token string) (time.Time, bool) {
	claims, err := parseClaims(token)
	if err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func parseClaims(token string) (jwt.MapClaims, error) {
	var claims jwt.MapClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("credentials: parse token claims: %w", err)
	}
	return claims, nil
}

func firstString(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if s, ok := claims[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
