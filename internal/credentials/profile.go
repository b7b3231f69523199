package credentials

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// AdminRole is the role name the server grants administrators.
const AdminRole = "Admin"

// Profile is the signed-in user's profile blob. Fields the client does not
// model are kept in Extra and written back untouched.
type Profile struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Roles     []string
	Extra     map[string]json.RawMessage
}

// fields that belong to the login envelope, not the profile
var envelopeFields = []string{"token", "success", "message", "requiresOtp"}

var knownFields = []string{"id", "userId", "firstName", "lastName", "email", "roles"}

// HasRole reports whether the profile carries role (exact match).
func (p *Profile) HasRole(role string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Roles, role)
}

// DisplayName prefers the first name, then the email.
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.FirstName != "" {
		return p.FirstName
	}
	return p.Email
}

// FillFrom copies fields from other that are empty on p.
func (p *Profile) FillFrom(other *Profile) {
	if p == nil || other == nil {
		return
	}
	if p.ID == "" {
		p.ID = other.ID
	}
	if p.FirstName == "" {
		p.FirstName = other.FirstName
	}
	if p.LastName == "" {
		p.LastName = other.LastName
	}
	if p.Email == "" {
		p.Email = other.Email
	}
	if len(p.Roles) == 0 {
		p.Roles = append([]string(nil), other.Roles...)
	}
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("credentials: decode profile: %w", err)
	}
	*p = Profile{}

	id, err := flexibleString(raw["id"])
	if err != nil {
		return err
	}
	if id == "" {
		if id, err = flexibleString(raw["userId"]); err != nil {
			return err
		}
	}
	p.ID = id
	for key, dst := range map[string]*string{"firstName": &p.FirstName, "lastName": &p.LastName, "email": &p.Email} {
		if v, ok := raw[key]; ok && !isNull(v) {
			if err := json.Unmarshal(v, dst); err != nil {
				return fmt.Errorf("credentials: decode profile %s: %w", key, err)
			}
		}
	}
	if v, ok := raw["roles"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &p.Roles); err != nil {
			return fmt.Errorf("credentials: decode profile roles: %w", err)
		}
	}

	for key, v := range raw {
		if slices.Contains(knownFields, key) || slices.Contains(envelopeFields, key) {
			continue
		}
		if p.Extra == nil {
			p.Extra = map[string]json.RawMessage{}
		}
		p.Extra[key] = v
	}
	return nil
}

func (p Profile) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+5)
	for k, v := range p.Extra {
		out[k] = v
	}
	if p.ID != "" {
		out["id"] = p.ID
	}
	if p.FirstName != "" {
		out["firstName"] = p.FirstName
	}
	if p.LastName != "" {
		out["lastName"] = p.LastName
	}
	if p.Email != "" {
		out["email"] = p.Email
	}
	roles := p.Roles
	if roles == nil {
		roles = []string{}
	}
	out["roles"] = roles
	return json.Marshal(out)
}

// flexibleString accepts ids sent either as JSON strings or numbers.
func flexibleString(v json.RawMessage) (string, error) {
	if len(v) == 0 || isNull(v) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", fmt.Errorf("credentials: decode profile id: %w", err)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}
