package hotelapi

import (
	"context"
	"net/http"
	"net/url"
)

// AdminService wraps the /Admin/users endpoints.
type AdminService struct {
	client *Client
}

func (s *AdminService) Users(ctx context.Context) ([]User, error) {
	return Do[[]User](ctx, s.client, Call{Path: "/Admin/users"})
}

func (s *AdminService) User(ctx context.Context, id string) (*User, error) {
	user, err := Do[User](ctx, s.client, Call{Path: userPath(id)})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AdminService) AssignRole(ctx context.Context, id, role string) error {
	_, err := s.client.Request(ctx, Call{Method: http.MethodPost, Path: userPath(id) + "/assign-role", Body: RoleRequest{RoleName: role}})
	return err
}

func (s *AdminService) RemoveRole(ctx context.Context, id, role string) error {
	_, err := s.client.Request(ctx, Call{Method: http.MethodPost, Path: userPath(id) + "/remove-role", Body: RoleRequest{RoleName: role}})
	return err
}

func (s *AdminService) UserRoles(ctx context.Context, id string) ([]string, error) {
	return Do[[]string](ctx, s.client, Call{Path: userPath(id) + "/roles"})
}

func userPath(id string) string {
	return "/Admin/users/" + url.PathEscape(id)
}
