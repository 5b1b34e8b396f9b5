package whoop

import (
	"context"
	"net/http"
)

const (
	profileRoute     = "/v2/user/profile/basic"
	measurementRoute = "/v2/user/measurement/body"
	accessRoute      = "/v2/user/access"
)

type userService struct {
	client *Client
}

func (s *userService) GetProfile(ctx context.Context) (*UserProfile, error) {
	return getOne[UserProfile](ctx, s.client, KindUser, profileRoute, "profile")
}

func (s *userService) GetBodyMeasurement(ctx context.Context) (*BodyMeasurement, error) {
	return getOne[BodyMeasurement](ctx, s.client, KindUser, measurementRoute, "body measurement")
}

// RevokeAccess revokes the application's access for the user. The held
// tokens stop working afterwards.
func (s *userService) RevokeAccess(ctx context.Context) error {
	return s.client.do(ctx, http.MethodDelete, KindUser, accessRoute, nil, nil)
}
