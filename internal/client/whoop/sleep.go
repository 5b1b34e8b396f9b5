package whoop

import (
	"context"

	"github.com/google/uuid"
)

const sleepRoute = "/v2/activity/sleep"

type sleepService struct {
	*Endpoint[Sleep]
}

func (s *sleepService) Get(ctx context.Context, id uuid.UUID) (*Sleep, error) {
	return s.Single(ctx, id.String())
}
