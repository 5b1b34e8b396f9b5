package whoop

import (
	"context"

	"github.com/google/uuid"
)

const workoutRoute = "/v2/activity/workout"

type workoutService struct {
	*Endpoint[Workout]
}

func (s *workoutService) Get(ctx context.Context, id uuid.UUID) (*Workout, error) {
	return s.Single(ctx, id.String())
}
