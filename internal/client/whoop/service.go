package whoop

import (
	"context"

	"github.com/google/uuid"
)

// Lister reads the paginated collection of one resource kind.
type Lister[T any] interface {
	Kind() Kind
	Single(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, params ListParams) (*PaginatedResponse[T], error)
	Collection(ctx context.Context, params ListParams, getAllPages bool) ([]T, *string, error)
	All(ctx context.Context, params ListParams) ([]T, error)
	Latest(ctx context.Context) (*T, error)
}

type UserService interface {
	GetProfile(ctx context.Context) (*UserProfile, error)
	GetBodyMeasurement(ctx context.Context) (*BodyMeasurement, error)
	RevokeAccess(ctx context.Context) error
}

type CycleService interface {
	Lister[Cycle]
	Get(ctx context.Context, id int64) (*Cycle, error)
	GetSleep(ctx context.Context, cycleID int64) (*Sleep, error)
	GetRecovery(ctx context.Context, cycleID int64) (*Recovery, error)
}

type RecoveryService interface {
	Lister[Recovery]
	// Get fetches the recovery scored for a cycle.
	Get(ctx context.Context, cycleID int64) (*Recovery, error)
}

type SleepService interface {
	Lister[Sleep]
	Get(ctx context.Context, id uuid.UUID) (*Sleep, error)
}

type WorkoutService interface {
	Lister[Workout]
	Get(ctx context.Context, id uuid.UUID) (*Workout, error)
}
