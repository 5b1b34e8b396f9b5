package whoop

import (
	"context"
	"strconv"
)

const recoveryRoute = "/v2/recovery"

type recoveryService struct {
	*Endpoint[Recovery]
}

func (s *recoveryService) Get(ctx context.Context, cycleID int64) (*Recovery, error) {
	return s.Single(ctx, strconv.FormatInt(cycleID, 10))
}
