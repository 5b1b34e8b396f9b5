package whoop

import (
	"context"
	"strconv"
)

const cycleRoute = "/v2/cycle"

type cycleService struct {
	*Endpoint[Cycle]
}

func (s *cycleService) Get(ctx context.Context, id int64) (*Cycle, error) {
	return s.Single(ctx, strconv.FormatInt(id, 10))
}

func (s *cycleService) GetSleep(ctx context.Context, cycleID int64) (*Sleep, error) {
	id := strconv.FormatInt(cycleID, 10)
	return getOne[Sleep](ctx, s.client, KindSleep, cycleRoute+"/"+id+"/sleep", id)
}

func (s *cycleService) GetRecovery(ctx context.Context, cycleID int64) (*Recovery, error) {
	id := strconv.FormatInt(cycleID, 10)
	return getOne[Recovery](ctx, s.client, KindRecovery, cycleRoute+"/"+id+"/recovery", id)
}
