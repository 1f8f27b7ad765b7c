package usecase

import (
	"context"
	"time"
)

const healthCheckTimeout = 2 * time.Second

type HealthUsecase interface {
	// Check pings every dependency. ok is false when a required one is down.
	Check(ctx context.Context) (status map[string]string, ok bool)
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthUsecase struct {
	db    Pinger
	redis func(ctx context.Context) error
}

// NewHealthUsecase checks the database and, when redisCheck is not nil, Redis.
// Redis is optional: a failure there degrades the report but does not fail it.
func NewHealthUsecase(db Pinger, redisCheck func(ctx context.Context) error) HealthUsecase {
	return &healthUsecase{db: db, redis: redisCheck}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	status := map[string]string{"status": "ok", "database": "ok", "redis": "disabled"}
	ok := true

	if err := u.db.Ping(ctx); err != nil {
		status["database"] = "unavailable"
		status["status"] = "unavailable"
		ok = false
	}
	if u.redis != nil {
		status["redis"] = "ok"
		if err := u.redis(ctx); err != nil {
			status["redis"] = "unavailable"
			if ok {
				status["status"] = "degraded"
			}
		}
	}
	return status, ok
}
