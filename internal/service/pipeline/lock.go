package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"signup-gateway/pkg/errors"
	"signup-gateway/pkg/logger"
	"signup-gateway/pkg/redis"
)

// Lock guards one (method, email) submission across service instances.
// release must be called once the submission finishes.
type Lock interface {
	Acquire(ctx context.Context, method, email string) (release func(), err error)
}

type nopLock struct{}

func (nopLock) Acquire(context.Context, string, string) (func(), error) {
	return func() {}, nil
}

// RedisLock implements Lock with SET NX and a TTL so a crashed instance
// cannot hold a submission forever.
type RedisLock struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewRedisLock creates a Redis-backed submission lock
func NewRedisLock(client *redis.Client, ttl time.Duration, logger *logger.Logger) *RedisLock {
	return &RedisLock{client: client, ttl: ttl, logger: logger.Named("submission_lock")}
}

// Acquire fails with a conflict error when another submission for the same
// key is pending. Redis errors fail open.
func (l *RedisLock) Acquire(ctx context.Context, method, email string) (func(), error) {
	key := l.client.KeyBuilder.KeySubmissionLock(method, email)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl)
	if err != nil {
		l.logger.WithError(err).Warn("Submission lock unavailable, continuing without it")
		return func() {}, nil
	}
	if !ok {
		return nil, errors.NewConflictError("A submission for this account is already in progress")
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := l.client.DeleteIfValue(releaseCtx, key, token); err != nil {
			l.logger.WithError(err).Warn("Failed to release submission lock")
		}
	}, nil
}
