package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "gymroutine-session||"
)

// LoginChecker validates tokens against the sessions the identity service keeps in redis.
// Each session key holds the unix time the session was created at.
type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	now         func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
		now:         time.Now,
	}
}

func SessionKey(token string) string {
	return sessionKeyPrefix + token
}

func (c *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	createdAtUnixStr, err := c.redisClient.Get(ctx, SessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get session: %w", err)
	}

	createdAtUnix, err := strconv.ParseInt(createdAtUnixStr, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse session created at [%s]: %w", createdAtUnixStr, err)
	}

	createdAt := time.Unix(createdAtUnix, 0)
	if c.now().Sub(createdAt) > c.ttl {
		return false, nil
	}

	return true, nil
}
