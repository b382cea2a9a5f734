package redisstore

import (
	"context"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/go-redis/redis/v8"
)

// SendRateLimiter is a redis-backed limiter for the OTP send path: at most
// one send per minute and ten per hour per phone number, shared across
// instances.
type SendRateLimiter struct {
	client  *redis.Client
	perHour int
}

// NewSendRateLimiter creates a limiter on the given redis client. A
// non-positive hourly ceiling falls back to 10.
func NewSendRateLimiter(client *redis.Client, perHour int) *SendRateLimiter {
	if perHour <= 0 {
		perHour = 10
	}
	return &SendRateLimiter{client: client, perHour: perHour}
}

// Allow records a send attempt and reports whether it is within the
// ceilings. The minute guard is a single key with a 60s TTL; the hour guard
// is a counter expired an hour after its first increment.
func (l *SendRateLimiter) Allow(ctx context.Context, phone kernel.Phone) (bool, error) {
	minuteKey := fmt.Sprintf("otp_send_minute:%s", phone)
	hourKey := fmt.Sprintf("otp_send_hour:%s", phone)

	exists, err := l.client.Exists(ctx, minuteKey).Result()
	if err != nil {
		return false, err
	}
	if exists > 0 {
		return false, nil
	}

	count, err := l.client.Get(ctx, hourKey).Int()
	if err != nil && err != redis.Nil {
		return false, err
	}
	if count >= l.perHour {
		return false, nil
	}

	if err = l.client.Set(ctx, minuteKey, 1, time.Minute).Err(); err != nil {
		return false, err
	}
	incremented, err := l.client.Incr(ctx, hourKey).Result()
	if err != nil {
		return false, err
	}
	if incremented == 1 {
		if err = l.client.Expire(ctx, hourKey, time.Hour).Err(); err != nil {
			return false, err
		}
	}

	return true, nil
}
