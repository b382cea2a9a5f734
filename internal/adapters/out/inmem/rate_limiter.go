package inmem

import (
	"context"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// SendRateLimiter is an in-memory sliding-window limiter for the OTP send
// path: at most one send per minute and ten per hour per phone number.
type SendRateLimiter struct {
	mu        sync.Mutex
	sends     map[string][]time.Time
	perMinute int
	perHour   int
	lastSweep time.Time
}

// NewSendRateLimiter creates a limiter with the given per-minute and
// per-hour ceilings. Non-positive ceilings fall back to 1/min and 10/hour.
func NewSendRateLimiter(perMinute, perHour int) *SendRateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if perHour <= 0 {
		perHour = 10
	}
	return &SendRateLimiter{
		sends:     make(map[string][]time.Time),
		perMinute: perMinute,
		perHour:   perHour,
	}
}

// Allow records a send attempt and reports whether it is within the
// ceilings. A refused attempt is not recorded.
func (l *SendRateLimiter) Allow(_ context.Context, phone kernel.Phone) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allow(time.Now(), phone.String()), nil
}

func (l *SendRateLimiter) allow(now time.Time, key string) bool {
	// phones that stop sending would otherwise keep their map entry forever
	if now.Sub(l.lastSweep) >= time.Hour {
		l.sweep(now)
	}

	recent := l.sends[key][:0]
	inMinute := 0
	for _, at := range l.sends[key] {
		if now.Sub(at) >= time.Hour {
			continue
		}
		recent = append(recent, at)
		if now.Sub(at) < time.Minute {
			inMinute++
		}
	}

	if inMinute >= l.perMinute || len(recent) >= l.perHour {
		l.sends[key] = recent
		return false
	}

	l.sends[key] = append(recent, now)
	return true
}

// sweep drops phones whose newest attempt is outside the hour window.
func (l *SendRateLimiter) sweep(now time.Time) {
	for key, attempts := range l.sends {
		if len(attempts) == 0 || now.Sub(attempts[len(attempts)-1]) >= time.Hour {
			delete(l.sends, key)
		}
	}
	l.lastSweep = now
}
