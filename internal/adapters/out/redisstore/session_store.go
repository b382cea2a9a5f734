// Package redisstore provides redis-backed implementations of the OTP
// session store and send rate limiter, for deployments running more than one
// instance. Session lifetime is enforced server-side with key TTLs, so the
// sweep job has nothing to do here.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/otp"

	"github.com/go-redis/redis/v8"
)

// sessionDocument is the JSON shape a session is stored under its key.
type sessionDocument struct {
	Phone       string            `json:"phone"`
	Purpose     string            `json:"purpose"`
	Code        string            `json:"code"`
	Payload     map[string]string `json:"payload,omitempty"`
	Attempts    int               `json:"attempts"`
	MaxAttempts int               `json:"maxAttempts"`
	CreatedAt   time.Time         `json:"createdAt"`
	ExpiresAt   time.Time         `json:"expiresAt"`
}

// SessionStore is a redis-backed OTP session store keyed by (phone, purpose).
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a session store on the given redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Put stores a session under its key with the given lifetime.
func (s *SessionStore) Put(ctx context.Context, session *otp.Session, ttl time.Duration) error {
	if err := session.Validate(); err != nil {
		return err
	}

	doc := sessionDocument{
		Phone:       session.Phone().String(),
		Purpose:     string(session.Purpose()),
		Code:        session.Code(),
		Payload:     session.Payload(),
		Attempts:    session.Attempts(),
		MaxAttempts: session.MaxAttempts(),
		CreatedAt:   session.CreatedAt(),
		ExpiresAt:   session.ExpiresAt(),
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, session.Key(), raw, ttl).Err()
}

// Get retrieves the session for a key. Returns nil without error when the
// key is absent; redis has already expired aged keys server-side.
func (s *SessionStore) Get(ctx context.Context, phone kernel.Phone, purpose otp.Purpose) (*otp.Session, error) {
	raw, err := s.client.Get(ctx, otp.SessionKey(phone, purpose)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc sessionDocument
	if err = json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	storedPhone, err := kernel.NewPhone(doc.Phone)
	if err != nil {
		return nil, err
	}

	return otp.RestoreSession(
		storedPhone,
		otp.Purpose(doc.Purpose),
		doc.Code,
		doc.Payload,
		doc.Attempts,
		doc.MaxAttempts,
		doc.CreatedAt,
		doc.ExpiresAt,
	)
}

// Delete removes the session for a key. Deleting an absent key is not an
// error.
func (s *SessionStore) Delete(ctx context.Context, phone kernel.Phone, purpose otp.Purpose) error {
	return s.client.Del(ctx, otp.SessionKey(phone, purpose)).Err()
}

// Sweep is a no-op: redis expires session keys server-side.
func (s *SessionStore) Sweep(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}
