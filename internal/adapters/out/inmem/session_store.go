// Package inmem provides single-process implementations of the OTP session
// store and send rate limiter. They hold everything in memory behind a mutex,
// which is enough for one instance; multi-instance deployments use the redis
// adapters instead.
package inmem

import (
	"context"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/otp"
)

type sessionEntry struct {
	session   *otp.Session
	expiresAt time.Time
}

// SessionStore is an in-memory OTP session store keyed by (phone, purpose).
// Expired entries linger until the next Sweep or until a Get touches them.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]sessionEntry)}
}

// Put stores a session under its key with the given lifetime.
func (s *SessionStore) Put(_ context.Context, session *otp.Session, ttl time.Duration) error {
	if err := session.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Key()] = sessionEntry{
		session:   session,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Get retrieves the session for a key. Returns nil without error when the
// key is absent or its store lifetime has lapsed.
func (s *SessionStore) Get(_ context.Context, phone kernel.Phone, purpose otp.Purpose) (*otp.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := otp.SessionKey(phone, purpose)
	entry, ok := s.sessions[key]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.sessions, key)
		return nil, nil
	}
	return entry.session, nil
}

// Delete removes the session for a key. Deleting an absent key is not an
// error.
func (s *SessionStore) Delete(_ context.Context, phone kernel.Phone, purpose otp.Purpose) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, otp.SessionKey(phone, purpose))
	return nil
}

// Sweep removes expired sessions and reports how many were dropped.
func (s *SessionStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	swept := 0
	for key, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, key)
			swept++
		}
	}
	return swept, nil
}
