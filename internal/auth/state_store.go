package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"
)

// State validation failures. Callers must treat both as a failed handshake;
// the distinction exists for diagnostics.
var (
	ErrStateNotFound = errors.New("oauth state not found")
	ErrStateExpired  = errors.New("oauth state expired")
)

// StatePayload is the request-specific data bound to a state token at
// flow initiation.
type StatePayload struct {
	GuestID string `json:"guestId,omitempty"`
}

// StateStore issues and validates the one-time tokens that bind an OAuth
// flow instance to its initiating request. Tokens are single-use: a
// validation deletes the record regardless of outcome.
//
// The in-memory implementation is process-local. A multi-instance
// deployment must back this interface with a shared store, or callbacks
// landing on a different instance will always fail validation.
type StateStore interface {
	GenerateState(payload StatePayload) (string, error)
	ValidateState(token string) (StatePayload, error)
	CleanupExpiredStates() int
	Size() int
}

type stateRecord struct {
	payload   StatePayload
	createdAt time.Time
	expiresAt time.Time
}

type memoryStateStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	states map[string]stateRecord
	now    func() time.Time
}

const stateTTL = 10 * time.Minute

// NewStateStore returns an in-memory StateStore with a 10 minute token TTL
func NewStateStore() StateStore {
	return &memoryStateStore{
		ttl:    stateTTL,
		states: make(map[string]stateRecord),
		now:    time.Now,
	}
}

// GenerateState creates a 256-bit random token, stores the payload under it
// and returns the token. Expired entries are swept opportunistically so the
// store does not grow without bound under steady traffic.
func (s *memoryStateStore) GenerateState(payload StatePayload) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cleanupLocked()

	now := s.now()
	s.states[token] = stateRecord{
		payload:   payload,
		createdAt: now,
		expiresAt: now.Add(s.ttl),
	}
	return token, nil
}

// ValidateState consumes a token. The record is deleted whether validation
// succeeds or fails, so a replayed token always gets ErrStateNotFound.
func (s *memoryStateStore) ValidateState(token string) (StatePayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.states[token]
	if !ok {
		return StatePayload{}, ErrStateNotFound
	}
	delete(s.states, token)

	if s.now().After(rec.expiresAt) {
		return StatePayload{}, ErrStateExpired
	}
	return rec.payload, nil
}

// CleanupExpiredStates removes every expired record and returns how many
// were removed. Long-lived processes should call this periodically; the
// store only sweeps opportunistically on generation.
func (s *memoryStateStore) CleanupExpiredStates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleanupLocked()
}

// Size reports the number of live records, for observability
func (s *memoryStateStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

func (s *memoryStateStore) cleanupLocked() int {
	if len(s.states) == 0 {
		return 0
	}
	now := s.now()
	removed := 0
	for token, rec := range s.states {
		if now.After(rec.expiresAt) {
			delete(s.states, token)
			removed++
		}
	}
	return removed
}
