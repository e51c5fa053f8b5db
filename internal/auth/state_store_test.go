package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStateStore(now *time.Time) *memoryStateStore {
	return &memoryStateStore{
		ttl:    stateTTL,
		states: make(map[string]stateRecord),
		now:    func() time.Time { return *now },
	}
}

func TestGenerateStateReturnsUniqueHexTokens(t *testing.T) {
	store := NewStateStore()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := store.GenerateState(StatePayload{})
		require.NoError(t, err)
		assert.Len(t, token, 64) // 32 bytes hex encoded
		assert.False(t, seen[token], "duplicate token issued")
		seen[token] = true
	}
	assert.Equal(t, 50, store.Size())
}

func TestValidateStateReturnsPayloadOnce(t *testing.T) {
	store := NewStateStore()

	token, err := store.GenerateState(StatePayload{GuestID: "g1"})
	require.NoError(t, err)

	payload, err := store.ValidateState(token)
	require.NoError(t, err)
	assert.Equal(t, "g1", payload.GuestID)

	// Replay always fails with not-found, never expired
	_, err = store.ValidateState(token)
	assert.ErrorIs(t, err, ErrStateNotFound)
	assert.Equal(t, 0, store.Size())
}

func TestValidateStateUnknownToken(t *testing.T) {
	store := NewStateStore()

	_, err := store.ValidateState("no-such-token")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestValidateStateExpired(t *testing.T) {
	now := time.Now()
	store := newTestStateStore(&now)

	token, err := store.GenerateState(StatePayload{GuestID: "g1"})
	require.NoError(t, err)

	now = now.Add(stateTTL + time.Second)

	_, err = store.ValidateState(token)
	assert.ErrorIs(t, err, ErrStateExpired)

	// Expiry also consumes the record
	_, err = store.ValidateState(token)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestValidateStateJustBeforeExpiry(t *testing.T) {
	now := time.Now()
	store := newTestStateStore(&now)

	token, err := store.GenerateState(StatePayload{GuestID: "g2"})
	require.NoError(t, err)

	now = now.Add(stateTTL - time.Second)

	payload, err := store.ValidateState(token)
	require.NoError(t, err)
	assert.Equal(t, "g2", payload.GuestID)
}

func TestCleanupExpiredStates(t *testing.T) {
	now := time.Now()
	store := newTestStateStore(&now)

	for i := 0; i < 3; i++ {
		_, err := store.GenerateState(StatePayload{})
		require.NoError(t, err)
	}

	now = now.Add(stateTTL + time.Minute)
	fresh, err := store.GenerateState(StatePayload{GuestID: "fresh"})
	require.NoError(t, err)

	// Generation already swept the expired entries
	assert.Equal(t, 1, store.Size())
	assert.Equal(t, 0, store.CleanupExpiredStates())

	payload, err := store.ValidateState(fresh)
	require.NoError(t, err)
	assert.Equal(t, "fresh", payload.GuestID)
}

func TestCleanupExpiredStatesExplicitSweep(t *testing.T) {
	now := time.Now()
	store := newTestStateStore(&now)

	for i := 0; i < 5; i++ {
		_, err := store.GenerateState(StatePayload{})
		require.NoError(t, err)
	}

	now = now.Add(stateTTL + time.Minute)

	assert.Equal(t, 5, store.CleanupExpiredStates())
	assert.Equal(t, 0, store.Size())
}
