package authflow

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	user       *UserRecord
	credential string
	err        error
}

func (s *fakeSessions) CreateSession(user UserRecord, credential string) error {
	s.user = &user
	s.credential = credential
	return s.err
}

func flowErrCode(t *testing.T, err error) Code {
	t.Helper()
	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	return fe.Code
}

func TestInitiateStoresStateToken(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/google/start", r.URL.Path)
		assert.Equal(t, "g1", r.URL.Query().Get("guestId"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"authUrl":"https://provider/auth","state":"abc123"}`))
	}))
	defer upstream.Close()

	storage := NewMemoryStorage()
	flow := NewFlow(upstream.URL, storage, &fakeSessions{})

	result, err := flow.Initiate(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "https://provider/auth", result.AuthURL)
	assert.Equal(t, "abc123", result.State)
	assert.Equal(t, StateAwaitingCallback, flow.State())

	stored, ok := storage.Get("oauth_state")
	require.True(t, ok)
	assert.Equal(t, "abc123", stored)
	_, ok = storage.Get("oauth_initTime")
	assert.True(t, ok)
}

func TestInitiateWithoutEndpoint(t *testing.T) {
	flow := NewFlow("", NewMemoryStorage(), &fakeSessions{})

	_, err := flow.Initiate(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, StateFailed, flow.State())
}

func TestInitiateUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	storage := NewMemoryStorage()
	flow := NewFlow(upstream.URL, storage, &fakeSessions{})

	_, err := flow.Initiate(context.Background(), "")
	assert.Equal(t, CodeServerError, flowErrCode(t, err))
	assert.Equal(t, StateFailed, flow.State())
	_, ok := storage.Get("oauth_state")
	assert.False(t, ok)
}

func TestInitiateMalformedUpstreamResponse(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"authUrl":"https://provider/auth"}`)) // state missing
	}))
	defer upstream.Close()

	flow := NewFlow(upstream.URL, NewMemoryStorage(), &fakeSessions{})

	_, err := flow.Initiate(context.Background(), "")
	assert.Equal(t, CodeServerError, flowErrCode(t, err))
}

func TestCallbackMissingParameters(t *testing.T) {
	flow := NewFlow("http://localhost", NewMemoryStorage(), &fakeSessions{})

	_, err := flow.Callback(context.Background(), "", "sess")
	assert.Equal(t, CodeMissingParams, flowErrCode(t, err))

	_, err = flow.Callback(context.Background(), "cred", "")
	assert.Equal(t, CodeMissingParams, flowErrCode(t, err))
}

func TestCallbackWithoutStoredState(t *testing.T) {
	flow := NewFlow("http://localhost", NewMemoryStorage(), &fakeSessions{})

	_, err := flow.Callback(context.Background(), "cred", "sess")
	assert.Equal(t, CodeStateMismatch, flowErrCode(t, err))
}

func TestCallbackStateOlderThanCeiling(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Set("oauth_state", "abc123")
	tooOld := time.Now().Add(-16 * time.Minute)
	storage.Set("oauth_initTime", strconv.FormatInt(tooOld.UnixMilli(), 10))

	flow := NewFlow("http://localhost", storage, &fakeSessions{})

	_, err := flow.Callback(context.Background(), "cred", "sess")
	assert.Equal(t, CodeTimeout, flowErrCode(t, err))

	// Local state cleared so a retry can start over
	_, ok := storage.Get("oauth_state")
	assert.False(t, ok)
	_, ok = storage.Get("oauth_initTime")
	assert.False(t, ok)
}

func TestCallbackRejectedCredential(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer upstream.Close()

	storage := storageWithFreshState()
	flow := NewFlow(upstream.URL, storage, &fakeSessions{})

	_, err := flow.Callback(context.Background(), "bad-cred", "sess")
	assert.Equal(t, CodeInvalidCode, flowErrCode(t, err))
}

func TestCallbackProfileMissingIdentifier(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email":"a@b.com","username":"ab"}`))
	}))
	defer upstream.Close()

	storage := storageWithFreshState()
	flow := NewFlow(upstream.URL, storage, &fakeSessions{})

	_, err := flow.Callback(context.Background(), "cred", "sess")
	assert.Equal(t, CodeProfileFetchFailed, flowErrCode(t, err))

	_, ok := storage.Get("oauth_state")
	assert.False(t, ok)
}

func TestCallbackSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/profile", r.URL.Path)
		assert.Equal(t, "Bearer cred-1", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":42,"email":"a@b.com","username":"ab","role":"user"}`))
	}))
	defer upstream.Close()

	storage := storageWithFreshState()
	sessions := &fakeSessions{}
	flow := NewFlow(upstream.URL, storage, sessions)

	user, err := flow.Callback(context.Background(), "cred-1", "sess")
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, StateCompleted, flow.State())

	require.NotNil(t, sessions.user)
	assert.Equal(t, int64(42), sessions.user.ID)
	assert.Equal(t, "cred-1", sessions.credential)

	_, ok := storage.Get("oauth_state")
	assert.False(t, ok)
}

func TestCallbackSessionCreationFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":42,"email":"a@b.com"}`))
	}))
	defer upstream.Close()

	sessions := &fakeSessions{err: errors.New("db down")}
	flow := NewFlow(upstream.URL, storageWithFreshState(), sessions)

	_, err := flow.Callback(context.Background(), "cred", "sess")
	assert.Equal(t, CodeAccountCreationFailed, flowErrCode(t, err))
	assert.Equal(t, StateFailed, flow.State())
}

func TestCallbackErrorMapsProviderErrors(t *testing.T) {
	testCases := []struct {
		providerErr string
		want        Code
	}{
		{"access_denied", CodeConsentDenied},
		{"popup_blocked", CodePopupBlocked},
		{"temporarily_unavailable", CodeServerError},
	}

	for _, tt := range testCases {
		t.Run(tt.providerErr, func(t *testing.T) {
			flow := NewFlow("http://localhost", NewMemoryStorage(), &fakeSessions{})
			err := flow.CallbackError(tt.providerErr)
			assert.Equal(t, tt.want, flowErrCode(t, err))
		})
	}
}

func TestMessageFallsThroughToServerError(t *testing.T) {
	assert.Equal(t, CodeServerError.Message(), Code(999).Message())
	assert.NotEmpty(t, CodeTimeout.Message())
}

func storageWithFreshState() *MemoryStorage {
	storage := NewMemoryStorage()
	storage.Set("oauth_state", "abc123")
	storage.Set("oauth_initTime", strconv.FormatInt(time.Now().UnixMilli(), 10))
	return storage
}
