package authflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Session storage keys used while a flow is in flight
const (
	stateKey    = "oauth_state"
	initTimeKey = "oauth_initTime"
)

const (
	// initiateTimeout bounds the authorization-URL request
	initiateTimeout = 30 * time.Second

	// profileTimeout bounds the identity fetch during callback
	profileTimeout = 10 * time.Second

	// callbackCeiling is the wall-clock limit between initiation and
	// callback. The server-side state expiry is tighter (10 minutes) and
	// effectively governs; this is the local backstop.
	callbackCeiling = 15 * time.Minute
)

// ErrNotConfigured is returned by Initiate when no API endpoint is set.
// Unlike flow failures it is surfaced verbatim: it is a deployment
// mistake, not something the user can retry past.
var ErrNotConfigured = errors.New("authflow: API endpoint is not configured")

var (
	errMalformedUpstream = errors.New("upstream response missing authUrl or state")
	errProfileMissingID  = errors.New("profile response missing an identifier")
	errStateMissing      = errors.New("no stored oauth state")
	errStateTooOld       = errors.New("stored oauth state exceeded callback ceiling")
)

// FlowState tracks where a login attempt is in its lifecycle
type FlowState int

const (
	StateIdle FlowState = iota
	StateInitiated
	StateAwaitingCallback
	StateCompleted
	StateFailed
)

// InitiateResult is the provider handoff returned to the caller so it can
// open the authorization URL.
type InitiateResult struct {
	AuthURL string `json:"authUrl"`
	State   string `json:"state"`
}

// UserRecord is the normalized profile handed to the session creator
type UserRecord struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SessionCreator establishes a session from a verified user record and
// the bearer credential that proved it.
type SessionCreator interface {
	CreateSession(user UserRecord, credential string) error
}

// Flow drives one browser-initiated login attempt end to end: requesting
// the authorization URL, holding the state token across the redirect, and
// validating the callback. A Flow is not safe for concurrent use; each
// attempt gets its own instance.
type Flow struct {
	baseURL    string
	httpClient *http.Client
	storage    SessionStorage
	sessions   SessionCreator
	now        func() time.Time
	state      FlowState
}

// NewFlow builds a flow against the given API base URL
func NewFlow(baseURL string, storage SessionStorage, sessions SessionCreator) *Flow {
	return &Flow{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		storage:    storage,
		sessions:   sessions,
		now:        time.Now,
		state:      StateIdle,
	}
}

// State returns the current lifecycle state
func (f *Flow) State() FlowState {
	return f.state
}

// Initiate requests an authorization URL and state token from the API and
// persists the token locally for the redirect round-trip.
func (f *Flow) Initiate(ctx context.Context, guestID string) (*InitiateResult, error) {
	if f.baseURL == "" {
		f.state = StateFailed
		return nil, ErrNotConfigured
	}
	f.state = StateInitiated

	ctx, cancel := context.WithTimeout(ctx, initiateTimeout)
	defer cancel()

	endpoint := f.baseURL + "/auth/google/start"
	if guestID != "" {
		endpoint += "?guestId=" + url.QueryEscape(guestID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, f.fail(CodeServerError, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, f.fail(classifyTransportError(err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, f.fail(CodeServerError, fmt.Errorf("authorization URL request returned status %d", resp.StatusCode))
	}

	var result InitiateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, f.fail(CodeServerError, err)
	}
	if result.AuthURL == "" || result.State == "" {
		return nil, f.fail(CodeServerError, errMalformedUpstream)
	}

	f.storage.Set(stateKey, result.State)
	f.storage.Set(initTimeKey, strconv.FormatInt(f.now().UnixMilli(), 10))
	f.state = StateAwaitingCallback

	log.WithField("guest_id", guestID).Debug("OAuth flow initiated")
	return &result, nil
}

// Callback finishes the flow: it checks the locally held state, fetches
// the identity behind the credential and hands the verified record to the
// session creator. Local flow state is cleared on every exit path so a
// failed attempt never blocks a retry.
func (f *Flow) Callback(ctx context.Context, credential, sessionID string) (*UserRecord, error) {
	if credential == "" || sessionID == "" {
		return nil, f.fail(CodeMissingParams, errors.New("callback missing credential or session id"))
	}

	storedState, ok := f.storage.Get(stateKey)
	if !ok || storedState == "" {
		return nil, f.fail(CodeStateMismatch, errStateMissing)
	}

	initMillis, ok := f.storage.Get(initTimeKey)
	if !ok {
		return nil, f.fail(CodeStateMismatch, errStateMissing)
	}
	initAt, err := strconv.ParseInt(initMillis, 10, 64)
	if err != nil {
		return nil, f.fail(CodeStateMismatch, fmt.Errorf("corrupt init timestamp: %w", err))
	}
	if f.now().Sub(time.UnixMilli(initAt)) > callbackCeiling {
		return nil, f.fail(CodeTimeout, errStateTooOld)
	}

	user, err := f.fetchProfile(ctx, credential)
	if err != nil {
		var fe *FlowError
		if errors.As(err, &fe) {
			return nil, f.fail(fe.Code, fe.Err)
		}
		return nil, f.fail(CodeServerError, err)
	}

	f.clear()

	if err := f.sessions.CreateSession(*user, credential); err != nil {
		f.state = StateFailed
		log.WithError(err).Error("Session creation failed after successful callback")
		return nil, flowErr(CodeAccountCreationFailed, err)
	}

	f.state = StateCompleted
	return user, nil
}

// CallbackError records a failure reported by the provider redirect
// itself (the user never reached our callback with a credential).
func (f *Flow) CallbackError(providerError string) error {
	code := CodeServerError
	switch providerError {
	case "access_denied":
		code = CodeConsentDenied
	case "popup_blocked":
		code = CodePopupBlocked
	}
	return f.fail(code, fmt.Errorf("provider returned error %q", providerError))
}

func (f *Flow) fetchProfile(ctx context.Context, credential string) (*UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, profileTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/auth/profile", nil)
	if err != nil {
		return nil, flowErr(CodeServerError, err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, flowErr(classifyTransportError(err), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, flowErr(CodeInvalidCode, fmt.Errorf("profile request rejected with 401"))
	case resp.StatusCode != http.StatusOK:
		return nil, flowErr(CodeProfileFetchFailed, fmt.Errorf("profile request returned status %d", resp.StatusCode))
	}

	var user UserRecord
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, flowErr(CodeProfileFetchFailed, err)
	}
	if user.ID == 0 {
		// Data-integrity failure, same user message as a fetch failure
		return nil, flowErr(CodeProfileFetchFailed, errProfileMissingID)
	}
	return &user, nil
}

// fail clears local flow state, logs the internal cause and returns the
// taxonomy error for the caller.
func (f *Flow) fail(code Code, cause error) *FlowError {
	f.clear()
	f.state = StateFailed
	log.WithError(cause).WithField("code", int(code)).Warn("OAuth flow failed")
	return flowErr(code, cause)
}

func (f *Flow) clear() {
	f.storage.Delete(stateKey)
	f.storage.Delete(initTimeKey)
}

func classifyTransportError(err error) Code {
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CodeTimeout
	}
	return CodeNetworkError
}
