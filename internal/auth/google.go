package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

	// Ceilings on the provider round-trips. Exceeding either aborts the
	// in-flight request.
	exchangeTimeout = 10 * time.Second
	profileTimeout  = 10 * time.Second
)

var (
	// ErrNotConfigured is returned when the Google client id/secret are unset
	ErrNotConfigured = errors.New("google oauth is not configured")

	// ErrEmailNotVerified is returned for Google accounts without a verified email
	ErrEmailNotVerified = errors.New("google account email is not verified")

	// ErrProfileMissingID is returned when the userinfo payload lacks a subject id
	ErrProfileMissingID = errors.New("google profile is missing an identifier")

	// ErrProfileUnauthorized is returned on a 401 from the userinfo endpoint
	ErrProfileUnauthorized = errors.New("google rejected the access token")
)

// GoogleProfile is the subset of the userinfo payload the application uses
type GoogleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleProvider wraps the Google authorization endpoint: building
// authorization URLs, exchanging codes and fetching profiles.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewGoogleProvider builds a provider from client credentials. An empty
// client id leaves the provider unconfigured; flows started against it
// fail with ErrNotConfigured rather than panicking at startup, so the
// rest of the API stays usable without Google credentials.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
		httpClient:  &http.Client{},
	}
}

// Configured reports whether client credentials are present
func (p *GoogleProvider) Configured() bool {
	return p.config.ClientID != ""
}

// AuthCodeURL builds the provider authorization URL carrying the state token
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token set
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if !p.Configured() {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}
	return token, nil
}

// FetchProfile retrieves the authenticated user's profile from the
// userinfo endpoint using a bearer access token.
func (p *GoogleProvider) FetchProfile(ctx context.Context, accessToken string) (*GoogleProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, profileTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrProfileUnauthorized
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("profile request returned status %d", resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if profile.ID == "" {
		return nil, ErrProfileMissingID
	}
	return &profile, nil
}
