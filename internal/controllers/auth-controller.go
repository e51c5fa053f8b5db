package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/finwiseapp/gin-finance-api/internal/auth"
	"github.com/finwiseapp/gin-finance-api/internal/models"
	"github.com/finwiseapp/gin-finance-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
}

type AuthController struct {
	userService services.UserService
	sessions    *auth.SessionManager
	states      auth.StateStore
	google      *auth.GoogleProvider
}

func NewAuthController(userService services.UserService, sessions *auth.SessionManager, states auth.StateStore, google *auth.GoogleProvider) *AuthController {
	return &AuthController{
		userService: userService,
		sessions:    sessions,
		states:      states,
		google:      google,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Create an account with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Username string `json:"username"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := &models.User{
		Email:        req.Email,
		Password:     req.Password,
		Username:     req.Username,
		AuthProvider: models.AuthProviderEmail,
	}

	if err := user.HashPassword(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password_hashing_failed"})
		return
	}

	if err := ac.userService.CreateUser(user); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "user_already_exists"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "user_created"})
}

// Login godoc
// @Summary Log in with email and password
// @Description Authenticate and receive an access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.userService.GetUserByEmail(req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	pair, err := ac.sessions.CreateSession(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token_generation_failed"})
		return
	}

	if err := ac.userService.UpdateLastLogin(user.ID, models.AuthProviderEmail); err != nil {
		log.WithError(err).Warn("Failed to record last login")
	}

	c.JSON(http.StatusOK, loginResponse(pair, user, ""))
}

// GoogleStart godoc
// @Summary Begin the Google sign-in flow
// @Description Issues a one-time state token and returns the Google authorization URL
// @Tags auth
// @Produce json
// @Param guestId query string false "Guest session identifier carried through the flow"
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/v1/auth/google/start [get]
func (ac *AuthController) GoogleStart(c *gin.Context) {
	if !ac.google.Configured() {
		c.JSON(http.StatusServiceUnavailable, models.NewOAuth2Error("server_error",
			"Google sign-in is not configured on this server"))
		return
	}

	state, err := ac.states.GenerateState(auth.StatePayload{GuestID: c.Query("guestId")})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewOAuth2Error("server_error",
			"Could not start the sign-in flow"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authUrl": ac.google.AuthCodeURL(state),
		"state":   state,
	})
}

// GoogleCallback godoc
// @Summary Complete the Google sign-in flow
// @Description Validates the state token, exchanges the authorization code and issues a session
// @Tags auth
// @Produce json
// @Param state query string true "State token issued at flow start"
// @Param code query string true "Authorization code from Google"
// @Param error query string false "Error code forwarded by Google"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.OAuth2Error
// @Failure 401 {object} models.OAuth2Error
// @Failure 403 {object} models.OAuth2Error
// @Failure 502 {object} models.OAuth2Error
// @Router /api/v1/auth/google/callback [get]
func (ac *AuthController) GoogleCallback(c *gin.Context) {
	// Provider-reported failures arrive before any code is minted
	if provErr := c.Query("error"); provErr != "" {
		if provErr == "access_denied" {
			c.JSON(http.StatusForbidden, models.NewOAuth2Error("consent_denied",
				"Sign-in was cancelled. You can try again anytime."))
			return
		}
		c.JSON(http.StatusBadGateway, models.NewOAuth2Error("server_error",
			"Google reported an error: "+provErr))
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error("missing_params",
			"Both state and code parameters are required"))
		return
	}

	payload, err := ac.states.ValidateState(state)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error("state_mismatch",
			"Security verification failed. Please try signing in again."))
		return
	}

	token, err := ac.google.Exchange(c.Request.Context(), code)
	if err != nil {
		log.WithError(err).Warn("Google code exchange failed")
		c.JSON(http.StatusBadGateway, models.NewOAuth2Error("token_exchange_failed",
			"Could not complete sign-in with Google"))
		return
	}

	profile, err := ac.google.FetchProfile(c.Request.Context(), token.AccessToken)
	if err != nil {
		log.WithError(err).Warn("Google profile fetch failed")
		if errors.Is(err, auth.ErrProfileUnauthorized) {
			c.JSON(http.StatusUnauthorized, models.NewOAuth2Error("invalid_code",
				"Google rejected the sign-in credentials"))
			return
		}
		c.JSON(http.StatusBadGateway, models.NewOAuth2Error("profile_fetch_failed",
			"Could not load your Google profile"))
		return
	}

	if !profile.VerifiedEmail {
		c.JSON(http.StatusForbidden, models.NewOAuth2Error("email_unverified",
			"Your Google account email must be verified before signing in"))
		return
	}

	user, err := ac.userService.FindOrCreateGoogleUser(profile.ID, profile.Email, profile.Name)
	if err != nil {
		if errors.Is(err, services.ErrGoogleIDLinked) {
			c.JSON(http.StatusConflict, models.NewOAuth2Error("duplicate_account",
				"This email is already linked to a different Google account"))
			return
		}
		log.WithError(err).Error("Google account provisioning failed")
		c.JSON(http.StatusInternalServerError, models.NewOAuth2Error("account_creation_failed",
			"Could not create your account"))
		return
	}

	if err := ac.userService.UpdateLastLogin(user.ID, models.AuthProviderGoogle); err != nil {
		log.WithError(err).Warn("Failed to record last login")
	}

	pair, err := ac.sessions.CreateSession(c.Request.Context(), user)
	if err != nil {
		log.WithError(err).Error("Session issuance failed after Google sign-in")
		c.JSON(http.StatusInternalServerError, models.NewOAuth2Error("server_error",
			"Could not establish a session"))
		return
	}

	c.JSON(http.StatusOK, loginResponse(pair, user, payload.GuestID))
}

// Refresh godoc
// @Summary Refresh a session
// @Description Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.OAuth2Error
// @Failure 401 {object} models.OAuth2Error
// @Router /api/v1/auth/refresh [post]
func (ac *AuthController) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error("invalid_request",
			"refresh_token is required"))
		return
	}

	pair, err := ac.sessions.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.NewOAuth2Error("invalid_grant",
			"Refresh token is invalid or expired"))
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Logout godoc
// @Summary Terminate the current session
// @Description Revokes the access token presented in the Authorization header
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.OAuth2Error
// @Router /api/v1/protected/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" || tokenString == authHeader {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error("invalid_request",
			"A Bearer access token is required"))
		return
	}

	if err := ac.sessions.Revoke(c.Request.Context(), tokenString); err != nil {
		log.WithError(err).Warn("Token revocation failed")
	}

	// Revocation is idempotent from the client's point of view
	c.JSON(http.StatusOK, gin.H{"message": "logged_out"})
}

// Profile godoc
// @Summary Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/protected/profile [get]
func (ac *AuthController) Profile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := ac.userService.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdatePreferences godoc
// @Summary Update the authenticated user's preferences
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserPreferences
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/protected/profile/preferences [put]
func (ac *AuthController) UpdatePreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var prefs models.UserPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := ac.userService.UpdatePreferences(userID, prefs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "preferences_update_failed"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

func loginResponse(pair *auth.TokenPair, user *models.User, guestID string) gin.H {
	resp := gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    pair.TokenType,
		"expires_in":    pair.ExpiresIn,
		"user": gin.H{
			"id":           user.ID,
			"email":        user.Email,
			"username":     user.Username,
			"role":         user.Role,
			"authProvider": user.AuthProvider,
		},
	}
	if guestID != "" {
		resp["guestId"] = guestID
	}
	return resp
}
