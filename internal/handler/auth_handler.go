package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"researchhub/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SyncUserRequest represents an identity-provider user sync.
type SyncUserRequest struct {
	UID           string `json:"uid" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	DisplayName   string `json:"display_name"`
	Provider      string `json:"provider"`
	EmailVerified bool   `json:"email_verified"`
}

// VerifyTokenRequest represents a token verification request.
type VerifyTokenRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// UpdateTokenRequest represents a provider OAuth token refresh.
type UpdateTokenRequest struct {
	UID          string `json:"uid" validate:"required"`
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

// SyncUser godoc
// @Summary Sync an identity-provider user into the local store
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SyncUserRequest true "Identity data"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /auth/sync-user [post]
func (h *AuthHandler) SyncUser(c echo.Context) error {
	var req SyncUserRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	user, err := h.authService.SyncUser(c.Request().Context(), service.SyncUserInput{
		UID:           req.UID,
		Email:         req.Email,
		DisplayName:   req.DisplayName,
		Provider:      req.Provider,
		EmailVerified: req.EmailVerified,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, "user synced", map[string]interface{}{
		"user_id":           user.ID,
		"uid":               user.ExternalUID,
		"role":              user.Role,
		"profile_completed": user.ProfileCompleted,
	})
}

// VerifyToken godoc
// @Summary Verify a bearer token and resolve its user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyTokenRequest true "Token"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /auth/verify-token [post]
func (h *AuthHandler) VerifyToken(c echo.Context) error {
	var req VerifyTokenRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	user, err := h.authService.VerifyToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, "token verified", map[string]interface{}{
		"user_id":           user.ID,
		"uid":               user.ExternalUID,
		"email":             user.Email,
		"role":              user.Role,
		"profile_completed": user.ProfileCompleted,
	})
}

// UpdateToken godoc
// @Summary Store refreshed provider OAuth tokens for a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body UpdateTokenRequest true "Token data"
// @Success 200 {object} Envelope
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /auth/update-token [post]
func (h *AuthHandler) UpdateToken(c echo.Context) error {
	var req UpdateTokenRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	token, created, err := h.authService.UpdateTokens(c.Request().Context(), service.UpdateTokensInput{
		UID:          req.UID,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		Scope:        req.Scope,
		ExpiresIn:    req.ExpiresIn,
	})
	if err != nil {
		return respondError(c, err)
	}

	status := http.StatusOK
	message := "tokens updated"
	if created {
		status = http.StatusCreated
		message = "tokens stored"
	}
	return respond(c, status, message, map[string]interface{}{
		"expires_at": token.ExpiresAt,
	})
}
