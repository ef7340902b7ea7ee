package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"researchhub/internal/auth"
	apperrors "researchhub/internal/errors"
	"researchhub/internal/model"
	"researchhub/internal/service"
)

// ProfileHandler handles profile endpoints.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// CheckComplete godoc
// @Summary Check whether the caller's profile is complete
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /profile/check-complete [get]
func (h *ProfileHandler) CheckComplete(c echo.Context) error {
	uid := auth.SubjectFrom(c)
	if uid == "" {
		return respondError(c, apperrors.ErrMissingAuthHeader)
	}

	result, err := h.profileService.CheckComplete(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, result.Message, result)
}

// GetProfile godoc
// @Summary Get the caller's user and role profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	uid := auth.SubjectFrom(c)
	if uid == "" {
		return respondError(c, apperrors.ErrMissingAuthHeader)
	}

	profile, err := h.profileService.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "profile loaded", profile)
}

// UpdateProfile godoc
// @Summary Apply a partial profile update for the caller
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ProfileUpdate true "Profile fields"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /profile/update-profile [post]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	uid := auth.SubjectFrom(c)
	if uid == "" {
		return respondError(c, apperrors.ErrMissingAuthHeader)
	}

	var req model.ProfileUpdate
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	complete, err := h.profileService.UpsertProfile(c.Request().Context(), uid, &req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "profile updated", map[string]interface{}{
		"profile_completed": complete,
	})
}
