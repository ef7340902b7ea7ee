package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"researchhub/internal/auth"
	apperrors "researchhub/internal/errors"
	"researchhub/internal/gate"
	"researchhub/internal/service"
)

// GateHandler routes authenticated users through the onboarding funnel.
type GateHandler struct {
	profileService service.ProfileService
}

// NewGateHandler creates a new gate handler.
func NewGateHandler(profileService service.ProfileService) *GateHandler {
	return &GateHandler{profileService: profileService}
}

// Route godoc
// @Summary Decide where the caller should be sent next
// @Tags gate
// @Produce json
// @Security BearerAuth
// @Param return_url query string false "Page the user originally requested"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /gate/route [get]
func (h *GateHandler) Route(c echo.Context) error {
	uid := auth.SubjectFrom(c)
	if uid == "" {
		return respondError(c, apperrors.ErrMissingAuthHeader)
	}

	result, err := h.profileService.CheckComplete(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, err)
	}

	decision := gate.Decide(result.Role, result.Complete, c.QueryParam("return_url"))
	return respond(c, http.StatusOK, "routing decision", decision)
}
