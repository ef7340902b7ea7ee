package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"researchhub/internal/model"
	"researchhub/internal/service"
)

// ActivityHandler handles activity logging endpoints.
type ActivityHandler struct {
	activityService service.ActivityService
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// LogSearchRequest represents a search log entry.
type LogSearchRequest struct {
	UserID       uint   `json:"user_id" validate:"required"`
	Query        string `json:"query" validate:"required"`
	ResultsCount int    `json:"results_count"`
	Source       string `json:"source"`
}

// LogPaperInteractionRequest represents a paper interaction log entry.
type LogPaperInteractionRequest struct {
	UserID          uint   `json:"user_id" validate:"required"`
	PaperID         string `json:"paper_id" validate:"required"`
	PaperTitle      string `json:"paper_title"`
	PaperAuthors    string `json:"paper_authors"`
	PaperYear       string `json:"paper_year"`
	InteractionType string `json:"interaction_type" validate:"omitempty,oneof=view save cite"`
	TimeSpent       int    `json:"time_spent"`
}

// TimeSpentRequest represents additional reading time on an interaction.
type TimeSpentRequest struct {
	InteractionID uint `json:"interaction_id" validate:"required"`
	Seconds       int  `json:"seconds" validate:"required,min=1"`
}

// TeamActivityRequest represents a team activity feed entry.
type TeamActivityRequest struct {
	UserID       uint   `json:"user_id" validate:"required"`
	ActivityType string `json:"activity_type" validate:"required"`
	Description  string `json:"description"`
}

// LogSearch godoc
// @Summary Log a search performed by a user
// @Tags activity
// @Accept json
// @Produce json
// @Param request body LogSearchRequest true "Search data"
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /logs/search [post]
func (h *ActivityHandler) LogSearch(c echo.Context) error {
	var req LogSearchRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	err := h.activityService.LogSearch(c.Request().Context(), req.UserID, req.Query, req.ResultsCount, req.Source)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "search logged", nil)
}

// LogPaperInteraction godoc
// @Summary Log a paper view, save, or citation
// @Tags activity
// @Accept json
// @Produce json
// @Param request body LogPaperInteractionRequest true "Interaction data"
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /logs/paper-interaction [post]
func (h *ActivityHandler) LogPaperInteraction(c echo.Context) error {
	var req LogPaperInteractionRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	id, err := h.activityService.LogPaperInteraction(c.Request().Context(), &model.PaperInteraction{
		UserID:          req.UserID,
		PaperID:         req.PaperID,
		PaperTitle:      req.PaperTitle,
		PaperAuthors:    req.PaperAuthors,
		PaperYear:       req.PaperYear,
		InteractionType: model.InteractionType(req.InteractionType),
		TimeSpent:       req.TimeSpent,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "interaction logged", map[string]uint{
		"interaction_id": id,
	})
}

// AddTimeSpent godoc
// @Summary Add reading time to an existing paper interaction
// @Tags activity
// @Accept json
// @Produce json
// @Param request body TimeSpentRequest true "Time data"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /logs/time-spent [post]
func (h *ActivityHandler) AddTimeSpent(c echo.Context) error {
	var req TimeSpentRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	if err := h.activityService.AddTimeSpent(c.Request().Context(), req.InteractionID, req.Seconds); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "time recorded", nil)
}

// LogTeamActivity godoc
// @Summary Log a team activity feed entry
// @Tags activity
// @Accept json
// @Produce json
// @Param request body TeamActivityRequest true "Activity data"
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /logs/team-activity [post]
func (h *ActivityHandler) LogTeamActivity(c echo.Context) error {
	var req TeamActivityRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	err := h.activityService.LogTeamActivity(c.Request().Context(), req.UserID, req.ActivityType, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "activity logged", nil)
}

// Summary godoc
// @Summary Summarize a user's recent activity
// @Tags activity
// @Produce json
// @Param user_id query int true "User ID"
// @Param days query int false "Window in days" default(7)
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /logs/summary [get]
func (h *ActivityHandler) Summary(c echo.Context) error {
	userID, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 64)
	if err != nil || userID == 0 {
		return respondBadRequest(c, "query parameter user_id is required")
	}

	days := 7
	if raw := c.QueryParam("days"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			days = n
		}
	}

	summary, err := h.activityService.Summary(c.Request().Context(), uint(userID), days)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "activity summary", summary)
}
