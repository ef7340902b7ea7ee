package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"researchhub/internal/service"
)

// ReportHandler handles AI report endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GenerateReportRequest represents a report generation request.
type GenerateReportRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Period    string `json:"period" validate:"omitempty,oneof=last_7_days last_30_days all_time"`
}

// GenerateReport godoc
// @Summary Generate an AI progress report for a student
// @Tags reports
// @Accept json
// @Produce json
// @Param request body GenerateReportRequest true "Report parameters"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /reports/generate-report [post]
func (h *ReportHandler) GenerateReport(c echo.Context) error {
	var req GenerateReportRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	period := req.Period
	if period == "" {
		period = service.PeriodLast7Days
	}

	report, err := h.reportService.Generate(c.Request().Context(), req.StudentID, period)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "report generated", report)
}
