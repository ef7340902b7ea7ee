package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"researchhub/internal/errors"
)

// Envelope is the uniform response shape for every endpoint, success and
// failure alike.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return c.JSON(httpErr.StatusCode, Envelope{
		Success: false,
		Message: httpErr.Message,
	})
}

func respondBadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Message: message,
	})
}
