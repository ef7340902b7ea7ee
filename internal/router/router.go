package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"researchhub/internal/auth"
	"researchhub/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	verifier auth.Verifier,
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	searchHandler *handler.SearchHandler,
	reportHandler *handler.ReportHandler,
	activityHandler *handler.ActivityHandler,
	gateHandler *handler.GateHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/sync-user", authHandler.SyncUser)
	api.POST("/auth/verify-token", authHandler.VerifyToken)
	api.POST("/auth/update-token", authHandler.UpdateToken)

	api.GET("/search/cache", searchHandler.CacheGet)
	api.POST("/search/cache", searchHandler.CachePut)
	api.GET("/search/papers", searchHandler.SearchPapers)

	api.POST("/reports/generate-report", reportHandler.GenerateReport)

	api.POST("/logs/search", activityHandler.LogSearch)
	api.POST("/logs/paper-interaction", activityHandler.LogPaperInteraction)
	api.POST("/logs/time-spent", activityHandler.AddTimeSpent)
	api.POST("/logs/team-activity", activityHandler.LogTeamActivity)
	api.GET("/logs/summary", activityHandler.Summary)

	// Secured routes (require a verified bearer token)
	secured := api.Group("", auth.Middleware(verifier))

	secured.GET("/profile", profileHandler.GetProfile)
	secured.GET("/profile/check-complete", profileHandler.CheckComplete)
	secured.POST("/profile/update-profile", profileHandler.UpdateProfile)

	secured.GET("/gate/route", gateHandler.Route)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
