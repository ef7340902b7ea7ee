package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	_ "researchhub/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"researchhub/internal/auth"
	"researchhub/internal/cache"
	"researchhub/internal/config"
	"researchhub/internal/db"
	"researchhub/internal/handler"
	"researchhub/internal/megallm"
	"researchhub/internal/model"
	"researchhub/internal/repository"
	"researchhub/internal/router"
	"researchhub/internal/scholar"
	"researchhub/internal/service"
)

// @title Research Hub API
// @version 1.0
// @description Research assistant platform with onboarding, paper search caching, activity tracking, and AI progress reports.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the ID token.
func main() {
	cfg := config.Load()

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.SupervisorReport{},
			&model.TeamActivity{},
			&model.PaperInteraction{},
			&model.SearchLog{},
			&model.SearchCacheEntry{},
			&model.AuthToken{},
			&model.LecturerProfile{},
			&model.StudentProfile{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.StudentProfile{},
		&model.LecturerProfile{},
		&model.AuthToken{},
		&model.SearchCacheEntry{},
		&model.SearchLog{},
		&model.PaperInteraction{},
		&model.TeamActivity{},
		&model.SupervisorReport{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	profileRepo := repository.NewProfileRepository(gormDB)
	tokenRepo := repository.NewTokenRepository(gormDB)
	searchCacheRepo := repository.NewSearchCacheRepository(gormDB)
	activityRepo := repository.NewActivityRepository(gormDB)
	reportRepo := repository.NewReportRepository(gormDB)

	// Initialize auth components
	verifier := auth.NewCachingVerifier(
		auth.NewHMACVerifier(cfg.JWTSecret),
		auth.NewTokenCache(cacheClient),
	)

	// Initialize external provider clients
	llmClient := megallm.NewClient(megallm.Config{
		BaseURL: cfg.LLMBaseURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	}, nil)
	scholarClient := scholar.NewClient(scholar.Config{
		BaseURL: cfg.ScholarBaseURL,
		APIKey:  cfg.ScholarAPIKey,
		Timeout: cfg.ScholarTimeout,
	}, nil)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokenRepo, verifier)
	profileService := service.NewProfileService(profileRepo, cacheClient)
	searchService := service.NewSearchService(searchCacheRepo, activityRepo, scholarClient)
	activityService := service.NewActivityService(activityRepo)
	reportService := service.NewReportService(userRepo, profileRepo, activityRepo, reportRepo, llmClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	searchHandler := handler.NewSearchHandler(searchService)
	reportHandler := handler.NewReportHandler(reportService)
	activityHandler := handler.NewActivityHandler(activityService)
	gateHandler := handler.NewGateHandler(profileService)

	// Register routes
	router.Register(
		e,
		verifier,
		authHandler,
		profileHandler,
		searchHandler,
		reportHandler,
		activityHandler,
		gateHandler,
	)

	// Log swagger full path
	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(swaggerHost, "http://") && !strings.HasPrefix(swaggerHost, "https://") {
		swaggerHost = "http://" + swaggerHost
	}
	log.Printf("Swagger documentation available at: %s/swagger/index.html", swaggerHost)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
