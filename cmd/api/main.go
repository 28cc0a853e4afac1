package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/yearbook-go-api/internal/config"
	"github.com/noah-isme/yearbook-go-api/internal/database"
	"github.com/noah-isme/yearbook-go-api/internal/handler"
	"github.com/noah-isme/yearbook-go-api/internal/middleware"
	"github.com/noah-isme/yearbook-go-api/internal/repository"
	"github.com/noah-isme/yearbook-go-api/internal/router"
	"github.com/noah-isme/yearbook-go-api/internal/service"
	"github.com/noah-isme/yearbook-go-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, decision events limited to redis")
		} else {
			defer natsConn.Close()
		}
	}

	var analyzer ai.Analyzer
	if cfg.AIProvider == "openai" && cfg.OpenAIAPIKey != "" {
		analyzer, err = ai.NewOpenAIAnalyzer(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create openai analyzer: %v", err)
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	moderationRepo := repository.NewModerationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	sessionRepo := repository.NewAdminSessionRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	yearSettingsRepo := repository.NewYearSettingsRepository(db)

	auditService := service.NewAuditService(auditRepo, validate, logger)
	notifier := service.NewDecisionNotifier(redisClient, natsConn, cfg.NotifyChannel, logger)
	moderationService := service.NewModerationService(moderationRepo, auditService, notifier, validate, logger)
	riskService := service.NewRiskService(analyzer, logger)
	sessionService := service.NewSessionService(sessionRepo, validate, logger)
	engagementService := service.NewEngagementService(engagementRepo, redisClient, cfg.EngagementCacheTTL, logger)
	yearSettingsService, err := service.NewYearSettingsService(yearSettingsRepo, logger)
	if err != nil {
		log.Fatalf("failed to create year settings service: %v", err)
	}

	moderationHandler := handler.NewModerationHandler(moderationService, riskService, logger)
	auditLogHandler := handler.NewAuditLogHandler(auditService, logger)
	adminSessionHandler := handler.NewAdminSessionHandler(sessionService, logger)
	engagementHandler := handler.NewEngagementHandler(engagementService, logger)
	yearSettingsHandler := handler.NewYearSettingsHandler(yearSettingsService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ModerationHandler:   moderationHandler,
		AuditLogHandler:     auditLogHandler,
		AdminSessionHandler: adminSessionHandler,
		EngagementHandler:   engagementHandler,
		YearSettingsHandler: yearSettingsHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
		OptionalJWT:         middleware.JWTOptional(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
