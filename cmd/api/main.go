package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-exam-api/internal/config"
	"github.com/noah-isme/gema-exam-api/internal/database"
	"github.com/noah-isme/gema-exam-api/internal/grading"
	"github.com/noah-isme/gema-exam-api/internal/handler"
	"github.com/noah-isme/gema-exam-api/internal/middleware"
	"github.com/noah-isme/gema-exam-api/internal/models"
	"github.com/noah-isme/gema-exam-api/internal/repository"
	"github.com/noah-isme/gema-exam-api/internal/router"
	"github.com/noah-isme/gema-exam-api/internal/service"
	"github.com/noah-isme/gema-exam-api/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()

	db, err := connectDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db, models.All()...); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis disabled: exam cache and redis grade events are off")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	validate := utils.NewValidator()

	examRepo := repository.NewExamRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	transactor := repository.NewTransactor(db)

	gradeEvents := service.NewGradeEventPublisher(redisClient, cfg.EventsChannel, natsConn, logger)
	examService := service.NewExamService(examRepo, redisClient, cfg.CatalogCacheTTL, logger)
	submissionService := service.NewSubmissionService(transactor, submissionRepo, grading.NewEngine(), gradeEvents, validate, logger)
	seedService := service.NewSeedService(examRepo, validate, cfg.SeedEnabled, cfg.SeedToken, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ExamHandler:       handler.NewExamHandler(examService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		SeedHandler:       handler.NewSeedHandler(seedService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	logger.Info().Str("address", cfg.HTTPAddress()).Str("database", cfg.DatabaseDriver).Msg("server started")

	waitForShutdown(app)
}

func connectDatabase(cfg config.Config) (*gorm.DB, error) {
	if cfg.DatabaseDriver == config.DatabaseDriverSQLite {
		return database.ConnectSQLite(cfg.DatabaseURL)
	}
	return database.ConnectPostgres(cfg.DatabaseURL)
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
