package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/lms-insight-api/api/swagger"
	"github.com/noah-isme/lms-insight-api/internal/analytics"
	"github.com/noah-isme/lms-insight-api/internal/handler"
	"github.com/noah-isme/lms-insight-api/internal/middleware"
	"github.com/noah-isme/lms-insight-api/internal/repository"
	"github.com/noah-isme/lms-insight-api/internal/service"
	"github.com/noah-isme/lms-insight-api/pkg/cache"
	"github.com/noah-isme/lms-insight-api/pkg/config"
	"github.com/noah-isme/lms-insight-api/pkg/database"
	"github.com/noah-isme/lms-insight-api/pkg/export"
	"github.com/noah-isme/lms-insight-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/lms-insight-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/lms-insight-api/pkg/middleware/requestid"
	"github.com/noah-isme/lms-insight-api/pkg/storage"
)

// @title LMS Insight API
// @version 0.1.0
// @description Builds supervised-learning datasets for late assignment submission prediction from an LMS mirror database
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to mirror database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsService := service.NewMetricsService()

	var cacheService *service.CacheService
	if cfg.Datasets.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Datasets.CacheTTL, logr, true)
	} else {
		cacheService = service.NewCacheService(nil, metricsService, 0, logr, false)
	}

	activityRepo := repository.NewActivityRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	eventRepo := repository.NewEventRepository(db)
	gradeRepo := repository.NewGradeRepository(db)

	samplerService := service.NewSamplerService(participantRepo, submissionRepo, activityRepo, logr)
	targetService := service.NewTargetService(enrollmentRepo, eventRepo, activityRepo, logr)
	weightIndicator := service.NewWeightIndicator(gradeRepo, logr)

	registry := analytics.NewRegistry()
	if err := registry.RegisterTarget(analytics.ModelLateSubmission, targetService); err != nil {
		logr.Sugar().Fatalw("failed to register target", "error", err)
	}
	registry.RegisterIndicator(analytics.ModelLateSubmission, weightIndicator)

	validate := validator.New()
	datasetService := service.NewDatasetService(activityRepo, samplerService, registry, cacheService, metricsService, validate, logr)

	localStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportService := service.NewExportService(localStorage, signer, logr, export.NewCSVExporter(), export.NewPDFExporter())

	authService := service.NewAuthService(service.AuthConfig{
		Secret:     cfg.Auth.Secret,
		ServiceKey: cfg.Auth.ServiceKey,
		TokenTTL:   cfg.Auth.TokenTTL,
	}, logr)

	authHandler := handler.NewAuthHandler(authService)
	datasetHandler := handler.NewDatasetHandler(datasetService, exportService)
	metricsHandler := handler.NewMetricsHandler(metricsService, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/downloads/:token", datasetHandler.Download)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/token", authHandler.Token)

	protected := api.Group("")
	protected.Use(middleware.JWT(authService))
	protected.GET("/datasets/late-submission", datasetHandler.Build)
	protected.POST("/datasets/late-submission/exports", datasetHandler.Export)
	protected.GET("/activities/:id/eligibility", datasetHandler.Eligibility)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
