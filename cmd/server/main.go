package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/loisapp/lois/internal/anthropic"
	"github.com/loisapp/lois/internal/api/handlers"
	"github.com/loisapp/lois/internal/config"
	"github.com/loisapp/lois/internal/database"
	"github.com/loisapp/lois/internal/health"
	"github.com/loisapp/lois/internal/intent"
	"github.com/loisapp/lois/internal/middleware"
	"github.com/loisapp/lois/internal/repository"
	"github.com/loisapp/lois/internal/services"
	"github.com/loisapp/lois/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	utils.InitLogger()
	logger := utils.GetLogger()
	logger.Info("Starting LOIS backend...")

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if err := cfg.ValidateAnthropic(); err != nil {
		logger.WithError(err).Fatal("Anthropic configuration validation failed")
	}
	if err := cfg.ValidateClassifier(); err != nil {
		logger.WithError(err).Fatal("Classifier configuration validation failed")
	}

	dbManager, err := database.NewManager(&database.Config{
		DatabaseURL: cfg.Database.URL,
		RedisURL:    cfg.Redis.URL,
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database manager")
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		logger.WithError(err).Fatal("Database migration failed")
	}

	repoManager := repository.NewRepositoryManager(dbManager.DB)
	cache := database.NewCache(dbManager.Redis, logger)

	client := anthropic.NewClient(cfg.Anthropic.BaseURL, cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens, logger)

	var classifier intent.Classifier
	if cfg.Classifier.Mode == "llm" {
		classifier = intent.NewLLMClassifier(client, logger)
	} else {
		classifier = intent.NewLocalClassifier(logger)
	}

	generator := services.NewLLMSQLGenerator(client, logger)
	narrator := services.NewLLMNarrator(client, logger)
	router := services.NewRouter(classifier, generator, narrator, services.RouterRepos{
		Project:  repoManager.Project,
		Contact:  repoManager.Contact,
		Document: repoManager.Document,
		Executor: repoManager.Executor,
	}, logger)

	checker := health.NewChecker(dbManager, repoManager.SystemHealth, logger, cfg.Anthropic.BaseURL)

	queryHandler := handlers.NewQueryHandler(router, classifier, generator, narrator, repoManager.Executor, repoManager.QueryLog, logger)
	healthHandler := handlers.NewHealthHandler(checker, logger)
	statsHandler := handlers.NewStatisticsHandler(repoManager.Project, cache, logger)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.SecurityHeaders())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.NewRateLimiter(60).RateLimit())

	engine.GET("/health", healthHandler.Health)
	engine.GET("/health/detailed", healthHandler.DetailedHealth)

	api := engine.Group("/api")
	{
		api.POST("/ask", queryHandler.Ask)
		api.POST("/classify", queryHandler.Classify)
		api.POST("/generate-query", queryHandler.GenerateQuery)
		api.POST("/execute-query", queryHandler.ExecuteQuery)
		api.POST("/narrate", queryHandler.Narrate)
		api.GET("/history", queryHandler.History)
		api.GET("/statistics", statsHandler.Statistics)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go checker.RunPeriodic(ctx, 30*time.Second)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: engine,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}

	logger.Info("Server stopped")
}
