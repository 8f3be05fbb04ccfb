// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/api"
	"github.com/andresuchdata/furnicast/backend-go/internal/cache"
	"github.com/andresuchdata/furnicast/backend-go/internal/config"
	"github.com/andresuchdata/furnicast/backend-go/internal/drive"
	"github.com/andresuchdata/furnicast/backend-go/internal/pipeline"
	"github.com/andresuchdata/furnicast/backend-go/internal/pipeline/forecast"
	"github.com/andresuchdata/furnicast/backend-go/internal/repository"
	"github.com/andresuchdata/furnicast/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/furnicast/backend-go/internal/service"
	"github.com/andresuchdata/furnicast/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetService("furnicast-server")
	logger.SetLevel(cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
		logger.UseJSON()
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	summaryCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Redis unavailable, serving summaries without cache")
		summaryCache = cache.NewNoopForecastCache()
	}

	// Initialize services
	ledgers := postgres.NewLedgerRepository(db)
	forecasts := postgres.NewForecastRepository(db)
	forecastPipeline := forecast.NewForecastPipeline(forecast.NewConfig(cfg.Forecast), forecast.Repositories{
		Outputs:      ledgers,
		Transactions: ledgers,
		BOMs:         ledgers,
		Materials:    ledgers,
		Forecasts:    forecasts,
	})
	forecastService := service.NewForecastService(forecasts, forecastPipeline, pipeline.NewRepository(db.DB.DB), summaryCache)

	var (
		fetcher      *drive.Fetcher
		driveHandler *drive.Handler
	)
	if cfg.Drive.CredentialsJSON != "" {
		driveService, err := drive.NewService(context.Background(), cfg.Drive.CredentialsJSON)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Google Drive disabled")
		} else {
			fetcher = drive.NewFetcher(driveService)
			driveHandler = drive.NewHandler(driveService, cfg.Drive.FolderID)
		}
	}
	ledgerService := service.NewLedgerService(repository.NewIngestRepository(db.DB), fetcher, cfg.Drive.DownloadDir)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		ForecastService: forecastService,
		LedgerService:   ledgerService,
		DriveFolderID:   cfg.Drive.FolderID,
		DriveHandler:    driveHandler,
	}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	if cfg.Forecast.Schedule != "" {
		scheduler, err := forecastService.ScheduleRuns(context.Background(), cfg.Forecast.Schedule)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to schedule forecast runs")
		}
		defer scheduler.Stop()
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
