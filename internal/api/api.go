// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/api/handlers"
	"github.com/andresuchdata/furnicast/backend-go/internal/api/middleware"
	"github.com/andresuchdata/furnicast/backend-go/internal/drive"
	"github.com/andresuchdata/furnicast/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/mux"
)

type Services struct {
	ForecastService *service.ForecastService
	LedgerService   *service.LedgerService
	// DriveFolderID is the default folder for Drive ledger imports.
	DriveFolderID string
	// DriveHandler serves read-only Drive browsing when Drive is configured.
	DriveHandler *drive.Handler
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.ForecastService != nil {
			forecastHandler := handlers.NewForecastHandler(services.ForecastService)
			forecastGroup := apiGroup.Group("/forecasts")
			{
				forecastGroup.GET("", forecastHandler.GetItems)
				forecastGroup.GET("/summary", forecastHandler.GetSummary)
				forecastGroup.GET("/export", forecastHandler.Export)
				forecastGroup.GET("/materials/:id", forecastHandler.GetMaterial)
				forecastGroup.GET("/materials/:id/history", forecastHandler.GetHistory)
				forecastGroup.POST("/run", forecastHandler.Run)
				forecastGroup.GET("/runs/latest", forecastHandler.LatestRun)
			}
		}

		if services.LedgerService != nil {
			ledgerHandler := handlers.NewLedgerHandler(services.LedgerService)
			ledgerGroup := apiGroup.Group("/ledgers")
			{
				ledgerGroup.POST("/upload", ledgerHandler.Upload)
				ledgerGroup.POST("/drive", ledgerHandler.ImportDrive(services.DriveFolderID))
			}
		}

		if services.DriveHandler != nil {
			driveRouter := mux.NewRouter()
			services.DriveHandler.RegisterRoutes(driveRouter)
			apiGroup.Any("/drive/*path", gin.WrapH(driveRouter))
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
