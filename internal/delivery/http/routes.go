package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/torimo/backend/config"
)

// maxBodyBytes bounds request bodies; meal descriptions are short
const maxBodyBytes = 64 << 10

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(BodySizeLimit(maxBodyBytes))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		nutrition := v1.Group("/nutrition")
		{
			nutrition.POST("/analyze", handler.AnalyzeNutrition)
		}

		foods := v1.Group("/foods")
		{
			foods.GET("/suggest", handler.SuggestFoods)
			foods.GET("/search", handler.SearchFoods)
		}
	}

	return router
}
