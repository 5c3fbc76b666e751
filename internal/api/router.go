// Package api exposes the advisor over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nutrition-advisor/internal/app"
	"nutrition-advisor/internal/logger"
)

// NewRouter registers the health check and the /api routes.
func NewRouter(a *app.App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := NewHandler(a)

	r.GET("/health", h.Health)

	api := r.Group("/api", AuthMiddleware(a.Config().JWTSecret))
	{
		api.POST("/analyze-nutrition", h.AnalyzeNutrition)
		api.POST("/score-meal", h.ScoreMeal)
		api.POST("/recommendations", h.Recommendations)
		api.POST("/upload-csv", h.UploadCSV)
		api.GET("/nutrition-data", h.NutritionData)
		api.POST("/load-sample-data", h.LoadSampleData)
		api.POST("/estimate-meal", h.EstimateMeal)
		api.GET("/profile", h.GetProfile)
		api.PUT("/profile", h.PutProfile)
		api.DELETE("/profile", h.DeleteProfile)
		api.GET("/history", h.History)
	}

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("Request failed", fields...)
			return
		}
		logger.Debug("Request served", fields...)
	}
}
