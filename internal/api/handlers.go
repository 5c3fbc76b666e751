package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nutrition-advisor/internal/app"
	"nutrition-advisor/internal/logger"
	"nutrition-advisor/internal/meal"
	"nutrition-advisor/internal/profile"
	"nutrition-advisor/internal/storage"
)

const defaultHistoryLimit = 10

// Handler serves the /api routes.
type Handler struct {
	app *app.App
}

// NewHandler creates a Handler backed by the application service.
func NewHandler(a *app.App) *Handler {
	return &Handler{app: a}
}

type analysisRequest struct {
	UserProfile  *profile.UserProfile `json:"userProfile"`
	DateRange    *app.Window          `json:"dateRange"`
	RecentScores []int                `json:"recentScores"`
}

type scoreRequest struct {
	Meal        *meal.Record         `json:"meal"`
	UserProfile *profile.UserProfile `json:"userProfile"`
}

type estimateRequest struct {
	meal.EstimateRequest
	Save bool `json:"save"`
}

// Health reports liveness plus a runtime snapshot.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"llm":    h.app.HasLLM(),
		"system": h.app.SysHealth(c.Request.Context()),
	})
}

// resolveProfile picks the profile from the request body, falling back to the stored profile.
// It writes the error response itself and reports whether the handler may continue.
func (h *Handler) resolveProfile(c *gin.Context, fromBody *profile.UserProfile) (profile.UserProfile, bool) {
	if fromBody == nil {
		stored, err := h.app.LoadProfile(currentUser(c))
		if errors.Is(err, storage.ErrProfileNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User profile is required"})
			return profile.UserProfile{}, false
		}
		if err != nil {
			logger.Error("Failed to load profile", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
			return profile.UserProfile{}, false
		}
		return *stored, true
	}

	if err := fromBody.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return profile.UserProfile{}, false
	}
	return *fromBody, true
}

func window(r analysisRequest) app.Window {
	if r.DateRange == nil {
		return app.Window{}
	}
	return *r.DateRange
}

// AnalyzeNutrition compares recent meals with the profile's requirements.
func (h *Handler) AnalyzeNutrition(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	p, ok := h.resolveProfile(c, req.UserProfile)
	if !ok {
		return
	}

	report, err := h.app.AnalyzeNutrition(c.Request.Context(), p, window(req))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze nutrition"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// ScoreMeal scores a meal posted in the request body.
func (h *Handler) ScoreMeal(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Meal == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Meal data is required"})
		return
	}
	if err := req.Meal.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserProfile != nil {
		if err := req.UserProfile.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	score := h.app.ScoreMeal(c.Request.Context(), req.UserProfile, *req.Meal)
	c.JSON(http.StatusOK, gin.H{
		"score":     score,
		"meal":      req.Meal.DishName,
		"timestamp": time.Now().UTC(),
	})
}

// Recommendations builds meal recommendations and a daily plan.
func (h *Handler) Recommendations(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	p, ok := h.resolveProfile(c, req.UserProfile)
	if !ok {
		return
	}

	report, err := h.app.Recommend(c.Request.Context(), currentUser(c), p, window(req), req.RecentScores)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate recommendations"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// UploadCSV imports the multipart "file" field.
func (h *Handler) UploadCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	n, err := h.app.ImportCSV(c.Request.Context(), file)
	if err != nil {
		logger.Error("Upload error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process CSV"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "CSV uploaded successfully", "count": n})
}

// NutritionData lists catalog rows, optionally filtered by day and meal type.
func (h *Handler) NutritionData(c *gin.Context) {
	meals, err := h.app.ListMeals(c.Request.Context(), meal.Filter{
		Day:      c.Query("day"),
		MealType: c.Query("mealType"),
	})
	if err != nil {
		logger.Error("Database error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch nutrition data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": meals})
}

// LoadSampleData seeds an empty catalog.
func (h *Handler) LoadSampleData(c *gin.Context) {
	n, err := h.app.LoadSampleData(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sample data"})
		return
	}
	if n == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Sample data already loaded", "count": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sample data loaded successfully", "count": n})
}

// EstimateMeal estimates and scores a dish that is not in the catalog.
func (h *Handler) EstimateMeal(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DishName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dishName is required"})
		return
	}

	rec, err := h.app.EstimateMeal(c.Request.Context(), req.EstimateRequest, req.Save)
	if errors.Is(err, app.ErrLLMUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Dish estimation is not available"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to estimate meal"})
		return
	}

	var p *profile.UserProfile
	if stored, err := h.app.LoadProfile(currentUser(c)); err == nil {
		p = stored
	}
	c.JSON(http.StatusOK, gin.H{
		"meal":  rec,
		"score": h.app.ScoreMeal(c.Request.Context(), p, rec),
	})
}

// GetProfile returns the caller's stored profile.
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.app.LoadProfile(currentUser(c))
	if errors.Is(err, storage.ErrProfileNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// PutProfile validates and stores the caller's profile.
func (h *Handler) PutProfile(c *gin.Context) {
	var p profile.UserProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := p.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.app.SaveProfile(currentUser(c), p); err != nil {
		logger.Error("Failed to save profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProfile(c *gin.Context) {
	existed, err := h.app.DeleteProfile(currentUser(c))
	if err != nil {
		logger.Error("Failed to delete profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete profile"})
		return
	}
	if !existed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// History lists the caller's latest recommendation sets.
func (h *Handler) History(c *gin.Context) {
	limit := defaultHistoryLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	entries, err := h.app.RecentHistory(c.Request.Context(), currentUser(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}
