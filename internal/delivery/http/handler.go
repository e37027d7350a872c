package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/torimo/backend/internal/domain"
	"github.com/torimo/backend/internal/usecase"
)

const serviceName = "torimo-nutrition"

// MealAnalyzer analyzes a meal description; implemented by usecase.MealService
type MealAnalyzer interface {
	Analyze(ctx context.Context, req *domain.AnalyzeRequest) (*domain.AnalyzeResult, error)
}

// FoodFinder looks foods up by partial name; implemented by usecase.NutritionService
type FoodFinder interface {
	Autocomplete(query string, limit int) []string
	Search(query string, limit int) []domain.FoodSearchResult
}

// maxListLimit caps the limit query parameter of the food endpoints
const maxListLimit = 100

// DatasetSource exposes the loaded dataset for health reporting
type DatasetSource interface {
	Dataset() *domain.Dataset
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	meals    MealAnalyzer
	foods    FoodFinder
	datasets DatasetSource
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil meals or foods makes the
// matching endpoints answer 503.
func NewHandler(meals MealAnalyzer, foods FoodFinder, datasets DatasetSource, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		meals:    meals,
		foods:    foods,
		datasets: datasets,
		logger:   logger.Named("http"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	foods := 0
	if h.datasets != nil {
		foods = h.datasets.Dataset().Len()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": "1.0.0",
		"foods":   foods,
	})
}

// AnalyzeNutrition handles POST /api/v1/nutrition/analyze
func (h *Handler) AnalyzeNutrition(c *gin.Context) {
	if h.meals == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "nutrition analysis is not configured"})
		return
	}

	var req domain.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.meals.Analyze(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text or items is required"})
			return
		}
		h.logger.Error("analyze failed", zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SuggestFoods handles GET /api/v1/foods/suggest?q=&limit=
func (h *Handler) SuggestFoods(c *gin.Context) {
	if h.foods == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "food suggestions are not configured"})
		return
	}

	q, limit, ok := listParams(c, usecase.DefaultAutocompleteLimit)
	if !ok {
		return
	}

	suggestions := h.foods.Autocomplete(q, limit)
	if suggestions == nil {
		suggestions = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"query":       q,
		"suggestions": suggestions,
	})
}

// SearchFoods handles GET /api/v1/foods/search?q=&limit=
func (h *Handler) SearchFoods(c *gin.Context) {
	if h.foods == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "food search is not configured"})
		return
	}

	q, limit, ok := listParams(c, usecase.DefaultSearchLimit)
	if !ok {
		return
	}

	results := h.foods.Search(q, limit)
	if results == nil {
		results = []domain.FoodSearchResult{}
	}
	c.JSON(http.StatusOK, gin.H{
		"query":   q,
		"results": results,
	})
}

// listParams reads the q and limit query parameters, answering 400 itself
// when either is unusable.
func listParams(c *gin.Context, defaultLimit int) (string, int, bool) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return "", 0, false
	}

	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return "", 0, false
		}
		limit = min(n, maxListLimit)
	}
	return q, limit, true
}
