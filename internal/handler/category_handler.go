package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todoapi/internal/cache"
	"todoapi/internal/metrics"
	"todoapi/internal/model"
	"todoapi/internal/repository"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryRepo repository.CategoryRepositoryInterface
	cache        cache.CategoryCache
	logger       *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler. categoryCache may be nil.
func NewCategoryHandler(
	categoryRepo repository.CategoryRepositoryInterface,
	categoryCache cache.CategoryCache,
	logger *zap.Logger,
) *CategoryHandler {
	return &CategoryHandler{
		categoryRepo: categoryRepo,
		cache:        categoryCache,
		logger:       logger,
	}
}

// CategoryResponse is the public shape of a category
type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// GetAll returns every category
//
// @Summary  List categories
// @Tags     Categories
// @Produce  json
// @Success  200  {array}   CategoryResponse
// @Failure  500  {object}  map[string]string
// @Router   /api/categories [get]
func (h *CategoryHandler) GetAll(c *gin.Context) {
	categories, err := h.load(c)
	if err != nil {
		h.logger.Error("GetAll categories: failed to fetch categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = CategoryResponse{ID: category.ID, Name: category.Name}
	}
	c.JSON(http.StatusOK, response)
}

// load reads through the cache when one is configured. Cache failures fall
// back to the database and are only logged.
func (h *CategoryHandler) load(c *gin.Context) ([]model.Category, error) {
	ctx := c.Request.Context()
	if h.cache == nil {
		return h.categoryRepo.List(ctx)
	}

	categories, err := h.cache.Get(ctx)
	switch {
	case err == nil:
		metrics.IncrementCategoryCache("hit")
		return categories, nil
	case errors.Is(err, cache.ErrMiss):
		metrics.IncrementCategoryCache("miss")
	default:
		metrics.IncrementCategoryCache("error")
		h.logger.Warn("GetAll categories: cache read failed", zap.Error(err))
	}

	categories, err = h.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.cache.Set(ctx, categories); err != nil {
		h.logger.Warn("GetAll categories: cache write failed", zap.Error(err))
	}
	return categories, nil
}
