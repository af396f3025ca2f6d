package category

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"photogallery/internal/domain"
	"photogallery/internal/pkg/response"
	"photogallery/internal/storage"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /categories.
func (h *Handler) List(c *gin.Context) {
	categories, err := h.service.List()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list categories")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categories": categories})
}

// Create handles POST /categories.
func (h *Handler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}

	name, err := h.service.Create(req.Name)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidName) {
			response.Error(c, http.StatusBadRequest, "INVALID_NAME", "Category name is not a valid identifier")
			return
		}
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create category")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"category": name})
}

// Delete handles DELETE /categories/:category. Deleting an absent category
// succeeds; the outcome is the same either way.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("category")); err != nil {
		if errors.Is(err, storage.ErrInvalidName) {
			response.Error(c, http.StatusBadRequest, "INVALID_NAME", "Category name is not a valid identifier")
			return
		}
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete category")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListItems handles GET /categories/:category/items?tier=thumbnail.
// The tier defaults to thumbnail, matching what a gallery view renders.
func (h *Handler) ListItems(c *gin.Context) {
	tierParam := c.DefaultQuery("tier", string(domain.TierThumbnail))
	tier, err := domain.ParseTier(tierParam)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_TIER", "Tier must be one of: source, largest, medium, thumbnail")
		return
	}

	items, err := h.service.ListItems(c.Param("category"), tier)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidName) {
			response.Error(c, http.StatusBadRequest, "INVALID_NAME", "Category name is not a valid identifier")
			return
		}
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list items")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"tier":  tier,
		"items": items,
	})
}

// RegisterRoutes registers the category routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	categories := r.Group("/categories")
	{
		categories.GET("", h.List)
		categories.POST("", h.Create)
		categories.DELETE("/:category", h.Delete)
		categories.GET("/:category/items", h.ListItems)
	}
}
