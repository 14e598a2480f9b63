package search

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type searchRequest struct {
	SearchType string `json:"searchType"`

	// text search
	Query              string   `json:"query"`
	Fuzzy              bool     `json:"fuzzy"`
	Allergens          []string `json:"allergens"`
	DietaryPreferences []string `json:"dietaryPreferences"`
	Categories         []string `json:"categories"`
	RestaurantName     string   `json:"restaurantName"`
	ScanID             string   `json:"scanId"`

	// ingredient search
	Ingredients      []string `json:"ingredients"`
	MatchAll         bool     `json:"matchAll"`
	ExcludeAllergens []string `json:"excludeAllergens"`

	MaxPrice *float64 `json:"maxPrice"`
}

// --------------------------------------------------
// POST /search
// --------------------------------------------------
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()

	if req.SearchType == "ingredients" {
		results, err := h.service.SearchIngredients(ctx, IngredientQuery{
			Ingredients:      req.Ingredients,
			MatchAll:         req.MatchAll,
			ExcludeAllergens: req.ExcludeAllergens,
			MaxPrice:         req.MaxPrice,
		})
		if errors.Is(err, ErrNoIngredients) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ingredients array is required and must not be empty"})
			return
		}
		if err != nil {
			searchFailed(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
		return
	}

	results, err := h.service.Search(ctx, Query{
		Term:               req.Query,
		Fuzzy:              req.Fuzzy,
		Allergens:          req.Allergens,
		DietaryPreferences: req.DietaryPreferences,
		Categories:         req.Categories,
		MaxPrice:           req.MaxPrice,
		RestaurantName:     req.RestaurantName,
		ScanID:             req.ScanID,
	})
	if err != nil {
		searchFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// --------------------------------------------------
// GET /search/filters
// --------------------------------------------------
func (h *Handler) Filters(c *gin.Context) {
	opts, err := h.service.FilterOptions(c.Request.Context())
	if err != nil {
		h.service.log.Error("filter options failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load filter options"})
		return
	}
	c.JSON(http.StatusOK, opts)
}

func searchFailed(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Failed to search menu items",
		"details": err.Error(),
	})
}
