package scan

import (
	"errors"
	"net/http"
	"strconv"

	"menuscan/internal/menu"
	"menuscan/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// GET /scans
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	limit := DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxListLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	scans, err := h.service.List(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list scans"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scans": scans})
}

// --------------------------------------------------
// GET /scans/:id
// --------------------------------------------------
func (h *Handler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// --------------------------------------------------
// DELETE /scans/:id
// --------------------------------------------------
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Scan deleted"})
}

// --------------------------------------------------
// PUT /scans/:id/items/:itemId
// --------------------------------------------------
func (h *Handler) UpdateItem(c *gin.Context) {
	var item menu.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	item.ID = c.Param("itemId")

	updated, err := h.service.UpdateItem(c.Request.Context(), middleware.UserID(c), c.Param("id"), item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu_item": updated})
}

// --------------------------------------------------
// DELETE /scans/:id/items/:itemId
// --------------------------------------------------
func (h *Handler) DeleteItem(c *gin.Context) {
	err := h.service.DeleteItem(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "scan not found"})
	case errors.Is(err, ErrItemMissing):
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
	case errors.Is(err, ErrInvalidItem):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
