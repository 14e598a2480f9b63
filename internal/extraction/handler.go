package extraction

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"menuscan/internal/menu"
	"menuscan/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	pipeline       *Pipeline
	maxUploadBytes int64
}

func NewHandler(pipeline *Pipeline, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{pipeline: pipeline, maxUploadBytes: maxUploadBytes}
}

// --------------------------------------------------
// POST /classify (multipart image)
// --------------------------------------------------
func (h *Handler) Classify(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "File not present in body"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File not present in body"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil || len(image) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File not present in body"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(image)
	}
	if err := menu.ValidateImageType(contentType); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Uploaded file is not an image"})
		return
	}

	result := h.pipeline.ProcessImage(c.Request.Context(), ImageInput{
		UserID:      middleware.UserID(c),
		Image:       image,
		ContentType: contentType,
	})
	c.JSON(http.StatusOK, result)
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// --------------------------------------------------
// POST /analyze-menu (pasted text)
// --------------------------------------------------
func (h *Handler) AnalyzeMenu(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Menu text is required"})
		return
	}

	result := h.pipeline.ProcessText(c.Request.Context(), middleware.UserID(c), req.Text)
	c.JSON(http.StatusOK, gin.H{
		"analysis":  result,
		"allergens": menu.Allergens(result.MenuItems),
	})
}
