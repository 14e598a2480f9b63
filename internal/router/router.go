package router

import (
	"net/http"
	"time"

	"menuscan/internal/extraction"
	"menuscan/internal/middleware"
	"menuscan/internal/scan"
	"menuscan/internal/search"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Extraction  *extraction.Handler
	Search      *search.Handler
	Scans       *scan.Handler
	Tokens      middleware.TokenValidator
	CORSOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()

	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Health check route
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/")
	api.Use(middleware.Identity(d.Tokens))
	{
		// ───────────── EXTRACTION ─────────────
		api.POST("/classify", d.Extraction.Classify)
		api.POST("/analyze-menu", d.Extraction.AnalyzeMenu)

		// ───────────── SEARCH ─────────────
		api.POST("/search", d.Search.Search)
		api.GET("/search/filters", d.Search.Filters)
	}

	// ───────────── SCAN HISTORY ─────────────
	scans := api.Group("/scans")
	scans.Use(middleware.RequireUser())
	{
		scans.GET("", d.Scans.List)
		scans.GET("/:id", d.Scans.Get)
		scans.DELETE("/:id", d.Scans.Delete)
		scans.PUT("/:id/items/:itemId", d.Scans.UpdateItem)
		scans.DELETE("/:id/items/:itemId", d.Scans.DeleteItem)
	}

	return r
}
