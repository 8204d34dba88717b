package cv

import (
	"github.com/folio-space/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct{ store *Store }

func NewHandler(store *Store) *Handler { return &Handler{store: store} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/cv")
	g.GET("", h.getOverview)
	g.GET("/sections/:category", h.getCategory)
	g.POST("/validate", authMW, h.revalidate)
}

// GET /cv — metadata plus the latest validation summary.
func (h *Handler) getOverview(c *gin.Context) {
	doc := h.store.Document()
	if doc == nil {
		response.NotFoundMsg(c, "cv document not loaded")
		return
	}
	response.OK(c, gin.H{
		"metadata":   doc.Metadata,
		"validation": h.store.Validation(),
	})
}

// GET /cv/sections/:category
func (h *Handler) getCategory(c *gin.Context) {
	sections, ok := h.store.Category(c.Param("category"))
	if !ok {
		response.NotFoundMsg(c, "category not found")
		return
	}
	response.OK(c, sections)
}

// POST /cv/validate  [auth] — re-read from disk and re-validate.
func (h *Handler) revalidate(c *gin.Context) {
	// A failed load keeps the previous document; the result reflects the attempt.
	_ = h.store.Load()
	response.OK(c, h.store.Validation())
}
