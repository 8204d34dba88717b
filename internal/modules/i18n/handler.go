package i18n

import (
	"github.com/folio-space/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/i18n")
	g.GET("/:lang", h.getTable)
	g.GET("/:lang/key", h.getKey)
}

// GET /i18n/:lang — full table for client-side apply.
func (h *Handler) getTable(c *gin.Context) {
	lang := c.Param("lang")
	table, err := h.svc.Load(c.Request.Context(), lang)
	if err != nil {
		response.NotFoundMsg(c, "locale not found")
		return
	}
	response.OK(c, gin.H{"lang": lang, "table": table})
}

// GET /i18n/:lang/key?path=a.b.c — resolve a single dotted key.
func (h *Handler) getKey(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		response.BadRequest(c, "path query parameter is required")
		return
	}

	table, err := h.svc.Load(c.Request.Context(), c.Param("lang"))
	if err != nil {
		response.NotFoundMsg(c, "locale not found")
		return
	}
	text, ok := LookupIn(table, path)
	if !ok {
		response.NotFoundMsg(c, "translation key not found")
		return
	}
	response.OK(c, gin.H{"path": path, "text": text})
}
