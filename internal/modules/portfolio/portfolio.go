package portfolio

import (
	"bytes"
	"strings"

	appcfg "github.com/folio-space/core/internal/config"
	"github.com/folio-space/core/internal/modules/cv"
	"github.com/folio-space/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

// RenderMarkdown converts a CV details block to HTML.
func RenderMarkdown(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(text), &buf); err != nil {
		return ""
	}
	return buf.String()
}

type renderedSection struct {
	ID        string   `json:"id"`
	Keywords  []string `json:"keywords"`
	Summary   string   `json:"summary"`
	DetailsMD string   `json:"details_md"`
	HTML      string   `json:"html"`
}

type Handler struct {
	cfg   *appcfg.AppConfig
	store *cv.Store
}

func NewHandler(cfg *appcfg.AppConfig, store *cv.Store) *Handler {
	return &Handler{cfg: cfg, store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/portfolio")
	g.GET("/profile", h.getProfile)
	g.GET("/sections/:category", h.getCategory)
}

// GET /portfolio/profile — site identity plus CV metadata and personality.
func (h *Handler) getProfile(c *gin.Context) {
	out := gin.H{
		"title":       h.cfg.Site.Title,
		"owner_name":  h.cfg.Site.OwnerName,
		"web_url":     h.cfg.Site.WebURL,
		"description": h.cfg.Site.Description,
	}
	if doc := h.store.Document(); doc != nil {
		out["metadata"] = doc.Metadata
		out["personality"] = doc.Personality
	}
	response.OK(c, out)
}

// GET /portfolio/sections/:category — sections with details rendered to HTML.
func (h *Handler) getCategory(c *gin.Context) {
	sections, ok := h.store.Category(c.Param("category"))
	if !ok {
		response.NotFoundMsg(c, "category not found")
		return
	}

	out := make(map[string]renderedSection, len(sections))
	for name, section := range sections {
		out[name] = renderedSection{
			ID:        section.ID,
			Keywords:  section.Keywords,
			Summary:   section.Responses["general"],
			DetailsMD: section.Details,
			HTML:      RenderMarkdown(section.Details),
		}
	}
	response.OK(c, out)
}
