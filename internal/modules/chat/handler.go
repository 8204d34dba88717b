package chat

import (
	"errors"
	"net/http"
	"strings"

	"github.com/folio-space/core/internal/models"
	"github.com/folio-space/core/internal/pkg/pagination"
	"github.com/folio-space/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/chat")

	g.POST("/session", h.startSession)
	g.GET("/session", h.getSession)
	g.DELETE("/session", authMW, h.stopSession)

	g.POST("/generate", h.generate)
	g.POST("/ask", h.ask)
	g.GET("/tasks/:id", h.getTask)

	g.GET("/ws", h.serveWS)

	g.GET("/messages", authMW, h.listMessages)
}

// POST /chat/session
func (h *Handler) startSession(c *gin.Context) {
	if err := h.svc.Manager.Start(c.Request.Context()); err != nil {
		response.UnprocessableEntity(c, ClassifyInitError(err))
		return
	}
	response.OK(c, gin.H{"state": h.svc.Manager.State()})
}

// GET /chat/session
func (h *Handler) getSession(c *gin.Context) {
	out := gin.H{"state": h.svc.Manager.State()}
	if msg := h.svc.Manager.LastError(); msg != "" {
		out["last_error"] = msg
	}
	response.OK(c, out)
}

// DELETE /chat/session  [auth]
func (h *Handler) stopSession(c *gin.Context) {
	h.svc.Manager.Stop()
	response.NoContent(c)
}

type askDTO struct {
	Query string `json:"query" binding:"required"`
	Style string `json:"style"`
	Lang  string `json:"lang"`
}

// POST /chat/generate — synchronous ask.
func (h *Handler) generate(c *gin.Context) {
	var dto askDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(dto.Query) == "" {
		response.BadRequest(c, "query must not be empty")
		return
	}

	result, err := h.svc.Ask(c.Request.Context(), dto.Query, dto.Style, dto.Lang)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if result.Rejected {
		// A declined answer is a policy outcome, not a server fault.
		response.OK(c, gin.H{"answer": nil, "rejected": true, "message": result.Message})
		return
	}
	response.OK(c, result)
}

// POST /chat/ask — asynchronous ask via the task queue.
func (h *Handler) ask(c *gin.Context) {
	var dto askDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(dto.Query) == "" {
		response.BadRequest(c, "query must not be empty")
		return
	}

	task, err := h.svc.EnqueueAsk(c.Request.Context(), dto.Query, dto.Style, dto.Lang)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"task_id": task.ID, "status": task.Status})
}

// GET /chat/tasks/:id
func (h *Handler) getTask(c *gin.Context) {
	task, err := h.svc.taskSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil || task == nil {
		response.NotFoundMsg(c, "task not found")
		return
	}
	response.OK(c, task)
}

// GET /chat/messages  [auth]
func (h *Handler) listMessages(c *gin.Context) {
	q := pagination.FromContext(c)

	tx := h.svc.db.Model(&models.ChatMessageModel{}).Order("created_at DESC")
	if rejected := c.Query("rejected"); rejected != "" {
		tx = tx.Where("rejected = ?", rejected == "true")
	}

	var items []models.ChatMessageModel
	pag, err := pagination.Paginate(tx, q, &items)
	if err != nil {
		response.InternalError(c, errors.New("list chat messages failed"))
		return
	}
	response.Paged(c, items, pag)
}
