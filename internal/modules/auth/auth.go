package auth

import (
	"errors"
	"time"

	appcfg "github.com/folio-space/core/internal/config"
	jwtpkg "github.com/folio-space/core/internal/pkg/jwt"
	"github.com/folio-space/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 7 * 24 * time.Hour

const adminSubject = "admin"

type Service struct {
	cfg *appcfg.AppConfig
}

func NewService(cfg *appcfg.AppConfig) *Service { return &Service{cfg: cfg} }

// Login checks the admin password against the configured bcrypt hash and
// issues a JWT on success.
func (s *Service) Login(password string) (string, error) {
	hash := s.cfg.AdminPassword.BcryptHash
	if hash == "" {
		return "", errors.New("admin login is not configured")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}
	return jwtpkg.Sign(adminSubject, tokenTTL)
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	g.POST("/login", h.login)
}

type loginDTO struct {
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var dto loginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.svc.Login(dto.Password)
	if err != nil {
		response.Unauthorized(c)
		return
	}
	response.OK(c, loginResponse{Token: token})
}
