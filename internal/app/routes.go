package app

import (
	"time"

	"github.com/folio-space/core/internal/middleware"
	"github.com/folio-space/core/internal/modules/auth"
	"github.com/folio-space/core/internal/modules/chat"
	"github.com/folio-space/core/internal/modules/cv"
	"github.com/folio-space/core/internal/modules/i18n"
	"github.com/folio-space/core/internal/modules/portfolio"
	pkgredis "github.com/folio-space/core/internal/pkg/redis"
	"github.com/folio-space/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

var processStart = time.Now()

// cacheSkipPaths lists endpoints whose responses must never be served stale:
// session state, generation and task polling.
var cacheSkipPaths = []string{"/api/v1/chat*"}

func (a *App) registerRoutes(rc *pkgredis.Client) {
	api := a.router.Group("/api/v1")
	api.Use(middleware.OptionalAuth())
	api.Use(middleware.RateLimit(rc.Raw()))
	api.Use(middleware.Idempotence(rc.Raw()))
	api.Use(middleware.HTTPCache(rc.Raw(), cacheSkipPaths))

	api.GET("/ping", func(c *gin.Context) {
		response.OK(c, gin.H{
			"pong":   true,
			"uptime": time.Since(processStart).Truncate(time.Second).String(),
		})
	})

	authMW := middleware.Auth()

	auth.NewHandler(auth.NewService(a.cfg)).RegisterRoutes(api)
	i18n.NewHandler(a.i18nSvc).RegisterRoutes(api)
	cv.NewHandler(a.cvStore).RegisterRoutes(api, authMW)
	chat.NewHandler(a.chatSvc).RegisterRoutes(api, authMW)
	portfolio.NewHandler(a.cfg, a.cvStore).RegisterRoutes(api)

	cron := api.Group("/cron", authMW)
	cron.GET("", func(c *gin.Context) {
		response.OK(c, a.sched.List())
	})
	cron.POST("/:name/run", func(c *gin.Context) {
		if err := a.sched.Run(c.Request.Context(), c.Param("name")); err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.OK(c, gin.H{"triggered": true})
	})

	a.router.NoRoute(func(c *gin.Context) { response.NotFound(c) })
	a.router.NoMethod(func(c *gin.Context) { response.MethodNotAllowed(c) })
}
