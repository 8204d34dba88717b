package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/folio-space/core/internal/config"
	"github.com/folio-space/core/internal/database"
	"github.com/folio-space/core/internal/middleware"
	"github.com/folio-space/core/internal/modules/chat"
	"github.com/folio-space/core/internal/modules/cv"
	"github.com/folio-space/core/internal/modules/i18n"
	pkgcron "github.com/folio-space/core/internal/pkg/cron"
	"github.com/folio-space/core/internal/pkg/fetch"
	pkgredis "github.com/folio-space/core/internal/pkg/redis"
	"github.com/folio-space/core/internal/pkg/taskqueue"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler

	chatSvc *chat.Service
	cvStore *cv.Store
	i18nSvc *i18n.Service
}

// New initializes the application: config → DB → Redis → services → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	applyRuntimeSettings(cfg, logger)

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisAddr())
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(buildCORSConfig(cfg)))

	fetcher := fetch.New()
	i18nSvc := i18n.NewService(logger, fetcher, cfg.LocalesDir(), cfg.I18N.RemoteBaseURL, cfg.I18N.DefaultLanguage)

	cvStore := cv.NewStore(logger, cfg.CVDocumentPath(), cfg.CVSchemaPath())
	if err := cvStore.Load(); err != nil {
		// The site can still serve i18n and auth; chat grounding degrades.
		logger.Warn("cv document unavailable at startup", zap.Error(err))
	}

	taskSvc := taskqueue.NewService(rc)
	chatSvc := chat.NewService(logger, cfg, db, cvStore, taskSvc, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	go chatSvc.Run(ctx)

	sched := pkgcron.New()
	registerCronJobs(sched, logger, rc, cvStore, chatSvc, taskSvc)
	go sched.Start(ctx)

	app := &App{
		cfg:     cfg,
		router:  router,
		db:      db,
		logger:  logger,
		cancel:  cancel,
		sched:   sched,
		chatSvc: chatSvc,
		cvStore: cvStore,
		i18nSvc: i18nSvc,
	}
	app.registerRoutes(rc)

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background goroutines.
func (a *App) Shutdown() { a.cancel() }
