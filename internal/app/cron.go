package app

import (
	"context"
	"time"

	"github.com/folio-space/core/internal/middleware"
	"github.com/folio-space/core/internal/modules/chat"
	"github.com/folio-space/core/internal/modules/cv"
	pkgcron "github.com/folio-space/core/internal/pkg/cron"
	pkgredis "github.com/folio-space/core/internal/pkg/redis"
	"github.com/folio-space/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

const chatLogRetention = 90 * 24 * time.Hour

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, logger *zap.Logger, rc *pkgredis.Client, cvStore *cv.Store, chatSvc *chat.Service, taskSvc *taskqueue.Service) {
	cronLogger := logger.Named("cron")

	sched.Register(pkgcron.Job{
		Name:        "refresh_cv",
		Description: "reload the CV document from disk",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			if err := cvStore.Load(); err != nil {
				cronLogger.Warn("cv refresh failed", zap.Error(err))
				return err
			}
			// Cached portfolio/CV responses are stale after a reload.
			if err := middleware.PurgeHTTPCache(ctx, rc.Raw()); err != nil {
				cronLogger.Warn("http cache purge failed", zap.Error(err))
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "purge_chat_log",
		Description: "delete chat messages past retention",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			deleted, err := chatSvc.PurgeMessagesBefore(time.Now().Add(-chatLogRetention))
			if err != nil {
				cronLogger.Warn("chat log purge failed", zap.Error(err))
				return err
			}
			if deleted > 0 {
				cronLogger.Info("chat log purged", zap.Int64("deleted", deleted))
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "sweep_tasks",
		Description: "drop finished generation tasks older than a day",
		Interval:    6 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().Add(-24 * time.Hour).UnixMilli()
			return taskSvc.DeleteCompleted(ctx, cutoff)
		},
	})
}
