// Package jobs schedules the periodic maintenance work of the studio backend.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/platform/config"
	"github.com/SscSPs/studio_ops_app/internal/platform/metrics"
	"github.com/robfig/cron/v3"
)

const (
	PromoExpiryJob = "promo_expiry"
	ReconcileJob   = "reconcile"

	promoExpiryTimeout = 2 * time.Minute
	reconcileTimeout   = 10 * time.Minute

	systemUserID = "system"
)

// Job is one named unit of scheduled work.
type Job struct {
	Name    string
	Spec    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Jobs lists the maintenance jobs for cfg. A job with an empty schedule is left out.
func Jobs(cfg *config.Config, services *portssvc.ServiceContainer) []Job {
	all := []Job{
		{
			Name:    PromoExpiryJob,
			Spec:    cfg.PromoExpirySchedule,
			Timeout: promoExpiryTimeout,
			Run: func(ctx context.Context) error {
				n, err := services.Catalog.ExpirePromoCodes(ctx, time.Now())
				if err != nil {
					return err
				}
				slog.InfoContext(ctx, "Expired promo codes", slog.Int("count", n))
				return nil
			},
		},
		{
			Name:    ReconcileJob,
			Spec:    cfg.ReconcileSchedule,
			Timeout: reconcileTimeout,
			Run: func(ctx context.Context) error {
				n, err := services.Finance.Reconcile(ctx, systemUserID)
				if err != nil {
					return err
				}
				slog.InfoContext(ctx, "Reconciled cached balances", slog.Int("updated", n))
				return nil
			},
		},
	}

	out := make([]Job, 0, len(all))
	for _, j := range all {
		if j.Spec != "" {
			out = append(out, j)
		}
	}
	return out
}

// Execute runs job once under its timeout and records the outcome.
func Execute(logger *slog.Logger, job Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), job.Timeout)
	defer cancel()

	start := time.Now()
	logger.Info("Starting scheduled job", slog.String("job", job.Name))
	if err := job.Run(ctx); err != nil {
		metrics.JobRunsTotal.WithLabelValues(job.Name, "failure").Inc()
		logger.Error("Scheduled job failed", slog.String("job", job.Name), slog.String("error", err.Error()))
		return err
	}
	metrics.JobRunsTotal.WithLabelValues(job.Name, "success").Inc()
	logger.Info("Scheduled job finished", slog.String("job", job.Name), slog.Duration("duration", time.Since(start)))
	return nil
}

// NewScheduler registers every job on a cron scheduler in cfg's location.
// Overlapping runs of the same job are skipped. The caller starts and stops it.
func NewScheduler(cfg *config.Config, services *portssvc.ServiceContainer, logger *slog.Logger) (*cron.Cron, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	for _, job := range Jobs(cfg, services) {
		job := job
		if _, err := c.AddFunc(job.Spec, func() { _ = Execute(logger, job) }); err != nil {
			return nil, fmt.Errorf("failed to schedule %s job with spec %q: %w", job.Name, job.Spec, err)
		}
		logger.Info("Scheduled job", slog.String("job", job.Name), slog.String("spec", job.Spec))
	}
	return c, nil
}
