package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/SscSPs/studio_ops_app/internal/core/services"
	"github.com/SscSPs/studio_ops_app/internal/platform/config"
	"github.com/SscSPs/studio_ops_app/internal/platform/jobs"
	"github.com/SscSPs/studio_ops_app/internal/platform/metrics"
	"github.com/SscSPs/studio_ops_app/internal/repositories/memory"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig() *config.Config {
	return &config.Config{
		PromoExpirySchedule: "5 0 * * *",
		ReconcileSchedule:   "30 2 * * *",
		Location:            time.UTC,
	}
}

func findJob(t *testing.T, all []jobs.Job, name string) jobs.Job {
	t.Helper()
	for _, j := range all {
		if j.Name == name {
			return j
		}
	}
	t.Fatalf("job %s not registered", name)
	return jobs.Job{}
}

func TestJobs_EmptyScheduleDisablesJob(t *testing.T) {
	cfg := testConfig()
	cfg.ReconcileSchedule = ""
	repos, _ := memory.NewRepositoryProvider()

	all := jobs.Jobs(cfg, services.NewServiceContainer(cfg, repos))
	require.Len(t, all, 1)
	assert.Equal(t, jobs.PromoExpiryJob, all[0].Name)
}

func TestExecute_RecordsOutcome(t *testing.T) {
	success := metrics.JobRunsTotal.WithLabelValues("test_job", "success")
	failure := metrics.JobRunsTotal.WithLabelValues("test_job", "failure")
	beforeOK, beforeFail := testutil.ToFloat64(success), testutil.ToFloat64(failure)

	ok := jobs.Job{Name: "test_job", Timeout: time.Second, Run: func(ctx context.Context) error { return nil }}
	require.NoError(t, jobs.Execute(discard, ok))

	boom := errors.New("boom")
	bad := jobs.Job{Name: "test_job", Timeout: time.Second, Run: func(ctx context.Context) error { return boom }}
	assert.ErrorIs(t, jobs.Execute(discard, bad), boom)

	assert.Equal(t, beforeOK+1, testutil.ToFloat64(success))
	assert.Equal(t, beforeFail+1, testutil.ToFloat64(failure))
}

func TestExecute_AppliesTimeout(t *testing.T) {
	job := jobs.Job{Name: "slow_job", Timeout: 10 * time.Millisecond, Run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	assert.ErrorIs(t, jobs.Execute(discard, job), context.DeadlineExceeded)
}

func TestNewScheduler(t *testing.T) {
	repos, _ := memory.NewRepositoryProvider()
	cfg := testConfig()

	c, err := jobs.NewScheduler(cfg, services.NewServiceContainer(cfg, repos), discard)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)

	cfg.PromoExpirySchedule = "every day at noon"
	_, err = jobs.NewScheduler(cfg, services.NewServiceContainer(cfg, repos), discard)
	assert.Error(t, err)
}

func TestPromoExpiryJob(t *testing.T) {
	ctx := context.Background()
	repos, _ := memory.NewRepositoryProvider()
	expired := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repos.PromoCodeRepo.Insert(ctx, &domain.PromoCode{
		ID: "P1", Code: "LAMA", DiscountType: domain.DiscountFixed, DiscountValue: decimal.NewFromInt(100_000),
		IsActive: true, ExpiryDate: &expired,
	}))
	cfg := testConfig()

	job := findJob(t, jobs.Jobs(cfg, services.NewServiceContainer(cfg, repos)), jobs.PromoExpiryJob)
	require.NoError(t, jobs.Execute(discard, job))

	promo, err := repos.PromoCodeRepo.Get(ctx, "P1")
	require.NoError(t, err)
	assert.False(t, promo.IsActive)
}

func TestReconcileJob_NothingStale(t *testing.T) {
	repos, _ := memory.NewRepositoryProvider()
	cfg := testConfig()

	job := findJob(t, jobs.Jobs(cfg, services.NewServiceContainer(cfg, repos)), jobs.ReconcileJob)
	assert.NoError(t, jobs.Execute(discard, job))
}
