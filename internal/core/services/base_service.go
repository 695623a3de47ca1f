package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/middleware"
	"github.com/google/uuid"
)

const (
	// systemActor is recorded in audit fields for writes without an authenticated user.
	systemActor = "system"

	// maxLedgerAttempts bounds re-reading the log after a ledger write lost a
	// version race to another process.
	maxLedgerAttempts = 3
)

// BaseService provides common functionality for all services
type BaseService struct {
	clock    func() time.Time
	location *time.Location
	events   portssvc.EventRecorder
	ledgerMu *sync.Mutex
}

// Option configures the shared parts of a service.
type Option func(*BaseService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *BaseService) {
		s.clock = clock
	}
}

// WithLocation sets the studio's local time zone used to decide "today".
func WithLocation(loc *time.Location) Option {
	return func(s *BaseService) {
		s.location = loc
	}
}

// WithEventRecorder adds a sink for business events.
func WithEventRecorder(rec portssvc.EventRecorder) Option {
	return func(s *BaseService) {
		s.events = rec
	}
}

// WithLedgerLock makes services share one writer lock for changes that
// refresh cached projections.
func WithLedgerLock(mu *sync.Mutex) Option {
	return func(s *BaseService) {
		s.ledgerMu = mu
	}
}

func newBaseService(opts []Option) BaseService {
	var base BaseService
	for _, opt := range opts {
		opt(&base)
	}
	if base.events == nil {
		base.events = noopRecorder{}
	}
	if base.ledgerMu == nil {
		base.ledgerMu = new(sync.Mutex)
	}
	return base
}

// writeLedger runs a read, plan and apply cycle that refreshes cached
// projections. Writers in this process take turns. Every projection is
// staged against the version it was read at, so a write from another
// process surfaces as ErrConflict and the cycle runs again on fresh state.
func (s *BaseService) writeLedger(ctx context.Context, op string, attempt func() error) error {
	s.ledgerMu.Lock()
	defer s.ledgerMu.Unlock()

	for n := 1; ; n++ {
		err := attempt()
		if err == nil || !errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		if n >= maxLedgerAttempts {
			return fmt.Errorf("too much contention on %s: %w", op, err)
		}
		s.GetLogger(ctx).Warn("Ledger write raced with another write, retrying",
			slog.String("operation", op), slog.Int("attempt", n))
	}
}

// withLedger is writeLedger for attempts that return a value.
func withLedger[T any](ctx context.Context, s *BaseService, op string, attempt func() (T, error)) (T, error) {
	var out T
	err := s.writeLedger(ctx, op, func() error {
		var err error
		out, err = attempt()
		return err
	})
	return out, err
}

// Now returns the current time in the studio's time zone.
func (s *BaseService) Now() time.Time {
	now := time.Now()
	if s.clock != nil {
		now = s.clock()
	}
	if s.location != nil {
		now = now.In(s.location)
	}
	return now
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

func actorOrSystem(userID string) string {
	if userID == "" {
		return systemActor
	}
	return userID
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// dateOr parses an optional yyyy-mm-dd date, falling back to today.
func dateOr(value string, now time.Time) (time.Time, error) {
	d, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, err
	}
	if d.IsZero() {
		return domain.Today(now), nil
	}
	return d, nil
}

type noopRecorder struct{}

func (noopRecorder) ConversionCompleted(string)                 {}
func (noopRecorder) TransactionRecorded(domain.TransactionType) {}
