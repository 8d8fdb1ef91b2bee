package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/campusfind/lostfound/internal/services"
	"github.com/campusfind/lostfound/pkg/logger"
)

const (
	defaultSchedule              = "@daily"
	defaultNotificationRetention = 30 * 24 * time.Hour
	defaultActivityLogRetention  = 90 * 24 * time.Hour
)

// Cleaner prunes read notifications and stale activity log entries on a
// schedule so the feed tables stay bounded.
type Cleaner struct {
	notifications *services.NotificationService
	activity      *services.ActivityService
	cron          *cron.Cron
	log           *zap.Logger

	schedule              string
	notificationRetention time.Duration
	activityLogRetention  time.Duration
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithSchedule overrides the cron specification for the cleanup job.
func WithSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.schedule = spec
		}
	}
}

// WithNotificationRetention adjusts how long read notifications are kept.
func WithNotificationRetention(d time.Duration) Option {
	return func(cleaner *Cleaner) {
		if d > 0 {
			cleaner.notificationRetention = d
		}
	}
}

// WithActivityLogRetention adjusts how long audit entries are kept.
func WithActivityLogRetention(d time.Duration) Option {
	return func(cleaner *Cleaner) {
		if d > 0 {
			cleaner.activityLogRetention = d
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults. Nil services mean
// the corresponding cleanup is skipped.
func NewCleaner(notifications *services.NotificationService, activity *services.ActivityService, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		notifications:         notifications,
		activity:              activity,
		schedule:              defaultSchedule,
		notificationRetention: defaultNotificationRetention,
		activityLogRetention:  defaultActivityLogRetention,
		log:                   logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers the cleanup job with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.notifications == nil && c.activity == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.schedule, func() {
		if err := c.RunOnce(context.Background()); err != nil {
			c.log.Warn("scheduled cleanup failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all configured cleanup routines sequentially.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if c.notifications != nil {
		removed, err := c.notifications.CleanupReadOlderThan(ctx, c.notificationRetention)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else if removed > 0 {
			c.log.Info("pruned read notifications", zap.Int64("removed", removed))
		}
	}

	if c.activity != nil {
		removed, err := c.activity.CleanupOlderThan(ctx, c.activityLogRetention)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else if removed > 0 {
			c.log.Info("pruned activity logs", zap.Int64("removed", removed))
		}
	}

	return errs
}
