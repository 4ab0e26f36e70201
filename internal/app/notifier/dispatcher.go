package notifier

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/collabmatch/collabmatch/internal/services"
	"github.com/collabmatch/collabmatch/pkg/logger"
)

const defaultSchedule = "@every 1m"

// Dispatcher periodically flushes the notification outbox.
type Dispatcher struct {
	outbox   *services.OutboxService
	cron     *cron.Cron
	schedule string
	log      *zap.Logger
}

// Option customises the Dispatcher.
type Option func(*Dispatcher)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(d *Dispatcher) {
		if c != nil {
			d.cron = c
		}
	}
}

// WithSchedule overrides the cron specification for outbox dispatch.
func WithSchedule(spec string) Option {
	return func(d *Dispatcher) {
		if spec != "" {
			d.schedule = spec
		}
	}
}

// NewDispatcher constructs a Dispatcher with sensible defaults.
func NewDispatcher(outbox *services.OutboxService, opts ...Option) *Dispatcher {
	dispatcher := &Dispatcher{
		outbox:   outbox,
		schedule: defaultSchedule,
		log:      logger.WithModule("notifier"),
	}

	for _, opt := range opts {
		opt(dispatcher)
	}

	if dispatcher.cron == nil {
		dispatcher.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return dispatcher
}

// Start registers the dispatch job and launches the scheduler.
func (d *Dispatcher) Start() error {
	if d.outbox == nil {
		return nil
	}

	if _, err := d.cron.AddFunc(d.schedule, func() {
		if err := d.outbox.DispatchPending(context.Background()); err != nil {
			d.log.Warn("outbox dispatch failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	d.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for any running dispatch to complete.
func (d *Dispatcher) Stop() context.Context {
	if d.cron == nil {
		return context.Background()
	}
	return d.cron.Stop()
}

// RunOnce flushes the outbox immediately. Used in tests and during graceful shutdown.
func (d *Dispatcher) RunOnce(ctx context.Context) error {
	if d.outbox == nil {
		return nil
	}
	return d.outbox.DispatchPending(ctx)
}
