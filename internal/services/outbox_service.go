package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/collabmatch/collabmatch/internal/models"
	"github.com/collabmatch/collabmatch/pkg/logger"
	"github.com/collabmatch/collabmatch/pkg/mail"
	"github.com/collabmatch/collabmatch/pkg/metrics"
)

const defaultOutboxBatchSize = 50

// OutboxOption customises OutboxService behaviour.
type OutboxOption func(*OutboxService)

// WithOutboxBatchSize bounds the number of events delivered per dispatch run.
func WithOutboxBatchSize(size int) OutboxOption {
	return func(s *OutboxService) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// WithOutboxClock injects a custom clock primarily for testing.
func WithOutboxClock(clock func() time.Time) OutboxOption {
	return func(s *OutboxService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// OutboxService stores notifications transactionally and delivers them later.
//
// Events are enqueued inside the same transaction as the state transition they
// announce; DispatchPending runs outside any transaction, so a slow or failing
// mail provider can never block or roll back a transition.
type OutboxService struct {
	db        *gorm.DB
	mailer    mail.Mailer
	batchSize int
	now       func() time.Time
	log       *zap.Logger
}

// NewOutboxService constructs an OutboxService with the provided dependencies.
func NewOutboxService(db *gorm.DB, mailer mail.Mailer, opts ...OutboxOption) (*OutboxService, error) {
	if db == nil {
		return nil, errors.New("outbox service: db is required")
	}

	service := &OutboxService{
		db:        db,
		mailer:    mailer,
		batchSize: defaultOutboxBatchSize,
		now:       time.Now,
		log:       logger.WithModule("outbox"),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Enqueue writes an event using the caller's transaction handle.
func (s *OutboxService) Enqueue(tx *gorm.DB, eventType, recipient, subject, body string, payload map[string]any) error {
	event := models.OutboxEvent{
		EventType: eventType,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	}

	if len(payload) > 0 {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("outbox service: marshal payload: %w", err)
		}
		event.Payload = raw
	}

	if err := tx.Create(&event).Error; err != nil {
		return fmt.Errorf("outbox service: enqueue event: %w", err)
	}
	return nil
}

// DispatchPending delivers undelivered events by email.
//
// Delivery failures are recorded and retried on the next run; an event is only
// marked dispatched after the mailer accepts it.
func (s *OutboxService) DispatchPending(ctx context.Context) error {
	ctx = ensureContext(ctx)

	var events []models.OutboxEvent
	if err := s.db.WithContext(ctx).
		Where("dispatched_at IS NULL").
		Order("created_at ASC").
		Limit(s.batchSize).
		Find(&events).Error; err != nil {
		return fmt.Errorf("outbox service: load pending events: %w", err)
	}

	var errs error
	for i := range events {
		event := &events[i]
		if err := s.dispatchOne(ctx, event); err != nil {
			metrics.OutboxDispatches.WithLabelValues("failure").Inc()
			s.log.Warn("notification delivery failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			errs = multierr.Append(errs, err)
			continue
		}
		metrics.OutboxDispatches.WithLabelValues("success").Inc()
	}

	return errs
}

func (s *OutboxService) dispatchOne(ctx context.Context, event *models.OutboxEvent) error {
	if s.mailer != nil {
		message := mail.Message{
			To:      []string{event.Recipient},
			Subject: event.Subject,
			Body:    event.Body,
		}
		if err := s.mailer.Send(ctx, message); err != nil && !errors.Is(err, mail.ErrSMTPDisabled) {
			if updErr := s.db.WithContext(ctx).Model(event).
				UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error; updErr != nil {
				err = multierr.Append(err, updErr)
			}
			return err
		}
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(event).
		Updates(map[string]any{
			"dispatched_at": now,
			"attempts":      gorm.Expr("attempts + 1"),
		}).Error; err != nil {
		return fmt.Errorf("outbox service: mark dispatched: %w", err)
	}

	event.DispatchedAt = &now
	return nil
}
