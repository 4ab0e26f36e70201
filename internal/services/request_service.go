package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/collabmatch/collabmatch/internal/models"
	apperrors "github.com/collabmatch/collabmatch/pkg/errors"
	"github.com/collabmatch/collabmatch/pkg/logger"
	"github.com/collabmatch/collabmatch/pkg/metrics"
)

// CreateRequestInput captures a new join request.
type CreateRequestInput struct {
	SenderID    string
	EntityID    string
	Direction   models.RequestDirection
	Message     string
	ContactLink string
}

// RequestOption customises RequestService behaviour.
type RequestOption func(*RequestService)

// WithTrustAwards overrides the default trust award amounts.
func WithTrustAwards(awards TrustAwards) RequestOption {
	return func(s *RequestService) {
		s.awards = awards
	}
}

// RequestService governs the join-request lifecycle.
//
// A request is created pending and resolved exactly once. Resolution runs as a
// single transaction: the status transition, membership insert, slot decrement
// and trust award all commit together or not at all.
type RequestService struct {
	db     *gorm.DB
	outbox *OutboxService
	awards TrustAwards
	log    *zap.Logger
}

// NewRequestService constructs a RequestService with the provided dependencies.
func NewRequestService(db *gorm.DB, outbox *OutboxService, opts ...RequestOption) (*RequestService, error) {
	if db == nil {
		return nil, errors.New("request service: db is required")
	}

	service := &RequestService{
		db:     db,
		outbox: outbox,
		awards: DefaultTrustAwards(),
		log:    logger.WithModule("requests"),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Create registers a new pending request against an open entity.
func (s *RequestService) Create(ctx context.Context, input CreateRequestInput) (*models.JoinRequest, error) {
	ctx = ensureContext(ctx)

	senderID := strings.TrimSpace(input.SenderID)
	entityID := strings.TrimSpace(input.EntityID)
	if senderID == "" || entityID == "" {
		return nil, apperrors.NewBadRequest("sender id and entity id are required")
	}

	direction := input.Direction
	if direction == "" {
		direction = models.RequestDirectionJoin
	}
	if !direction.Valid() {
		return nil, apperrors.NewBadRequest("direction must be join or invite")
	}

	var entity models.Entity
	if err := s.db.WithContext(ctx).First(&entity, "id = ?", entityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("request service: load entity: %w", err)
	}

	if entity.Status != models.EntityStatusOpen {
		return nil, ErrEntityNotOpen
	}
	if entity.OwnerID == senderID {
		return nil, ErrOwnEntityRequest
	}
	if entity.RemainingSlots <= 0 {
		return nil, ErrEntityFull
	}

	var memberCount int64
	if err := s.db.WithContext(ctx).Model(&models.Membership{}).
		Where("user_id = ? AND entity_id = ?", senderID, entityID).
		Count(&memberCount).Error; err != nil {
		return nil, fmt.Errorf("request service: check membership: %w", err)
	}
	if memberCount > 0 {
		return nil, ErrMembershipExists
	}

	var pendingCount int64
	if err := s.db.WithContext(ctx).Model(&models.JoinRequest{}).
		Where("sender_id = ? AND entity_id = ? AND status = ?", senderID, entityID, models.RequestStatusPending).
		Count(&pendingCount).Error; err != nil {
		return nil, fmt.Errorf("request service: check open requests: %w", err)
	}
	if pendingCount > 0 {
		return nil, ErrDuplicateRequest
	}

	request := &models.JoinRequest{
		SenderID:    senderID,
		EntityID:    entityID,
		Direction:   direction,
		Status:      models.RequestStatusPending,
		Message:     strings.TrimSpace(input.Message),
		ContactLink: strings.TrimSpace(input.ContactLink),
	}

	if err := s.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, fmt.Errorf("request service: create request: %w", err)
	}

	return request, nil
}

// GetByID loads a single request.
func (s *RequestService) GetByID(ctx context.Context, id string) (*models.JoinRequest, error) {
	ctx = ensureContext(ctx)

	var request models.JoinRequest
	if err := s.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("request service: load request: %w", err)
	}
	return &request, nil
}

// ListForEntity returns the requests against an entity, visible to its lead only.
func (s *RequestService) ListForEntity(ctx context.Context, entityID, actorID string) ([]models.JoinRequest, error) {
	ctx = ensureContext(ctx)

	var entity models.Entity
	if err := s.db.WithContext(ctx).First(&entity, "id = ?", entityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("request service: load entity: %w", err)
	}

	if entity.OwnerID != strings.TrimSpace(actorID) {
		return nil, apperrors.ErrForbidden
	}

	var requests []models.JoinRequest
	if err := s.db.WithContext(ctx).
		Preload("Sender").
		Where("entity_id = ?", entityID).
		Order("created_at ASC").
		Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("request service: list requests: %w", err)
	}

	return requests, nil
}

// Resolve transitions a pending request to accepted or rejected.
//
// The pending check and the terminal write are one guarded UPDATE inside the
// transaction, so of two concurrent resolutions exactly one succeeds and the
// other observes ErrRequestAlreadyProcessed.
func (s *RequestService) Resolve(ctx context.Context, requestID, actorID string, decision models.RequestStatus) (*models.JoinRequest, error) {
	ctx = ensureContext(ctx)

	if decision != models.RequestStatusAccepted && decision != models.RequestStatusRejected {
		return nil, apperrors.NewBadRequest("decision must be ACCEPTED or REJECTED")
	}

	var (
		resolved *models.JoinRequest
		awarded  int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var request models.JoinRequest
		if err := tx.First(&request, "id = ?", strings.TrimSpace(requestID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("request service: load request: %w", err)
		}

		if request.Status != models.RequestStatusPending {
			return ErrRequestAlreadyProcessed
		}

		var entity models.Entity
		if err := tx.First(&entity, "id = ?", request.EntityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestOrphaned
			}
			return fmt.Errorf("request service: load entity: %w", err)
		}

		if entity.OwnerID != strings.TrimSpace(actorID) {
			return apperrors.ErrForbidden
		}
		if entity.Status != models.EntityStatusOpen {
			return ErrEntityNotOpen
		}

		var sender models.User
		if err := tx.First(&sender, "id = ?", request.SenderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("request service: load sender: %w", err)
		}

		if decision == models.RequestStatusAccepted {
			if err := s.accept(tx, &request, &entity, &sender); err != nil {
				return err
			}
			awarded = s.awards.acceptanceAward(entity.Kind)
		} else {
			if err := s.reject(tx, &request, &entity, &sender); err != nil {
				return err
			}
		}

		resolved = &request
		return nil
	})
	if err != nil {
		metrics.RequestResolutions.WithLabelValues(string(decision), "failure").Inc()
		return nil, err
	}

	metrics.RequestResolutions.WithLabelValues(string(decision), "success").Inc()
	if awarded > 0 {
		metrics.TrustPointsAwarded.WithLabelValues("acceptance").Add(float64(awarded))
	}
	s.log.Info("request resolved",
		zap.String("request_id", resolved.ID),
		zap.String("entity_id", resolved.EntityID),
		zap.String("decision", string(decision)),
	)

	return resolved, nil
}

// accept performs the four writes of an acceptance inside the caller's transaction.
func (s *RequestService) accept(tx *gorm.DB, request *models.JoinRequest, entity *models.Entity, sender *models.User) error {
	var memberCount int64
	if err := tx.Model(&models.Membership{}).
		Where("user_id = ? AND entity_id = ?", request.SenderID, request.EntityID).
		Count(&memberCount).Error; err != nil {
		return fmt.Errorf("request service: check membership: %w", err)
	}
	if memberCount > 0 {
		// The request stays pending; the caller must re-fetch state.
		return ErrMembershipExists
	}

	slot := tx.Model(&models.Entity{}).
		Where("id = ? AND remaining_slots > 0", entity.ID).
		UpdateColumn("remaining_slots", gorm.Expr("remaining_slots - 1"))
	if slot.Error != nil {
		return fmt.Errorf("request service: reserve slot: %w", slot.Error)
	}
	if slot.RowsAffected == 0 {
		return ErrEntityFull
	}

	status := tx.Model(&models.JoinRequest{}).
		Where("id = ? AND status = ?", request.ID, models.RequestStatusPending).
		UpdateColumn("status", models.RequestStatusAccepted)
	if status.Error != nil {
		return fmt.Errorf("request service: update status: %w", status.Error)
	}
	if status.RowsAffected == 0 {
		return ErrRequestAlreadyProcessed
	}

	membership := models.Membership{
		UserID:      request.SenderID,
		EntityID:    request.EntityID,
		Role:        models.MembershipRoleMember,
		DisplayName: memberDisplayName(sender),
	}
	if err := tx.Create(&membership).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrMembershipExists
		}
		return fmt.Errorf("request service: create membership: %w", err)
	}

	if err := awardTrust(tx, request.SenderID, s.awards.acceptanceAward(entity.Kind)); err != nil {
		return err
	}

	if s.outbox != nil {
		subject := fmt.Sprintf("You're in: %s", entity.Name)
		body := fmt.Sprintf("Hello %s,\n\nYour request to join %q was accepted. Welcome aboard!\n", memberDisplayName(sender), entity.Name)
		if err := s.outbox.Enqueue(tx, models.OutboxEventRequestAccepted, sender.Email, subject, body, map[string]any{
			"request_id": request.ID,
			"entity_id":  entity.ID,
		}); err != nil {
			return err
		}
	}

	request.Status = models.RequestStatusAccepted
	entity.RemainingSlots--
	return nil
}

func (s *RequestService) reject(tx *gorm.DB, request *models.JoinRequest, entity *models.Entity, sender *models.User) error {
	status := tx.Model(&models.JoinRequest{}).
		Where("id = ? AND status = ?", request.ID, models.RequestStatusPending).
		UpdateColumn("status", models.RequestStatusRejected)
	if status.Error != nil {
		return fmt.Errorf("request service: update status: %w", status.Error)
	}
	if status.RowsAffected == 0 {
		return ErrRequestAlreadyProcessed
	}

	if s.outbox != nil {
		subject := fmt.Sprintf("Update on %s", entity.Name)
		body := fmt.Sprintf("Hello %s,\n\nYour request to join %q was not accepted this time.\n", memberDisplayName(sender), entity.Name)
		if err := s.outbox.Enqueue(tx, models.OutboxEventRequestRejected, sender.Email, subject, body, map[string]any{
			"request_id": request.ID,
			"entity_id":  entity.ID,
		}); err != nil {
			return err
		}
	}

	request.Status = models.RequestStatusRejected
	return nil
}

func memberDisplayName(user *models.User) string {
	if name := strings.TrimSpace(user.DisplayName); name != "" {
		return name
	}
	return user.Username
}
