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

// CreateEntityInput captures new team/project metadata.
type CreateEntityInput struct {
	OwnerID     string
	Kind        models.EntityKind
	Name        string
	Description string
	Size        int
}

// EntityOption customises EntityService behaviour.
type EntityOption func(*EntityService)

// WithEntityTrustAwards overrides the default trust award amounts.
func WithEntityTrustAwards(awards TrustAwards) EntityOption {
	return func(s *EntityService) {
		s.awards = awards
	}
}

// EntityService handles team/project creation and lifecycle transitions.
type EntityService struct {
	db     *gorm.DB
	outbox *OutboxService
	awards TrustAwards
	log    *zap.Logger
}

// NewEntityService constructs an EntityService with the provided dependencies.
func NewEntityService(db *gorm.DB, outbox *OutboxService, opts ...EntityOption) (*EntityService, error) {
	if db == nil {
		return nil, errors.New("entity service: db is required")
	}

	service := &EntityService{
		db:     db,
		outbox: outbox,
		awards: DefaultTrustAwards(),
		log:    logger.WithModule("entities"),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Create registers a new open entity and seats its lead.
func (s *EntityService) Create(ctx context.Context, input CreateEntityInput) (*models.Entity, error) {
	ctx = ensureContext(ctx)

	ownerID := strings.TrimSpace(input.OwnerID)
	name := strings.TrimSpace(input.Name)

	if ownerID == "" {
		return nil, apperrors.NewBadRequest("owner id is required")
	}
	if name == "" {
		return nil, apperrors.NewBadRequest("name is required")
	}
	if !input.Kind.Valid() {
		return nil, apperrors.NewBadRequest("kind must be team or project")
	}
	if input.Size < 2 {
		return nil, apperrors.NewBadRequest("size must leave at least one open slot beside the lead")
	}

	var owner models.User
	if err := s.db.WithContext(ctx).First(&owner, "id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("entity service: load owner: %w", err)
	}

	entity := &models.Entity{
		Kind:           input.Kind,
		Name:           name,
		Description:    strings.TrimSpace(input.Description),
		OwnerID:        ownerID,
		Size:           input.Size,
		RemainingSlots: input.Size - 1, // the lead holds the first seat
		Status:         models.EntityStatusOpen,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return fmt.Errorf("entity service: create entity: %w", err)
		}

		lead := models.Membership{
			UserID:      ownerID,
			EntityID:    entity.ID,
			Role:        models.MembershipRoleLead,
			DisplayName: memberDisplayName(&owner),
		}
		if err := tx.Create(&lead).Error; err != nil {
			return fmt.Errorf("entity service: create lead membership: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entity, nil
}

// GetByID loads an entity with its memberships.
func (s *EntityService) GetByID(ctx context.Context, id string) (*models.Entity, error) {
	ctx = ensureContext(ctx)

	var entity models.Entity
	if err := s.db.WithContext(ctx).
		Preload("Memberships").
		First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("entity service: load entity: %w", err)
	}
	return &entity, nil
}

// ListMembers returns the memberships of an entity in join order.
func (s *EntityService) ListMembers(ctx context.Context, entityID string) ([]models.Membership, error) {
	ctx = ensureContext(ctx)

	var entityCount int64
	if err := s.db.WithContext(ctx).Model(&models.Entity{}).
		Where("id = ?", entityID).
		Count(&entityCount).Error; err != nil {
		return nil, fmt.Errorf("entity service: check entity: %w", err)
	}
	if entityCount == 0 {
		return nil, ErrEntityNotFound
	}

	var members []models.Membership
	if err := s.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, fmt.Errorf("entity service: list members: %w", err)
	}

	return members, nil
}

// Complete closes an open entity as finished and rewards its members.
//
// The status transition, the per-member trust awards and the cancellation of
// outstanding pending requests commit as one transaction; partway failure
// leaves the entity open.
func (s *EntityService) Complete(ctx context.Context, entityID, actorID string) (*models.Entity, error) {
	return s.transition(ctx, entityID, actorID, models.EntityStatusCompleted)
}

// Cancel closes an open entity without awards.
func (s *EntityService) Cancel(ctx context.Context, entityID, actorID string) (*models.Entity, error) {
	return s.transition(ctx, entityID, actorID, models.EntityStatusCancelled)
}

func (s *EntityService) transition(ctx context.Context, entityID, actorID string, target models.EntityStatus) (*models.Entity, error) {
	ctx = ensureContext(ctx)

	var (
		closed  *models.Entity
		awarded int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entity models.Entity
		if err := tx.First(&entity, "id = ?", strings.TrimSpace(entityID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntityNotFound
			}
			return fmt.Errorf("entity service: load entity: %w", err)
		}

		if entity.OwnerID != strings.TrimSpace(actorID) {
			return apperrors.ErrForbidden
		}

		status := tx.Model(&models.Entity{}).
			Where("id = ? AND status = ?", entity.ID, models.EntityStatusOpen).
			UpdateColumn("status", target)
		if status.Error != nil {
			return fmt.Errorf("entity service: update status: %w", status.Error)
		}
		if status.RowsAffected == 0 {
			return ErrEntityNotOpen
		}

		var members []models.Membership
		if err := tx.Preload("User").
			Where("entity_id = ?", entity.ID).
			Find(&members).Error; err != nil {
			return fmt.Errorf("entity service: load members: %w", err)
		}

		for i := range members {
			member := &members[i]

			if target == models.EntityStatusCompleted {
				if err := awardTrust(tx, member.UserID, s.awards.Completion); err != nil {
					return err
				}
				awarded += s.awards.Completion
			}

			if s.outbox != nil && member.User != nil {
				eventType, subject, body := closureNotice(target, &entity, member)
				if err := s.outbox.Enqueue(tx, eventType, member.User.Email, subject, body, map[string]any{
					"entity_id": entity.ID,
				}); err != nil {
					return err
				}
			}
		}

		// Requests still pending against a closed entity would dangle forever,
		// so they are cancelled in the same transaction.
		if err := tx.Model(&models.JoinRequest{}).
			Where("entity_id = ? AND status = ?", entity.ID, models.RequestStatusPending).
			UpdateColumn("status", models.RequestStatusCancelled).Error; err != nil {
			return fmt.Errorf("entity service: close pending requests: %w", err)
		}

		entity.Status = target
		closed = &entity
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.EntityTransitions.WithLabelValues(string(target)).Inc()
	if awarded > 0 {
		metrics.TrustPointsAwarded.WithLabelValues("completion").Add(float64(awarded))
	}
	s.log.Info("entity closed",
		zap.String("entity_id", closed.ID),
		zap.String("status", string(target)),
	)

	return closed, nil
}

func closureNotice(target models.EntityStatus, entity *models.Entity, member *models.Membership) (eventType, subject, body string) {
	if target == models.EntityStatusCompleted {
		return models.OutboxEventEntityCompleted,
			fmt.Sprintf("%s is complete", entity.Name),
			fmt.Sprintf("Hello %s,\n\n%q has been marked complete. Thanks for collaborating!\n", member.DisplayName, entity.Name)
	}
	return models.OutboxEventEntityCancelled,
		fmt.Sprintf("%s was cancelled", entity.Name),
		fmt.Sprintf("Hello %s,\n\n%q has been cancelled by its lead.\n", member.DisplayName, entity.Name)
}
