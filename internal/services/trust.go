package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/collabmatch/collabmatch/internal/models"
)

// Default trust awards for qualifying events.
const (
	DefaultTeamAcceptanceAward    = 3
	DefaultProjectAcceptanceAward = 4
	DefaultCompletionAward        = 5
)

// TrustAwards fixes the reputation points granted per qualifying event.
type TrustAwards struct {
	TeamAcceptance    int
	ProjectAcceptance int
	Completion        int
}

// DefaultTrustAwards returns the standard award amounts.
func DefaultTrustAwards() TrustAwards {
	return TrustAwards{
		TeamAcceptance:    DefaultTeamAcceptanceAward,
		ProjectAcceptance: DefaultProjectAcceptanceAward,
		Completion:        DefaultCompletionAward,
	}
}

// acceptanceAward returns the fixed award for joining an entity of the given kind.
func (a TrustAwards) acceptanceAward(kind models.EntityKind) int {
	if kind == models.EntityKindProject {
		return a.ProjectAcceptance
	}
	return a.TeamAcceptance
}

// awardTrust adds points to a user's cumulative score. It must only be called
// inside the transaction performing the state transition that earns the award,
// so repeated resolution attempts can never re-award.
func awardTrust(tx *gorm.DB, userID string, points int) error {
	if points <= 0 {
		return nil
	}

	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("trust_points", gorm.Expr("trust_points + ?", points))
	if res.Error != nil {
		return fmt.Errorf("award trust: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
