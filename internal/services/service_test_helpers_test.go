package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/collabmatch/collabmatch/internal/database/testutil"
	"github.com/collabmatch/collabmatch/internal/models"
	"github.com/collabmatch/collabmatch/pkg/crypto"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.MustOpenTestDB(t)
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hashed, err := crypto.HashPassword("p@ssW0rd!")
	require.NoError(t, err)

	user := &models.User{
		Username:    username,
		Email:       username + "@example.com",
		Password:    hashed,
		DisplayName: username,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestEntity(t *testing.T, db *gorm.DB, ownerID string, kind models.EntityKind, size int) *models.Entity {
	t.Helper()

	svc, err := NewEntityService(db, nil)
	require.NoError(t, err)

	entity, err := svc.Create(nil, CreateEntityInput{
		OwnerID: ownerID,
		Kind:    kind,
		Name:    "Test " + string(kind),
		Size:    size,
	})
	require.NoError(t, err)
	return entity
}

func reloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return &user
}

func reloadEntity(t *testing.T, db *gorm.DB, id string) *models.Entity {
	t.Helper()

	var entity models.Entity
	require.NoError(t, db.First(&entity, "id = ?", id).Error)
	return &entity
}

func reloadRequest(t *testing.T, db *gorm.DB, id string) *models.JoinRequest {
	t.Helper()

	var request models.JoinRequest
	require.NoError(t, db.First(&request, "id = ?", id).Error)
	return &request
}

func countMemberships(t *testing.T, db *gorm.DB, entityID string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.Membership{}).Where("entity_id = ?", entityID).Count(&count).Error)
	return count
}
