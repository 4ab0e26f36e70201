package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/collabmatch/collabmatch/internal/database/testutil"
	"github.com/collabmatch/collabmatch/internal/middleware"
	"github.com/collabmatch/collabmatch/internal/models"
	"github.com/collabmatch/collabmatch/internal/services"
	"github.com/collabmatch/collabmatch/pkg/crypto"
	"github.com/collabmatch/collabmatch/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newJSONContext builds a gin test context carrying a JSON body and the
// authenticated user id, the way the auth middleware would.
func newJSONContext(t *testing.T, userID string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	c.Request = httptest.NewRequest(http.MethodPost, "/", reader)
	c.Request.Header.Set("Content-Type", "application/json")

	if userID != "" {
		c.Set(middleware.CtxUserIDKey, userID)
	}

	return c, recorder
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var payload response.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return payload
}

func decodeData[T any](t *testing.T, payload response.Response) T {
	t.Helper()

	raw, err := json.Marshal(payload.Data)
	require.NoError(t, err)

	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func openHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.MustOpenTestDB(t)
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
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

func seedEntity(t *testing.T, db *gorm.DB, ownerID string, kind models.EntityKind, size int) *models.Entity {
	t.Helper()

	svc, err := services.NewEntityService(db, nil)
	require.NoError(t, err)

	entity, err := svc.Create(nil, services.CreateEntityInput{
		OwnerID: ownerID,
		Kind:    kind,
		Name:    "Seeded " + string(kind),
		Size:    size,
	})
	require.NoError(t, err)
	return entity
}
