package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iauth "github.com/collabmatch/collabmatch/internal/auth"
)

func newTestAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()

	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "test-secret-test-secret-test-1234"})
	require.NoError(t, err)

	handler, err := NewAuthHandler(openHandlerTestDB(t), jwt)
	require.NoError(t, err)
	return handler
}

func TestAuthHandlerRegisterAndLogin(t *testing.T) {
	handler := newTestAuthHandler(t)

	c, recorder := newJSONContext(t, "", gin.H{
		"username":     "builder",
		"email":        "builder@example.com",
		"password":     "p@ssW0rd!",
		"display_name": "Builder",
	})
	handler.Register(c)
	require.Equal(t, http.StatusCreated, recorder.Code)

	profile := decodeData[map[string]any](t, decodeResponse(t, recorder))
	assert.Equal(t, "builder", profile["username"])
	assert.NotContains(t, profile, "password")

	c2, recorder2 := newJSONContext(t, "", gin.H{
		"username": "builder",
		"password": "p@ssW0rd!",
	})
	handler.Login(c2)
	require.Equal(t, http.StatusOK, recorder2.Code)

	session := decodeData[map[string]any](t, decodeResponse(t, recorder2))
	assert.NotEmpty(t, session["token"])
}

func TestAuthHandlerRegisterValidation(t *testing.T) {
	handler := newTestAuthHandler(t)

	c, recorder := newJSONContext(t, "", gin.H{
		"username": "builder",
		"email":    "not-an-email",
		"password": "p@ssW0rd!",
	})
	handler.Register(c)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Short passwords never reach the service.
	c2, recorder2 := newJSONContext(t, "", gin.H{
		"username": "builder",
		"email":    "builder@example.com",
		"password": "short",
	})
	handler.Register(c2)
	assert.Equal(t, http.StatusBadRequest, recorder2.Code)
}

func TestAuthHandlerDuplicateUsername(t *testing.T) {
	handler := newTestAuthHandler(t)

	c, recorder := newJSONContext(t, "", gin.H{
		"username": "builder",
		"email":    "builder@example.com",
		"password": "p@ssW0rd!",
	})
	handler.Register(c)
	require.Equal(t, http.StatusCreated, recorder.Code)

	c2, recorder2 := newJSONContext(t, "", gin.H{
		"username": "builder",
		"email":    "other@example.com",
		"password": "p@ssW0rd!",
	})
	handler.Register(c2)
	require.Equal(t, http.StatusConflict, recorder2.Code)

	failure := decodeResponse(t, recorder2)
	require.NotNil(t, failure.Error)
	assert.Equal(t, "USER_EXISTS", failure.Error.Code)
}

func TestAuthHandlerLoginRejectsBadCredentials(t *testing.T) {
	handler := newTestAuthHandler(t)

	c, recorder := newJSONContext(t, "", gin.H{
		"username": "ghost",
		"password": "whatever1",
	})
	handler.Login(c)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
