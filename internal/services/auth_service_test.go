package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iauth "github.com/collabmatch/collabmatch/internal/auth"
	apperrors "github.com/collabmatch/collabmatch/pkg/errors"
)

func newTestAuthService(t *testing.T) (*AuthService, *iauth.JWTService) {
	t.Helper()

	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "test-secret-test-secret-test-1234"})
	require.NoError(t, err)

	svc, err := NewAuthService(openServiceTestDB(t), jwt)
	require.NoError(t, err)
	return svc, jwt
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	svc, jwt := newTestAuthService(t)

	user, err := svc.Register(nil, RegisterInput{
		Username:    "builder",
		Email:       "Builder@Example.com",
		Password:    "p@ssW0rd!",
		DisplayName: "Builder",
	})
	require.NoError(t, err)
	assert.Equal(t, "builder@example.com", user.Email, "emails are stored lowercased")
	assert.NotEqual(t, "p@ssW0rd!", user.Password, "passwords are stored hashed")
	assert.Zero(t, user.TrustPoints)

	token, loggedIn, err := svc.Login(nil, "builder", "p@ssW0rd!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := jwt.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthServiceRegisterDuplicate(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(nil, RegisterInput{Username: "builder", Email: "builder@example.com", Password: "secret1!"})
	require.NoError(t, err)

	_, err = svc.Register(nil, RegisterInput{Username: "builder", Email: "other@example.com", Password: "secret1!"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "USER_EXISTS", appErr.Code)
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(nil, RegisterInput{Username: "builder", Email: "builder@example.com", Password: "secret1!"})
	require.NoError(t, err)

	_, _, err = svc.Login(nil, "builder", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, _, err = svc.Login(nil, "nobody", "secret1!")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, _, err = svc.Login(nil, "", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
