package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	iauth "github.com/collabmatch/collabmatch/internal/auth"
	"github.com/collabmatch/collabmatch/internal/models"
	"github.com/collabmatch/collabmatch/pkg/crypto"
	apperrors "github.com/collabmatch/collabmatch/pkg/errors"
)

// RegisterInput captures a new account.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

// AuthService provides the minimal account surface needed to identify actors.
type AuthService struct {
	db  *gorm.DB
	jwt *iauth.JWTService
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(db *gorm.DB, jwt *iauth.JWTService) (*AuthService, error) {
	if db == nil {
		return nil, errors.New("auth service: db is required")
	}
	if jwt == nil {
		return nil, errors.New("auth service: jwt service is required")
	}
	return &AuthService{db: db, jwt: jwt}, nil
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" || input.Password == "" {
		return nil, apperrors.NewBadRequest("username, email and password are required")
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth service: hash password: %w", err)
	}

	user := &models.User{
		Username:    username,
		Email:       email,
		Password:    hashed,
		DisplayName: strings.TrimSpace(input.DisplayName),
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.New("USER_EXISTS", "Username or email already registered", http.StatusConflict)
		}
		return nil, fmt.Errorf("auth service: create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	ctx = ensureContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("auth service: load user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, password) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("auth service: issue token: %w", err)
	}

	return token, &user, nil
}
