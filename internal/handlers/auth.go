package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/collabmatch/collabmatch/internal/auth"
	"github.com/collabmatch/collabmatch/internal/models"
	"github.com/collabmatch/collabmatch/internal/services"
	apperrors "github.com/collabmatch/collabmatch/pkg/errors"
	"github.com/collabmatch/collabmatch/pkg/response"
)

// AuthHandler exposes account registration and login.
type AuthHandler struct {
	svc *services.AuthService
}

type registerRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=64"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	DisplayName string `json:"display_name" validate:"omitempty,max=128"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// NewAuthHandler wires an AuthHandler from its dependencies.
func NewAuthHandler(db *gorm.DB, jwt *iauth.JWTService) (*AuthHandler, error) {
	svc, err := services.NewAuthService(db, jwt)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{svc: svc}, nil
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var body registerRequest
	if !bindAndValidate(c, &body) {
		return
	}

	user, err := h.svc.Register(requestContext(c), services.RegisterInput{
		Username:    body.Username,
		Email:       body.Email,
		Password:    body.Password,
		DisplayName: body.DisplayName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, userProfile(user))
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if !bindAndValidate(c, &body) {
		return
	}

	token, user, err := h.svc.Login(requestContext(c), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			response.Error(c, apperrors.ErrInvalidCredentials)
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user":  userProfile(user),
	})
}

func userProfile(user *models.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"trust_points": user.TrustPoints,
	}
}
