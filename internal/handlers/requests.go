package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/collabmatch/collabmatch/internal/models"
	"github.com/collabmatch/collabmatch/internal/services"
	apperrors "github.com/collabmatch/collabmatch/pkg/errors"
	"github.com/collabmatch/collabmatch/pkg/response"
)

// RequestHandler exposes the join-request lifecycle endpoints.
type RequestHandler struct {
	svc *services.RequestService
}

type createJoinRequest struct {
	EntityID    string `json:"entity_id" validate:"required,uuid4"`
	Direction   string `json:"direction" validate:"omitempty,oneof=join invite"`
	Message     string `json:"message" validate:"omitempty,max=1024"`
	ContactLink string `json:"contact_link" validate:"omitempty,max=256"`
}

type resolveRequest struct {
	Status string `json:"status" validate:"required"`
}

// NewRequestHandler wires a RequestHandler from its dependencies.
func NewRequestHandler(db *gorm.DB, outbox *services.OutboxService, opts ...services.RequestOption) (*RequestHandler, error) {
	svc, err := services.NewRequestService(db, outbox, opts...)
	if err != nil {
		return nil, err
	}
	return &RequestHandler{svc: svc}, nil
}

// POST /api/requests
func (h *RequestHandler) Create(c *gin.Context) {
	var body createJoinRequest
	if !bindAndValidate(c, &body) {
		return
	}

	direction := models.RequestDirection(body.Direction)
	if direction == "" {
		direction = models.RequestDirectionJoin
	}

	request, err := h.svc.Create(requestContext(c), services.CreateRequestInput{
		SenderID:    currentUserID(c),
		EntityID:    body.EntityID,
		Direction:   direction,
		Message:     body.Message,
		ContactLink: body.ContactLink,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, request)
}

// GET /api/requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	request, err := h.svc.GetByID(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, request)
}

// PATCH /api/requests/:id/status
func (h *RequestHandler) Resolve(c *gin.Context) {
	var body resolveRequest
	if !bindAndValidate(c, &body) {
		return
	}

	// Decisions arrive uppercase on the wire.
	var decision models.RequestStatus
	switch strings.ToUpper(strings.TrimSpace(body.Status)) {
	case "ACCEPTED":
		decision = models.RequestStatusAccepted
	case "REJECTED":
		decision = models.RequestStatusRejected
	default:
		response.Error(c, apperrors.NewBadRequest("status must be ACCEPTED or REJECTED"))
		return
	}

	request, err := h.svc.Resolve(requestContext(c), c.Param("id"), currentUserID(c), decision)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, request)
}
