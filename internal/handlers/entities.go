package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/collabmatch/collabmatch/internal/models"
	"github.com/collabmatch/collabmatch/internal/services"
	"github.com/collabmatch/collabmatch/pkg/response"
)

// EntityHandler exposes team/project creation and lifecycle endpoints.
type EntityHandler struct {
	svc      *services.EntityService
	requests *services.RequestService
}

type createEntityRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=team project"`
	Name        string `json:"name" validate:"required,min=2,max=128"`
	Description string `json:"description" validate:"omitempty,max=1024"`
	Size        int    `json:"size" validate:"required,min=2,max=64"`
}

// NewEntityHandler wires an EntityHandler from its dependencies.
func NewEntityHandler(db *gorm.DB, outbox *services.OutboxService, opts ...services.EntityOption) (*EntityHandler, error) {
	svc, err := services.NewEntityService(db, outbox, opts...)
	if err != nil {
		return nil, err
	}
	requests, err := services.NewRequestService(db, outbox)
	if err != nil {
		return nil, err
	}
	return &EntityHandler{svc: svc, requests: requests}, nil
}

// POST /api/entities
func (h *EntityHandler) Create(c *gin.Context) {
	var body createEntityRequest
	if !bindAndValidate(c, &body) {
		return
	}

	entity, err := h.svc.Create(requestContext(c), services.CreateEntityInput{
		OwnerID:     currentUserID(c),
		Kind:        models.EntityKind(body.Kind),
		Name:        body.Name,
		Description: body.Description,
		Size:        body.Size,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, entity)
}

// GET /api/entities/:id
func (h *EntityHandler) Get(c *gin.Context) {
	entity, err := h.svc.GetByID(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, entity)
}

// GET /api/entities/:id/members
func (h *EntityHandler) ListMembers(c *gin.Context) {
	members, err := h.svc.ListMembers(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, members)
}

// GET /api/entities/:id/requests
func (h *EntityHandler) ListRequests(c *gin.Context) {
	requests, err := h.requests.ListForEntity(requestContext(c), c.Param("id"), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, requests)
}

// PATCH /api/entities/:id/complete
func (h *EntityHandler) Complete(c *gin.Context) {
	entity, err := h.svc.Complete(requestContext(c), c.Param("id"), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, entity)
}

// PATCH /api/entities/:id/cancel
func (h *EntityHandler) Cancel(c *gin.Context) {
	entity, err := h.svc.Cancel(requestContext(c), c.Param("id"), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, entity)
}
