package handler

import (
	"ledger-core/internal/adapter/http/dto"
	"ledger-core/internal/core/domain"
	"ledger-core/internal/core/ports"
	"ledger-core/pkg/apperror"
	"ledger-core/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClientHandler handles client lifecycle endpoints.
type ClientHandler struct {
	clientSvc ports.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientSvc ports.ClientService) *ClientHandler {
	return &ClientHandler{clientSvc: clientSvc}
}

// CreateClient handles POST /api/v1/clients.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	client, err := h.clientSvc.CreateClient(c.Request.Context(), ports.CreateClientRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toClientResponse(client))
}

// GetClient handles GET /api/v1/clients/:id.
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid client id"))
		return
	}

	client, err := h.clientSvc.GetClient(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toClientResponse(client))
}

// ListClients handles GET /api/v1/clients.
func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.clientSvc.ListClients(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, toClientResponse(&clients[i]))
	}
	response.OK(c, items)
}

// SuspendClient handles POST /api/v1/clients/:id/suspend.
func (h *ClientHandler) SuspendClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid client id"))
		return
	}

	var req dto.SuspendClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	client, err := h.clientSvc.SuspendClient(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toClientResponse(client))
}

// ActivateClient handles POST /api/v1/clients/:id/activate.
func (h *ClientHandler) ActivateClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid client id"))
		return
	}

	client, err := h.clientSvc.ActivateClient(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toClientResponse(client))
}

// toClientResponse converts domain.Client to DTO.
func toClientResponse(cl *domain.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:        cl.ID.String(),
		FirstName: cl.FirstName,
		LastName:  cl.LastName,
		Email:     cl.Email,
		Phone:     cl.Phone,
		Address:   cl.Address,
		Status:    string(cl.Status),
		CreatedAt: cl.CreatedAt.Format(timeFormat),
		UpdatedAt: cl.UpdatedAt.Format(timeFormat),
	}
}
