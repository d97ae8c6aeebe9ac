package handler

import (
	"fmt"

	"ledger-core/internal/core/ports"
	"ledger-core/pkg/apperror"
	"ledger-core/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReconciliationHandler exposes the entries left behind by transfers whose
// compensation failed, for the back office to work through.
type ReconciliationHandler struct {
	reconRepo ports.ReconciliationRepository
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconRepo ports.ReconciliationRepository) *ReconciliationHandler {
	return &ReconciliationHandler{reconRepo: reconRepo}
}

// List handles GET /api/v1/reconciliations.
func (h *ReconciliationHandler) List(c *gin.Context) {
	entries, err := h.reconRepo.List(c.Request.Context())
	if err != nil {
		response.Error(c, apperror.InternalError(fmt.Errorf("list reconciliation entries: %w", err)))
		return
	}
	response.OK(c, entries)
}
