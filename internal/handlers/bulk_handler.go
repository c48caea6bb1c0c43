package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "chartkeep/internal/errors"
	"chartkeep/internal/models"
	"chartkeep/internal/services"
)

// BulkHandler applies a common patch to a set of accounts.
type BulkHandler struct {
	bulkService  services.BulkEditServicer
	auditService services.AuditServicer
}

// NewBulkHandler creates a new BulkHandler.
func NewBulkHandler(bulkService services.BulkEditServicer, auditService services.AuditServicer) *BulkHandler {
	return &BulkHandler{bulkService: bulkService, auditService: auditService}
}

// BulkEditRequest carries the selection and the sparse patch. Omitted fields
// are left unchanged; the clear_* flags reset a field instead.
type BulkEditRequest struct {
	IDs              []string `json:"ids" binding:"required,min=1,max=500"`
	Type             *string  `json:"type" binding:"omitempty,account_type"`
	Description      *string  `json:"description" binding:"omitempty,max=500"`
	ClearDescription bool     `json:"clear_description"`
	Notes            *string  `json:"notes" binding:"omitempty,max=1000"`
	ClearNotes       bool     `json:"clear_notes"`
	ParentID         *string  `json:"parent_id"`
	ClearParent      bool     `json:"clear_parent"`
	IsActive         *bool    `json:"is_active"`
}

// BulkEdit applies the patch to every selected account independently and
// reports combined success/failure counts.
func (h *BulkHandler) BulkEdit(c *gin.Context) {
	var req BulkEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var patch services.BulkPatch
	if req.Type != nil {
		patch.Type = services.Set(models.AccountType(*req.Type))
	}
	if req.ClearDescription {
		patch.Description = services.Clear[string]()
	} else if req.Description != nil {
		patch.Description = services.Set(*req.Description)
	}
	if req.ClearNotes {
		patch.Notes = services.Clear[string]()
	} else if req.Notes != nil {
		patch.Notes = services.Set(*req.Notes)
	}
	if req.ClearParent {
		patch.ParentID = services.Clear[string]()
	} else if req.ParentID != nil {
		patch.ParentID = services.Set(*req.ParentID)
	}
	if req.IsActive != nil {
		patch.IsActive = services.Set(*req.IsActive)
	}

	result, err := h.bulkService.Apply(req.IDs, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("BULK_EDIT", "", c.ClientIP(),
		map[string]interface{}{"selected": len(req.IDs), "updated": result.Updated, "failed": result.Failed})

	c.JSON(http.StatusOK, result)
}
