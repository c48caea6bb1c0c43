package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "chartkeep/internal/errors"
	"chartkeep/internal/services"
)

// MergeHandler validates and executes account merges.
type MergeHandler struct {
	mergeService services.MergeServicer
	auditService services.AuditServicer
}

// NewMergeHandler creates a new MergeHandler.
func NewMergeHandler(mergeService services.MergeServicer, auditService services.AuditServicer) *MergeHandler {
	return &MergeHandler{mergeService: mergeService, auditService: auditService}
}

// ValidateMergeRequest identifies the candidate pair.
type ValidateMergeRequest struct {
	SourceID string `json:"source_account_id" binding:"required"`
	TargetID string `json:"target_account_id" binding:"required"`
}

// MergeRequest executes a merge. ConfirmName must match the target account's
// name exactly (surrounding whitespace ignored).
type MergeRequest struct {
	SourceID    string `json:"source_account_id" binding:"required"`
	TargetID    string `json:"target_account_id" binding:"required"`
	ConfirmName string `json:"confirm_name" binding:"required"`
}

// ValidateMerge recomputes the blockers and warnings for a candidate pair.
func (h *MergeHandler) ValidateMerge(c *gin.Context) {
	var req ValidateMergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	validation, err := h.mergeService.Validate(req.SourceID, req.TargetID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"validation": validation})
}

// Merge transfers the source balance to the target and removes the source.
func (h *MergeHandler) Merge(c *gin.Context) {
	var req MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.mergeService.Merge(req.SourceID, req.TargetID, req.ConfirmName); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("MERGE_ACCOUNTS", req.TargetID, c.ClientIP(),
		map[string]interface{}{"source_account_id": req.SourceID, "target_account_id": req.TargetID})

	c.JSON(http.StatusOK, gin.H{"message": "Accounts merged"})
}
