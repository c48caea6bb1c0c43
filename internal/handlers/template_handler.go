package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "chartkeep/internal/errors"
	"chartkeep/internal/services"
)

// TemplateHandler serves the account template catalog.
type TemplateHandler struct {
	templateService services.TemplateServicer
	auditService    services.AuditServicer
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService services.TemplateServicer, auditService services.AuditServicer) *TemplateHandler {
	return &TemplateHandler{templateService: templateService, auditService: auditService}
}

// ProvisionRequest selects templates by their suggested code.
type ProvisionRequest struct {
	Codes []string `json:"codes" binding:"required,min=1,max=50"`
}

// ListTemplates returns the templates still provisionable for this chart.
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates := h.templateService.Available(c.Query("filter"))
	if templates == nil {
		templates = []services.AccountTemplate{}
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// ProvisionTemplates creates one account per selected template.
func (h *TemplateHandler) ProvisionTemplates(c *gin.Context) {
	var req ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.templateService.Provision(req.Codes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if result.Created > 0 {
		h.auditService.Log("PROVISION_TEMPLATES", "", c.ClientIP(),
			map[string]interface{}{"created": result.Created, "failed": result.Failed})
	}

	c.JSON(http.StatusCreated, result)
}
