package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "chartkeep/internal/errors"
	"chartkeep/internal/services"
)

// maxImportSize caps uploaded CSV files at 5 MB.
const maxImportSize = 5 << 20

// CSVHandler exports and imports the chart of accounts as CSV.
type CSVHandler struct {
	csvService   services.CSVServicer
	auditService services.AuditServicer
}

// NewCSVHandler creates a new CSVHandler.
func NewCSVHandler(csvService services.CSVServicer, auditService services.AuditServicer) *CSVHandler {
	return &CSVHandler{csvService: csvService, auditService: auditService}
}

// ExportAccounts streams the full chart as a CSV download.
func (h *CSVHandler) ExportAccounts(c *gin.Context) {
	filename := fmt.Sprintf("accounts-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.csvService.Export(c.Writer); err != nil {
		// headers are already written; log and abort the stream
		_ = c.Error(err)
	}
}

// ImportAccounts applies an uploaded CSV file row by row and reports
// per-row errors without aborting the batch.
func (h *CSVHandler) ImportAccounts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrImportFile, "missing file upload"))
		return
	}
	if fileHeader.Size > maxImportSize {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrImportFile, "file exceeds 5MB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrImportFile, err))
		return
	}
	defer file.Close()

	result, err := h.csvService.Import(file)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("IMPORT_CSV", "", c.ClientIP(),
		map[string]interface{}{"processed": result.TotalProcessed, "errors": len(result.Errors)})

	c.JSON(http.StatusOK, result)
}
