package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"patrimon/internal/middleware"
	"patrimon/internal/service"
)

// ReportHandler handles stored audit report endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// List handles GET /api/v1/reports
func (h *ReportHandler) List(c *gin.Context) {
	networkID, ok := resolveNetworkID(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	reports, total, err := h.reportService.List(c.Request.Context(), networkID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, reports, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// DownloadURL handles GET /api/v1/reports/:id/download
func (h *ReportHandler) DownloadURL(c *gin.Context) {
	networkID, ok := resolveNetworkID(c)
	if !ok {
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid report id")
		return
	}

	url, err := h.reportService.DownloadURL(c.Request.Context(), networkID, reportID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"url": url})
}

// Delete handles DELETE /api/v1/reports/:id
func (h *ReportHandler) Delete(c *gin.Context) {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid report id")
		return
	}

	if err := h.reportService.Delete(c.Request.Context(), adminID, reportID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "report deleted"})
}
