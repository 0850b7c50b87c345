package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"patrimon/internal/middleware"
	"patrimon/internal/service"
)

// AuditHandler handles room listing and reconciliation endpoints.
type AuditHandler struct {
	auditService service.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// resolveNetworkID picks the network from the operator token, or from the
// network_id query parameter for admin sessions.
func resolveNetworkID(c *gin.Context) (uuid.UUID, bool) {
	if id, err := middleware.GetNetworkID(c); err == nil {
		return id, true
	}
	if raw := c.Query("network_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return id, true
		}
	}
	RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "network context is required")
	return uuid.Nil, false
}

// parseFileIDs reads an ordered comma-separated file_ids parameter.
func parseFileIDs(raw string) ([]uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid file id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ListRooms handles GET /api/v1/audits/rooms
func (h *AuditHandler) ListRooms(c *gin.Context) {
	networkID, ok := resolveNetworkID(c)
	if !ok {
		return
	}

	fileIDs, err := parseFileIDs(c.Query("file_ids"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	listing, err := h.auditService.ListRooms(c.Request.Context(), networkID, fileIDs)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, listing)
}

// Reconcile handles POST /api/v1/audits/reconcile and streams the rendered
// artifact back as a download.
func (h *AuditHandler) Reconcile(c *gin.Context) {
	networkID, ok := resolveNetworkID(c)
	if !ok {
		return
	}

	var input service.ReconcileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	record, artifact, err := h.auditService.Reconcile(c.Request.Context(), networkID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Header("X-Report-Id", record.ID.String())
	if record.Incomplete {
		c.Header("X-Report-Incomplete", "true")
	}
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}
