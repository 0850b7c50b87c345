package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"patrimon/internal/middleware"
	"patrimon/internal/service"
)

// MasterHandler handles master spreadsheet endpoints.
type MasterHandler struct {
	masterService service.MasterService
}

// NewMasterHandler creates a new MasterHandler.
func NewMasterHandler(masterService service.MasterService) *MasterHandler {
	return &MasterHandler{masterService: masterService}
}

// Upload handles POST /api/v1/masters/upload
func (h *MasterHandler) Upload(c *gin.Context) {
	ownerID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	meta, err := h.masterService.Upload(c.Request.Context(), ownerID, service.UploadMasterInput{
		FileName: header.Filename,
		Size:     header.Size,
		City:     c.PostForm("city"),
		Reader:   file,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, meta)
}

// List handles GET /api/v1/masters
func (h *MasterHandler) List(c *gin.Context) {
	ownerID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	offset, limit := parsePagination(c)
	files, total, err := h.masterService.List(c.Request.Context(), ownerID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, files, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// DownloadURL handles GET /api/v1/masters/:id/download
func (h *MasterHandler) DownloadURL(c *gin.Context) {
	ownerID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid file id")
		return
	}

	url, err := h.masterService.DownloadURL(c.Request.Context(), ownerID, fileID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"url": url})
}

// Delete handles DELETE /api/v1/masters/:id
func (h *MasterHandler) Delete(c *gin.Context) {
	ownerID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid file id")
		return
	}

	if err := h.masterService.Delete(c.Request.Context(), ownerID, fileID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "file deleted"})
}
