package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"patrimon/internal/middleware"
	"patrimon/internal/service"
)

// NetworkHandler handles audit network endpoints.
type NetworkHandler struct {
	networkService service.NetworkService
}

// NewNetworkHandler creates a new NetworkHandler.
func NewNetworkHandler(networkService service.NetworkService) *NetworkHandler {
	return &NetworkHandler{networkService: networkService}
}

// Create handles POST /api/v1/networks
func (h *NetworkHandler) Create(c *gin.Context) {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var input service.CreateNetworkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	network, err := h.networkService.Create(c.Request.Context(), adminID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, network)
}

// List handles GET /api/v1/networks
func (h *NetworkHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	networks, total, err := h.networkService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, networks, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListMine handles GET /api/v1/networks/mine
func (h *NetworkHandler) ListMine(c *gin.Context) {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	networks, err := h.networkService.ListMine(c.Request.Context(), adminID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, networks)
}

// Join handles POST /api/v1/networks/join
func (h *NetworkHandler) Join(c *gin.Context) {
	var input service.JoinNetworkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	network, tokenPair, err := h.networkService.Join(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"network": network, "tokens": tokenPair})
}

// Delete handles DELETE /api/v1/networks/:id
func (h *NetworkHandler) Delete(c *gin.Context) {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	networkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid network id")
		return
	}

	if err := h.networkService.Delete(c.Request.Context(), adminID, networkID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "network deleted"})
}
