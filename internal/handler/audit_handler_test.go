package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"patrimon/internal/domain"
	"patrimon/internal/handler"
	"patrimon/internal/middleware"
	"patrimon/internal/service"
	"patrimon/mocks"
)

func setupAuditRouter(svc service.AuditService, networkID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextKeyNetworkID, networkID)
		c.Set(middleware.ContextKeyRole, string(domain.RoleOperator))
		c.Next()
	})
	h := handler.NewAuditHandler(svc)
	r.GET("/audits/rooms", h.ListRooms)
	r.POST("/audits/reconcile", h.Reconcile)
	return r
}

func TestAuditHandler_ListRooms(t *testing.T) {
	svc := new(mocks.MockAuditService)
	networkID := uuid.New()
	r := setupAuditRouter(svc, networkID)

	svc.On("ListRooms", mock.Anything, networkID, []uuid.UUID(nil)).Return(&service.RoomListing{
		Rooms: []domain.Room{{ID: "master_xlsx/Plan1", DisplayName: "Sala 12"}},
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/audits/rooms", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Rooms []domain.Room `json:"rooms"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data.Rooms, 1)
	assert.Equal(t, "Sala 12", resp.Data.Rooms[0].DisplayName)
}

func TestAuditHandler_Reconcile_StreamsArtifact(t *testing.T) {
	svc := new(mocks.MockAuditService)
	networkID := uuid.New()
	r := setupAuditRouter(svc, networkID)

	reportID := uuid.New()
	svc.On("Reconcile", mock.Anything, networkID, mock.Anything).Return(
		&domain.AuditReport{ID: reportID, Incomplete: true},
		&domain.ReportArtifact{
			Data:        []byte("zipbytes"),
			Filename:    "maria_sala_12_20260314_150926.zip",
			ContentType: "application/zip",
		}, nil)

	body, _ := json.Marshal(service.ReconcileInput{
		RoomID:      "master_xlsx/Plan1",
		AnalystName: "Maria",
		RawScan:     "A001",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/audits/reconcile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "maria_sala_12_20260314_150926.zip")
	assert.Equal(t, reportID.String(), w.Header().Get("X-Report-Id"))
	assert.Equal(t, "true", w.Header().Get("X-Report-Incomplete"))
	assert.Equal(t, "zipbytes", w.Body.String())
}

func TestAuditHandler_Reconcile_MapsDomainErrors(t *testing.T) {
	svc := new(mocks.MockAuditService)
	networkID := uuid.New()
	r := setupAuditRouter(svc, networkID)

	svc.On("Reconcile", mock.Anything, networkID, mock.Anything).
		Return(nil, nil, domain.ErrRoomNotFound)

	body, _ := json.Marshal(service.ReconcileInput{
		RoomID:      "master_xlsx/Inexistente",
		AnalystName: "Maria",
		RawScan:     "A001",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/audits/reconcile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "ROOM_NOT_FOUND", resp.Error.Code)
}
