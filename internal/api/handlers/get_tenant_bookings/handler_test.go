package get_tenant_bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/bookings"
	"github.com/m04kA/SMC-BookingEngine/internal/service/bookings/models"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
)

type stubService struct {
	got *models.ListTenantBookingsRequest
	err error
}

func (s *stubService) ListByTenant(_ context.Context, req *models.ListTenantBookingsRequest) (*models.BookingListResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: uuid.New(), TenantID: req.TenantID}}}, nil
}

func listRequest(tenantID, managerID uuid.UUID, query string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/"+tenantID.String()+"/bookings"+query, nil)
	r = mux.SetURLVars(r, map[string]string{"tenantId": tenantID.String()})
	return r.WithContext(middleware.WithActor(r.Context(), domain.Actor{UserID: managerID, Role: domain.RoleBusiness}))
}

func TestHandle(t *testing.T) {
	tenantID, managerID := uuid.New(), uuid.New()
	svc := &stubService{}
	w := httptest.NewRecorder()

	NewHandler(svc, logger.NewNop()).Handle(w, listRequest(tenantID, managerID, "?upcoming=true&limit=10"))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, tenantID, svc.got.TenantID)
	assert.Equal(t, managerID, svc.got.Actor.UserID)
	assert.True(t, svc.got.Upcoming)
	assert.Equal(t, 10, svc.got.Limit)

	var body []models.BookingResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, tenantID, body[0].TenantID)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid filter", bookings.ErrInvalidInput, http.StatusBadRequest},
		{"tenant not found", bookings.ErrTenantNotFound, http.StatusNotFound},
		{"not a manager", bookings.ErrAccessDenied, http.StatusForbidden},
		{"internal", bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewHandler(&stubService{err: tt.err}, logger.NewNop()).Handle(w, listRequest(uuid.New(), uuid.New(), ""))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHandle_BadRequest(t *testing.T) {
	svc := &stubService{}
	w := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(w, listRequest(uuid.New(), uuid.New(), "?upcoming=soon"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.got)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/x/bookings", nil)
	r = mux.SetURLVars(r, map[string]string{"tenantId": uuid.New().String()})
	w = httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
