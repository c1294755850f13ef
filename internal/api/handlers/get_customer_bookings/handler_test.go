package get_customer_bookings

import (
	"context"
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
	got *models.ListCustomerBookingsRequest
	err error
}

func (s *stubService) ListByCustomer(_ context.Context, req *models.ListCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{}}, nil
}

func listRequest(customerID, userID uuid.UUID, query string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/customers/"+customerID.String()+"/bookings"+query, nil)
	r = mux.SetURLVars(r, map[string]string{"customerId": customerID.String()})
	return r.WithContext(middleware.WithActor(r.Context(), domain.Actor{UserID: userID, Role: domain.RoleCustomer}))
}

func TestHandle(t *testing.T) {
	customerID := uuid.New()
	svc := &stubService{}
	w := httptest.NewRecorder()

	NewHandler(svc, logger.NewNop()).Handle(w, listRequest(customerID, customerID, "?status=CANCELLED&includeInactive=true"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	require.NotNil(t, svc.got)
	assert.Equal(t, customerID, svc.got.CustomerID)
	require.NotNil(t, svc.got.Status)
	assert.Equal(t, "CANCELLED", *svc.got.Status)
	assert.True(t, svc.got.IncludeInactive)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid filter", bookings.ErrInvalidInput, http.StatusBadRequest},
		{"foreign customer", bookings.ErrAccessDenied, http.StatusForbidden},
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

func TestHandle_InvalidCustomerID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/customers/abc/bookings", nil)
	r = mux.SetURLVars(r, map[string]string{"customerId": "abc"})
	w := httptest.NewRecorder()

	NewHandler(&stubService{}, logger.NewNop()).Handle(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
