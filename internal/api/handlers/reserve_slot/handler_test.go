package reserve_slot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	reserveSlot "github.com/m04kA/SMC-BookingEngine/internal/usecase/reserve_slot"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
)

type stubUseCase struct {
	got  *reserveSlot.Request
	resp *reserveSlot.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *reserveSlot.Request) (*reserveSlot.Response, error) {
	s.got = req
	return s.resp, s.err
}

func newRequest(t *testing.T, customerID uuid.UUID, body interface{}) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(raw))
	if customerID != uuid.Nil {
		r = r.WithContext(middleware.WithActor(r.Context(), domain.Actor{UserID: customerID, Role: domain.RoleCustomer}))
	}
	return r
}

func TestHandle_Created(t *testing.T) {
	customerID := uuid.New()
	body := ReserveSlotRequest{TenantID: uuid.New(), SessionTypeID: uuid.New(), StartMs: 1741600800000, Participants: 2}
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	uc := &stubUseCase{resp: &reserveSlot.Response{
		ID:         uuid.New(),
		TenantID:   body.TenantID,
		CustomerID: customerID,
		StartMs:    body.StartMs,
		Status:     string(domain.StatusPendingPayment),
		CreatedAt:  now,
		UpdatedAt:  now,
	}}
	w := httptest.NewRecorder()

	NewHandler(uc, logger.NewNop()).Handle(w, newRequest(t, customerID, body))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, customerID, uc.got.CustomerID)
	assert.Equal(t, 2, uc.got.Participants)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(domain.StatusPendingPayment), resp.Status)
	assert.Equal(t, "2025-03-10T09:00:00Z", resp.CreatedAt)
}

func TestHandle_SlotUnavailableCarriesReason(t *testing.T) {
	uc := &stubUseCase{err: fmt.Errorf("wrapped: %w", &reserveSlot.SlotUnavailableError{Reason: domain.ReasonAtCapacity})}
	w := httptest.NewRecorder()

	NewHandler(uc, logger.NewNop()).Handle(w, newRequest(t, uuid.New(), ReserveSlotRequest{TenantID: uuid.New()}))

	require.Equal(t, http.StatusConflict, w.Code)
	var resp SlotUnavailableResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(domain.ReasonAtCapacity), resp.Reason)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"tenant not found", reserveSlot.ErrTenantNotFound, http.StatusNotFound},
		{"session type not found", reserveSlot.ErrSessionTypeNotFound, http.StatusNotFound},
		{"too far", reserveSlot.ErrDateTooFarInFuture, http.StatusBadRequest},
		{"unaligned", reserveSlot.ErrInvalidTimeSlot, http.StatusBadRequest},
		{"invalid input", reserveSlot.ErrInvalidInput, http.StatusBadRequest},
		{"lock timeout", reserveSlot.ErrLockTimeout, http.StatusServiceUnavailable},
		{"internal", reserveSlot.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewHandler(&stubUseCase{err: tt.err}, logger.NewNop()).
				Handle(w, newRequest(t, uuid.New(), ReserveSlotRequest{TenantID: uuid.New()}))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHandle_RejectsBeforeUseCase(t *testing.T) {
	uc := &stubUseCase{}
	h := NewHandler(uc, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, newRequest(t, uuid.Nil, ReserveSlotRequest{}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString(`{"customerId":"x"}`))
	r = r.WithContext(middleware.WithActor(r.Context(), domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}))
	h.Handle(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Nil(t, uc.got)
}
