package create_blocked_interval

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/service/blocks"
	"github.com/m04kA/SMC-BookingEngine/internal/service/blocks/models"
)

const (
	msgInvalidTenantID    = "некорректный ID тенанта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgTenantNotFound     = "тенант не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректный интервал блокировки"
	msgBlockInPast        = "нельзя заблокировать прошедшее время"
	msgConflicts          = "интервал пересекается с активными бронированиями, используйте force"
)

type Handler struct {
	service BlocksService
	logger  Logger
}

func NewHandler(service BlocksService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/tenants/{tenantId}/blocked-intervals
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.UUIDVar(r, "tenantId")
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/blocked-intervals - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /tenants/{id}/blocked-intervals - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tenants/{id}/blocked-intervals - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.TenantID = tenantID
	req.UserID = userID

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, blocks.ErrInvalidInput):
			h.logger.Warn("POST /tenants/{id}/blocked-intervals - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, blocks.ErrBlockInPast):
			h.logger.Warn("POST /tenants/{id}/blocked-intervals - Block in past: tenant_id=%s, start_ms=%d", tenantID, req.StartMs)
			handlers.RespondBadRequest(w, msgBlockInPast)

		case errors.Is(err, blocks.ErrTenantNotFound):
			h.logger.Warn("POST /tenants/{id}/blocked-intervals - Tenant not found: tenant_id=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, blocks.ErrAccessDenied):
			h.logger.Warn("POST /tenants/{id}/blocked-intervals - Access denied: tenant_id=%s, user_id=%s", tenantID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, blocks.ErrConflictsWithBookings):
			h.logger.Warn("POST /tenants/{id}/blocked-intervals - Conflicts with bookings: tenant_id=%s", tenantID)
			handlers.RespondConflict(w, msgConflicts)

		default:
			h.logger.Error("POST /tenants/{id}/blocked-intervals - Failed to create block: tenant_id=%s, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /tenants/{id}/blocked-intervals - Block created successfully: tenant_id=%s, block_id=%s, overlapping=%d",
		tenantID, result.Block.ID, len(result.OverlappingBookingIDs))
	handlers.RespondJSON(w, http.StatusCreated, result)
}
