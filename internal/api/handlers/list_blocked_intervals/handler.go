package list_blocked_intervals

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/service/blocks"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgInvalidParams   = "некорректные параметры запроса, ожидаются from и to в миллисекундах"
	msgTenantNotFound  = "тенант не найден"
	msgForbidden       = "доступ запрещен"
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

// Handle GET /api/v1/tenants/{tenantId}/blocked-intervals
// Query params: from, to (required, мс Unix)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.UUIDVar(r, "tenantId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/blocked-intervals - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /tenants/{id}/blocked-intervals - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq, err := ToServiceRequest(tenantID, userID, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/blocked-intervals - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Получаем блокировки (сервис сам проверит права менеджера)
	result, err := h.service.ListOverlapping(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, blocks.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/blocked-intervals - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, blocks.ErrTenantNotFound):
			h.logger.Warn("GET /tenants/{id}/blocked-intervals - Tenant not found: tenant_id=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, blocks.ErrAccessDenied):
			h.logger.Warn("GET /tenants/{id}/blocked-intervals - Access denied: tenant_id=%s, user_id=%s",
				tenantID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /tenants/{id}/blocked-intervals - Failed to get blocks: tenant_id=%s, error=%v",
				tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/blocked-intervals - Blocks retrieved successfully: tenant_id=%s, count=%d",
		tenantID, len(result.Blocks))
	handlers.RespondJSON(w, http.StatusOK, result)
}
