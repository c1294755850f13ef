package init_default_weekly_hours

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/service/weeklyhours"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgTenantNotFound  = "тенант не найден"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service WeeklyHoursService
	logger  Logger
}

func NewHandler(service WeeklyHoursService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/tenants/{tenantId}/weekly-hours/defaults
// Существующее расписание не перезаписывается
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.UUIDVar(r, "tenantId")
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/weekly-hours/defaults - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /tenants/{id}/weekly-hours/defaults - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.InitializeDefaults(r.Context(), tenantID, userID)
	if err != nil {
		switch {
		case errors.Is(err, weeklyhours.ErrTenantNotFound):
			h.logger.Warn("POST /tenants/{id}/weekly-hours/defaults - Tenant not found: tenant_id=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, weeklyhours.ErrAccessDenied):
			h.logger.Warn("POST /tenants/{id}/weekly-hours/defaults - Access denied: tenant_id=%s, user_id=%s", tenantID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /tenants/{id}/weekly-hours/defaults - Failed to initialize: tenant_id=%s, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /tenants/{id}/weekly-hours/defaults - Defaults ensured: tenant_id=%s, rules=%d",
		tenantID, len(result.Rules))
	handlers.RespondJSON(w, http.StatusOK, result)
}
