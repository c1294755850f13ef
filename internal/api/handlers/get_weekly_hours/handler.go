package get_weekly_hours

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/service/weeklyhours"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgTenantNotFound  = "тенант не найден"
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

// Handle GET /api/v1/tenants/{tenantId}/weekly-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.UUIDVar(r, "tenantId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/weekly-hours - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	result, err := h.service.GetWeeklyHours(r.Context(), tenantID)
	if err != nil {
		if errors.Is(err, weeklyhours.ErrTenantNotFound) {
			h.logger.Warn("GET /tenants/{id}/weekly-hours - Tenant not found: tenant_id=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)
			return
		}
		h.logger.Error("GET /tenants/{id}/weekly-hours - Failed to get weekly hours: tenant_id=%s, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /tenants/{id}/weekly-hours - Weekly hours retrieved successfully: tenant_id=%s, rules=%d",
		tenantID, len(result.Rules))
	handlers.RespondJSON(w, http.StatusOK, result)
}
