package replace_weekly_hours

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/service/weeklyhours"
	"github.com/m04kA/SMC-BookingEngine/internal/service/weeklyhours/models"
)

const (
	msgInvalidTenantID    = "некорректный ID тенанта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgTenantNotFound     = "тенант не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректное расписание"
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

// Handle PUT /api/v1/tenants/{tenantId}/weekly-hours
// Расписание заменяется целиком, пустой список rules закрывает все дни
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.UUIDVar(r, "tenantId")
	if err != nil {
		h.logger.Warn("PUT /tenants/{id}/weekly-hours - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /tenants/{id}/weekly-hours - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req models.ReplaceWeeklyHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /tenants/{id}/weekly-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.TenantID = tenantID
	req.UserID = userID

	// Заменяем расписание (сервис сам проверит права менеджера)
	result, err := h.service.ReplaceAll(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, weeklyhours.ErrTenantNotFound):
			h.logger.Warn("PUT /tenants/{id}/weekly-hours - Tenant not found: tenant_id=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, weeklyhours.ErrAccessDenied):
			h.logger.Warn("PUT /tenants/{id}/weekly-hours - Access denied: tenant_id=%s, user_id=%s", tenantID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, weeklyhours.ErrInvalidInput):
			h.logger.Warn("PUT /tenants/{id}/weekly-hours - Invalid data: tenant_id=%s, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT /tenants/{id}/weekly-hours - Failed to replace weekly hours: tenant_id=%s, error=%v",
				tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /tenants/{id}/weekly-hours - Weekly hours replaced successfully: tenant_id=%s, rules=%d",
		tenantID, len(result.Rules))
	handlers.RespondJSON(w, http.StatusOK, result)
}
