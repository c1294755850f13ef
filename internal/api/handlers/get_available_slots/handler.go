package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-BookingEngine/internal/usecase/get_available_slots"
)

const (
	msgInvalidTenantID      = "некорректный ID тенанта"
	msgInvalidSessionTypeID = "некорректный ID типа сессии"
	msgMissingDate          = "дата обязательна"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgTenantNotFound       = "тенант не найден"
	msgSessionTypeNotFound  = "тип сессии не найден"
	msgDateTooFar           = "дата слишком далеко в будущем"
	msgInvalidInput         = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/session-types/{sessionTypeId}/available-slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем tenantId из URL
	tenantID, err := handlers.UUIDVar(r, "tenantId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/session-types/{id}/available-slots - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	// Извлекаем sessionTypeId из URL
	sessionTypeID, err := handlers.UUIDVar(r, "sessionTypeId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/session-types/{id}/available-slots - Invalid session type ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionTypeID)
		return
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /tenants/{id}/session-types/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(tenantID, sessionTypeID, dateStr)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/session-types/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrTenantNotFound):
			h.logger.Warn("GET /tenants/{id}/session-types/{id}/available-slots - Tenant not found: tenant_id=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, getAvailableSlots.ErrSessionTypeNotFound):
			h.logger.Warn("GET /tenants/{id}/session-types/{id}/available-slots - Session type not found: tenant_id=%s, session_type_id=%s",
				tenantID, sessionTypeID)
			handlers.RespondNotFound(w, msgSessionTypeNotFound)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /tenants/{id}/session-types/{id}/available-slots - Date too far: tenant_id=%s, date=%s",
				tenantID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/session-types/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /tenants/{id}/session-types/{id}/available-slots - Failed to get slots: tenant_id=%s, session_type_id=%s, error=%v",
				tenantID, sessionTypeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /tenants/{id}/session-types/{id}/available-slots - Slots retrieved successfully: tenant_id=%s, session_type_id=%s, slots_count=%d",
		tenantID, sessionTypeID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
