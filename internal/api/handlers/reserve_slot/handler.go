package reserve_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	reserveSlot "github.com/m04kA/SMC-BookingEngine/internal/usecase/reserve_slot"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgSlotNotAvailable    = "выбранный временной слот недоступен"
	msgTenantNotFound      = "тенант не найден"
	msgSessionTypeNotFound = "тип сессии не найден"
	msgDateTooFar          = "дата бронирования слишком далеко в будущем"
	msgInvalidTimeSlot     = "время начала не совпадает с сеткой слотов"
	msgInvalidInput        = "некорректные данные бронирования"
	msgLockTimeout         = "слот сейчас бронируется другим клиентом, повторите попытку"
)

type Handler struct {
	useCase ReserveSlotUseCase
	logger  Logger
}

func NewHandler(useCase ReserveSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ReserveSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(customerID))
	if err != nil {
		switch {
		case errors.Is(err, reserveSlot.ErrSlotUnavailable):
			reason, _ := reserveSlot.UnavailableReason(err)
			h.logger.Warn("POST /bookings - Slot not available: customer_id=%s, tenant_id=%s, start_ms=%d, reason=%s",
				customerID, req.TenantID, req.StartMs, reason)
			handlers.RespondJSON(w, http.StatusConflict, SlotUnavailableResponse{
				Code:    http.StatusConflict,
				Message: msgSlotNotAvailable,
				Reason:  string(reason),
			})

		case errors.Is(err, reserveSlot.ErrTenantNotFound):
			h.logger.Warn("POST /bookings - Tenant not found: tenant_id=%s", req.TenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, reserveSlot.ErrSessionTypeNotFound):
			h.logger.Warn("POST /bookings - Session type not found: tenant_id=%s, session_type_id=%s",
				req.TenantID, req.SessionTypeID)
			handlers.RespondNotFound(w, msgSessionTypeNotFound)

		case errors.Is(err, reserveSlot.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: customer_id=%s, tenant_id=%s", customerID, req.TenantID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, reserveSlot.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: customer_id=%s, start_ms=%d", customerID, req.StartMs)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, reserveSlot.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, reserveSlot.ErrLockTimeout):
			h.logger.Warn("POST /bookings - Lock timeout: tenant_id=%s, start_ms=%d", req.TenantID, req.StartMs)
			handlers.RespondServiceUnavailable(w, msgLockTimeout)

		default:
			h.logger.Error("POST /bookings - Failed to reserve slot: customer_id=%s, tenant_id=%s, error=%v",
				customerID, req.TenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, customer_id=%s, tenant_id=%s, status=%s",
		result.ID, customerID, req.TenantID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
