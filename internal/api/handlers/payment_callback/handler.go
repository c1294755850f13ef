package payment_callback

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/service/bookings"
	"github.com/m04kA/SMC-BookingEngine/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
)

type transitionFunc func(ctx context.Context, id uuid.UUID) (*models.PaymentCallbackResponse, error)

// Handler принимает колбэки платежного сервиса.
// Опоздавший колбэк подтверждается с stale=true, чтобы платежный сервис не повторял его.
type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleConfirmed POST /api/v1/internal/bookings/{bookingId}/payment-confirmed
func (h *Handler) HandleConfirmed(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "POST /internal/bookings/{id}/payment-confirmed", h.service.ConfirmPayment)
}

// HandleFailed POST /api/v1/internal/bookings/{bookingId}/payment-failed
func (h *Handler) HandleFailed(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "POST /internal/bookings/{id}/payment-failed", h.service.FailPayment)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, route string, transition transitionFunc) {
	bookingID, err := handlers.UUIDVar(r, "bookingId")
	if err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := transition(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrStaleTransition):
			h.logger.Warn("%s - Stale callback acknowledged: booking_id=%s, error=%v", route, bookingID, err)
			handlers.RespondJSON(w, http.StatusOK, models.PaymentCallbackResponse{
				Acknowledged: true,
				Stale:        true,
				BookingID:    bookingID,
			})

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("%s - Booking not found: booking_id=%s", route, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("%s - Failed to apply callback: booking_id=%s, error=%v", route, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Callback applied: booking_id=%s, status=%s", route, bookingID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
