package reap_expired

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/service/bookings"
	"github.com/m04kA/SMC-BookingEngine/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "olderThanMinutes должен быть положительным"
)

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

// Handle POST /api/v1/internal/bookings/reap-expired
// Body: {"olderThanMinutes": 30, "limit": 500}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.ReapExpiredRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /internal/bookings/reap-expired - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ReapExpired(r.Context(), &req)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("POST /internal/bookings/reap-expired - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("POST /internal/bookings/reap-expired - Failed to reap bookings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/bookings/reap-expired - Reaped %d bookings older than %d minutes",
		result.Reaped, req.OlderThanMinutes)
	handlers.RespondJSON(w, http.StatusOK, result)
}
