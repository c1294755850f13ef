package payment_callback

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/service/bookings/models"
)

type BookingService interface {
	ConfirmPayment(ctx context.Context, id uuid.UUID) (*models.PaymentCallbackResponse, error)
	FailPayment(ctx context.Context, id uuid.UUID) (*models.PaymentCallbackResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
