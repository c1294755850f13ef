package get_weekly_hours

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/service/weeklyhours/models"
)

type WeeklyHoursService interface {
	GetWeeklyHours(ctx context.Context, tenantID uuid.UUID) (*models.WeeklyHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
