package init_default_weekly_hours

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/service/weeklyhours/models"
)

type WeeklyHoursService interface {
	InitializeDefaults(ctx context.Context, tenantID, userID uuid.UUID) (*models.WeeklyHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
