package replace_weekly_hours

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/service/weeklyhours/models"
)

type WeeklyHoursService interface {
	ReplaceAll(ctx context.Context, req *models.ReplaceWeeklyHoursRequest) (*models.WeeklyHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
