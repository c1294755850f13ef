package create_blocked_interval

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/service/blocks/models"
)

type BlocksService interface {
	Create(ctx context.Context, req *models.CreateBlockRequest) (*models.CreateBlockResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
