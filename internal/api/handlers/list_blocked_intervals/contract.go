package list_blocked_intervals

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/service/blocks/models"
)

type BlocksService interface {
	ListOverlapping(ctx context.Context, req *models.ListBlocksRequest) (*models.BlockListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
