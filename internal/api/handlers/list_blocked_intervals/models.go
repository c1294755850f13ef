package list_blocked_intervals

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/service/blocks/models"
)

// ToServiceRequest конвертирует query параметры from/to (мс Unix) в модель сервиса
func ToServiceRequest(tenantID, userID uuid.UUID, fromStr, toStr string) (*models.ListBlocksRequest, error) {
	if fromStr == "" || toStr == "" {
		return nil, fmt.Errorf("from and to are required")
	}

	from, err := strconv.ParseInt(fromStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}

	to, err := strconv.ParseInt(toStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	return &models.ListBlocksRequest{
		TenantID: tenantID,
		UserID:   userID,
		FromMs:   from,
		ToMs:     to,
	}, nil
}
