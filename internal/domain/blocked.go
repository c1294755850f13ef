package domain

import (
	"time"

	"github.com/google/uuid"
)

// BlockedInterval is an explicit unavailability window of a tenant.
type BlockedInterval struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Interval  Interval
	Reason    *string
	CreatedBy *uuid.UUID
	CreatedAt time.Time
}
