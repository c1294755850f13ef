package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionType is a bookable service of a tenant.
type SessionType struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	Name            string
	DurationMinutes int
	Capacity        int
	Price           float64
	Currency        string
	IsActive        bool
}

// Duration returns the session length.
func (s *SessionType) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// EffectiveCapacity treats a missing capacity as one participant per slot.
func (s *SessionType) EffectiveCapacity() int {
	if s.Capacity < 1 {
		return DefaultCapacity
	}
	return s.Capacity
}

// IsFree reports whether the session needs no payment.
func (s *SessionType) IsFree() bool {
	return s.Price <= 0
}

// BelongsTo reports whether the session type is owned by the tenant.
func (s *SessionType) BelongsTo(tenantID uuid.UUID) bool {
	return s.TenantID == tenantID
}

// Validate checks that the session can be turned into slots.
func (s *SessionType) Validate(maxDurationMinutes int) error {
	if s.DurationMinutes <= 0 || s.DurationMinutes > maxDurationMinutes {
		return fmt.Errorf("%w: duration %d minutes is out of range (1..%d)",
			ErrValidation, s.DurationMinutes, maxDurationMinutes)
	}
	if s.Capacity > MaxCapacity {
		return fmt.Errorf("%w: capacity %d exceeds %d", ErrValidation, s.Capacity, MaxCapacity)
	}
	return nil
}
