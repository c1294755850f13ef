package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Tenant is a business account as seen by the engine.
type Tenant struct {
	ID         uuid.UUID
	Name       string
	Timezone   string
	ManagerIDs []uuid.UUID
}

// Location resolves the tenant's IANA timezone.
func (t *Tenant) Location() (*time.Location, error) {
	if t.Timezone == "" {
		return nil, fmt.Errorf("%w: tenant %s has no timezone", ErrInvalidTimezone, t.ID)
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, t.Timezone, err)
	}
	return loc, nil
}

// IsManager reports whether the user may manage the tenant's schedule and bookings.
func (t *Tenant) IsManager(userID uuid.UUID) bool {
	for _, id := range t.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
