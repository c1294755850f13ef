package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPendingPayment BookingStatus = "PENDING_PAYMENT"
	StatusConfirmed      BookingStatus = "CONFIRMED"
	StatusPaymentFailed  BookingStatus = "PAYMENT_FAILED"
	StatusCancelled      BookingStatus = "CANCELLED"
)

// ActiveStatuses are the statuses that occupy capacity.
var ActiveStatuses = []BookingStatus{
	StatusPendingPayment,
	StatusConfirmed,
}

// transitions is the booking state machine. NONE -> PENDING_PAYMENT is the reservation itself.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPendingPayment: {StatusConfirmed, StatusPaymentFailed, StatusCancelled},
	StatusConfirmed:      {StatusCancelled},
}

// ParseBookingStatus validates a status string.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch status := BookingStatus(s); status {
	case StatusPendingPayment, StatusConfirmed, StatusPaymentFailed, StatusCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// IsActive reports whether bookings in this status hold capacity.
func (s BookingStatus) IsActive() bool {
	return s == StatusPendingPayment || s == StatusConfirmed
}

// CanTransitionTo reports whether the state machine allows s -> next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is a customer's claim on an interval of a session type.
type Booking struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	SessionTypeID uuid.UUID
	CustomerID    uuid.UUID
	Interval      Interval
	Participants  int
	Status        BookingStatus
	Notes         *string

	CancellationReason *string
	CancelledBy        *uuid.UUID
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies capacity
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// Seats returns the capacity the booking consumes. Missing participant counts count as one.
func (b *Booking) Seats() int {
	if b.Participants < DefaultParticipants {
		return DefaultParticipants
	}
	return b.Participants
}

// IsOwnedBy returns true if the booking was made by the given customer
func (b *Booking) IsOwnedBy(customerID uuid.UUID) bool {
	return b.CustomerID == customerID
}

// StatusChange describes a conditional status update of a booking.
// The update applies only while the booking is still in From.
type StatusChange struct {
	From   BookingStatus
	To     BookingStatus
	At     time.Time
	Reason *string
	By     *uuid.UUID
}

// Validate checks the transition against the state machine.
func (c StatusChange) Validate() error {
	if !c.From.CanTransitionTo(c.To) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, c.From, c.To)
	}
	return nil
}

// Apply copies the change onto b. Cancellation metadata is set only for CANCELLED.
func (c StatusChange) Apply(b *Booking) {
	b.Status = c.To
	b.UpdatedAt = c.At
	if c.To == StatusCancelled {
		at := c.At
		b.CancelledAt = &at
		b.CancellationReason = c.Reason
		b.CancelledBy = c.By
	}
}

// OverlapFilter selects active bookings of a tenant overlapping an interval.
// SessionTypeID = nil means any session type.
type OverlapFilter struct {
	TenantID      uuid.UUID
	SessionTypeID *uuid.UUID
	Interval      Interval
}

// Matches reports whether b satisfies the filter.
func (f OverlapFilter) Matches(b *Booking) bool {
	if b.TenantID != f.TenantID || !b.IsActive() {
		return false
	}
	if f.SessionTypeID != nil && b.SessionTypeID != *f.SessionTypeID {
		return false
	}
	return b.Interval.Overlaps(f.Interval)
}

// ListFilter narrows a tenant or customer booking listing.
// Without Status and IncludeInactive only active bookings are returned.
type ListFilter struct {
	Status          *BookingStatus
	IncludeInactive bool
	// EndsAfter keeps bookings that have not finished yet (upcoming listing).
	EndsAfter *Instant
	// Limit <= 0 means no limit.
	Limit int
}

// Statuses returns the statuses selected by the filter, nil means any.
func (f ListFilter) Statuses() []BookingStatus {
	switch {
	case f.Status != nil:
		return []BookingStatus{*f.Status}
	case f.IncludeInactive:
		return nil
	default:
		return ActiveStatuses
	}
}

// Matches reports whether b satisfies the filter.
func (f ListFilter) Matches(b *Booking) bool {
	if statuses := f.Statuses(); statuses != nil {
		found := false
		for _, s := range statuses {
			if b.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return f.EndsAfter == nil || b.Interval.End > *f.EndsAfter
}
