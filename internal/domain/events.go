package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a booking lifecycle event. Values double as topic names.
type EventType string

const (
	EventBookingConfirmed     EventType = "booking.confirmed"
	EventBookingCancelled     EventType = "booking.cancelled"
	EventBookingPaymentFailed EventType = "booking.payment_failed"
)

// BookingEvent is emitted after a committed status transition.
type BookingEvent struct {
	ID            uuid.UUID     `json:"eventId"`
	Type          EventType     `json:"type"`
	OccurredAt    time.Time     `json:"occurredAt"`
	BookingID     uuid.UUID     `json:"bookingId"`
	TenantID      uuid.UUID     `json:"tenantId"`
	SessionTypeID uuid.UUID     `json:"sessionTypeId"`
	CustomerID    uuid.UUID     `json:"customerId"`
	StartMs       int64         `json:"startMs"`
	EndMs         int64         `json:"endMs"`
	Participants  int           `json:"participants"`
	Status        BookingStatus `json:"status"`
	Reason        *string       `json:"reason,omitempty"`
}

// NewBookingEvent snapshots b into an event of the given type.
func NewBookingEvent(eventType EventType, b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		ID:            uuid.New(),
		Type:          eventType,
		OccurredAt:    at,
		BookingID:     b.ID,
		TenantID:      b.TenantID,
		SessionTypeID: b.SessionTypeID,
		CustomerID:    b.CustomerID,
		StartMs:       int64(b.Interval.Start),
		EndMs:         int64(b.Interval.End),
		Participants:  b.Seats(),
		Status:        b.Status,
		Reason:        b.CancellationReason,
	}
}

// EventForStatus returns the event emitted when a booking enters status.
func EventForStatus(status BookingStatus) (EventType, bool) {
	switch status {
	case StatusConfirmed:
		return EventBookingConfirmed, true
	case StatusCancelled:
		return EventBookingCancelled, true
	case StatusPaymentFailed:
		return EventBookingPaymentFailed, true
	default:
		return "", false
	}
}
