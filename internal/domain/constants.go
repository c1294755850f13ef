package domain

import "github.com/m04kA/SMC-BookingEngine/pkg/types"

// Default configuration values
const (
	DefaultSlotStepMinutes    = 30
	DefaultCapacity           = 1
	DefaultParticipants       = 1
	DefaultAdvanceBookingDays = 0 // 0 = unlimited
	DefaultPendingTTLMinutes  = 30

	DefaultOpeningTime types.TimeString = "09:00"
	DefaultClosingTime types.TimeString = "17:00"
)

// Business validation constants
const (
	MinSlotStepMinutes          = 5
	MaxSlotStepMinutes          = 240
	MaxSessionDurationMinutes   = 480 // 8 hours
	MaxCapacity                 = 1000
	MaxAdvanceBookingDays       = 365
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxBlockReasonLength        = 500
	MaxRulesPerDay              = 8
	MaxListLimit                = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ReapCancellationReason is stored on bookings cancelled by the expiry sweep.
const ReapCancellationReason = "payment not completed in time"
