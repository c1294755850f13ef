package reserve_slot

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/availability"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID == uuid.Nil {
		return fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	if req.SessionTypeID == uuid.Nil {
		return fmt.Errorf("%w: sessionTypeID is required", ErrInvalidInput)
	}

	if req.CustomerID == uuid.Nil {
		return fmt.Errorf("%w: customerID is required", ErrInvalidInput)
	}

	if req.StartMs <= 0 {
		return fmt.Errorf("%w: startMs must be positive", ErrInvalidInput)
	}

	if req.Participants < 0 || req.Participants > domain.MaxCapacity {
		return fmt.Errorf("%w: participants must be between 1 and %d", ErrInvalidInput, domain.MaxCapacity)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateSessionType проверяет, что тип сессии можно бронировать
func validateSessionType(sessionType *domain.SessionType, tenantID uuid.UUID, maxMinutes int) error {
	if !sessionType.BelongsTo(tenantID) || !sessionType.IsActive {
		return ErrSessionTypeNotFound
	}
	if err := sessionType.Validate(maxMinutes); err != nil {
		return fmt.Errorf("%w: session type %s: %v", ErrInternal, sessionType.ID, err)
	}
	return nil
}

// validateParticipants проверяет, что группа помещается в сессию целиком
func validateParticipants(participants int, sessionType *domain.SessionType) error {
	if participants > sessionType.EffectiveCapacity() {
		return fmt.Errorf("%w: %d participants exceed session capacity %d",
			ErrInvalidInput, participants, sessionType.EffectiveCapacity())
	}
	return nil
}

// validateHorizon проверяет, что день старта не дальше maxAdvanceDays от сегодняшнего дня тенанта
func validateHorizon(loc *time.Location, start domain.Instant, now time.Time, maxAdvanceDays int) error {
	// Если maxAdvanceDays = 0, нет ограничений на дату
	if maxAdvanceDays == 0 {
		return nil
	}

	today := availability.LocalDate(loc, domain.InstantFromTime(now))
	maxDate := today.AddDate(0, 0, maxAdvanceDays)

	if availability.LocalDate(loc, start).After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, maxAdvanceDays)
	}

	return nil
}
