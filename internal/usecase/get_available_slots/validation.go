package get_available_slots

import (
	"fmt"
	"time"

	"github.com/google/uuid"

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

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
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

// validateHorizon проверяет, что дата не дальше maxAdvanceDays от сегодняшнего дня тенанта
// Прошедшие даты допустимы: все их слоты просто будут PAST
func validateHorizon(date time.Time, now time.Time, loc *time.Location, maxAdvanceDays int) error {
	// Если maxAdvanceDays = 0, нет ограничений на дату
	if maxAdvanceDays == 0 {
		return nil
	}

	localNow := now.In(loc)
	today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)
	maxDate := today.AddDate(0, 0, maxAdvanceDays)

	requestDate := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	if requestDate.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, maxAdvanceDays)
	}

	return nil
}
