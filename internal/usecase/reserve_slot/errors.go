package reserve_slot

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	// ErrTenantNotFound возвращается, когда тенант не найден
	ErrTenantNotFound = errors.New("reserve_slot: tenant not found")

	// ErrSessionTypeNotFound возвращается, когда тип сессии не найден, неактивен или принадлежит другому тенанту
	ErrSessionTypeNotFound = errors.New("reserve_slot: session type not found")

	// ErrSlotUnavailable возвращается, когда слот нельзя забронировать; причина в SlotUnavailableError
	ErrSlotUnavailable = errors.New("reserve_slot: slot is not available")

	// ErrInvalidTimeSlot возвращается, когда время начала не попадает на сетку шага
	ErrInvalidTimeSlot = errors.New("reserve_slot: invalid time slot")

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт бронирования
	ErrDateTooFarInFuture = errors.New("reserve_slot: date is too far in the future")

	// ErrLockTimeout возвращается, когда не удалось взять блокировку слота до отмены контекста
	ErrLockTimeout = errors.New("reserve_slot: timed out waiting for slot lock")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_slot: internal error")
)

// SlotUnavailableError несет причину недоступности слота
type SlotUnavailableError struct {
	Reason            domain.SlotReason
	RemainingCapacity int
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSlotUnavailable, e.Reason)
}

func (e *SlotUnavailableError) Unwrap() error {
	return ErrSlotUnavailable
}

// UnavailableReason извлекает причину недоступности из ошибки Execute
func UnavailableReason(err error) (domain.SlotReason, bool) {
	var unavailable *SlotUnavailableError
	if errors.As(err, &unavailable) {
		return unavailable.Reason, true
	}
	return domain.ReasonNone, false
}
