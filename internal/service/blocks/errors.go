package blocks

import "errors"

var (
	// ErrTenantNotFound возвращается, когда тенант не найден
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrBlockNotFound возвращается, когда блокировка не найдена у тенанта
	ErrBlockNotFound = errors.New("blocked interval not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrBlockInPast возвращается при попытке заблокировать прошедшее время
	ErrBlockInPast = errors.New("cannot block the past")

	// ErrConflictsWithBookings возвращается, когда блокировка пересекается с активными бронированиями
	ErrConflictsWithBookings = errors.New("blocked interval overlaps active bookings")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
