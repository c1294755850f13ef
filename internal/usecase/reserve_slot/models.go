package reserve_slot

import (
	"time"

	"github.com/google/uuid"
)

// Reservation outcomes for metrics
const (
	OutcomeCreated     = "created"
	OutcomeUnavailable = "unavailable"
	OutcomeRejected    = "rejected"
	OutcomeLockTimeout = "lock_timeout"
	OutcomeError       = "error"
)

// Options настройки резервирования
type Options struct {
	Step                  time.Duration // Шаг сетки стартов
	MaxSessionMinutes     int           // Максимальная длительность сессии, задает ширину окна блокировки
	MaxAdvanceBookingDays int           // 0 - без ограничения
	AutoConfirmFree       bool          // Бесплатные сессии сразу получают статус CONFIRMED
	LockWait              time.Duration // Сколько ждать блокировку, 0 - пока жив ctx запроса
}

// Request модель запроса на резервирование слота
type Request struct {
	TenantID      uuid.UUID // ID тенанта
	SessionTypeID uuid.UUID // ID типа сессии
	CustomerID    uuid.UUID // ID клиента
	StartMs       int64     // Начало слота, мс Unix
	Participants  int       // Количество участников (0 = 1)
	Notes         *string   // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              uuid.UUID // ID созданного бронирования
	TenantID        uuid.UUID
	SessionTypeID   uuid.UUID
	CustomerID      uuid.UUID
	StartMs         int64
	EndMs           int64
	Participants    int
	DurationMinutes int
	Status          string

	// Денормализованные данные
	SessionName string  // Название типа сессии
	Price       float64 // Цена сессии
	Currency    string
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
