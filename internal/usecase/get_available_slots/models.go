package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// Options настройки генерации слотов
type Options struct {
	Step                  time.Duration // Шаг пробных стартов (по умолчанию 30 минут)
	MaxSessionMinutes     int           // Максимально допустимая длительность сессии
	MaxAdvanceBookingDays int           // 0 - без ограничения
}

// Request модель запроса на получение слотов
type Request struct {
	TenantID      uuid.UUID // ID тенанта
	SessionTypeID uuid.UUID // ID типа сессии
	Date          time.Time // Календарная дата тенанта, используются только год, месяц и день
}

// Response модель ответа со слотами дня
type Response struct {
	TenantID        uuid.UUID
	SessionTypeID   uuid.UUID
	Date            string // "2025-03-10"
	Timezone        string
	StepMinutes     int
	DurationMinutes int
	Capacity        int
	OpenWindows     []Window // Рабочие диапазоны дня за вычетом блокировок
	Slots           []Slot
}

// Window открытый промежуток рабочего дня
type Window struct {
	StartMs int64
	EndMs   int64
}

// Slot модель временного слота
type Slot struct {
	StartMs           int64
	EndMs             int64
	StartTime         types.TimeString // Время начала по часам тенанта, например "10:00"
	Available         bool
	Reason            string // Пусто для доступного слота
	RemainingCapacity int
}
