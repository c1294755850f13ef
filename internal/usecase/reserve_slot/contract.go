package reserve_slot

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	ListActiveOverlapping(ctx context.Context, filter domain.OverlapFilter) ([]domain.Booking, error)
}

// BlockedRepository интерфейс репозитория блокировок
type BlockedRepository interface {
	ListOverlapping(ctx context.Context, tenantID uuid.UUID, interval domain.Interval) ([]domain.BlockedInterval, error)
}

// WeeklyHoursProvider источник рабочих диапазонов тенанта
type WeeklyHoursProvider interface {
	GetEffectiveRanges(ctx context.Context, tenantID uuid.UUID, day domain.DayOfWeek) ([]domain.TimeRange, error)
}

// TenantDirectory интерфейс справочника тенантов и типов сессий
type TenantDirectory interface {
	GetTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error)
	GetSessionType(ctx context.Context, tenantID, sessionTypeID uuid.UUID) (*domain.SessionType, error)
}

// Locker взаимное исключение по ключам; возвращенная функция снимает все ключи
type Locker interface {
	Lock(ctx context.Context, keys ...string) (func(), error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события бронирований после коммита
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent)
}

// Metrics метрики резервирования
type Metrics interface {
	RecordReservation(outcome string)
	RecordLockWait(d time.Duration)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
