package get_available_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// TenantDirectory интерфейс справочника тенантов и типов сессий
type TenantDirectory interface {
	GetTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error)
	GetSessionType(ctx context.Context, tenantID, sessionTypeID uuid.UUID) (*domain.SessionType, error)
}

// WeeklyHoursProvider источник рабочих диапазонов тенанта
type WeeklyHoursProvider interface {
	GetEffectiveRanges(ctx context.Context, tenantID uuid.UUID, day domain.DayOfWeek) ([]domain.TimeRange, error)
}

// BlockedRepository интерфейс репозитория блокировок
type BlockedRepository interface {
	ListOverlapping(ctx context.Context, tenantID uuid.UUID, interval domain.Interval) ([]domain.BlockedInterval, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListActiveOverlapping(ctx context.Context, filter domain.OverlapFilter) ([]domain.Booking, error)
}

// Metrics метрики генерации слотов
type Metrics interface {
	RecordSlots(reasons map[string]int)
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
