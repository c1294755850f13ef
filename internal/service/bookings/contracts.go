package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, filter domain.ListFilter) ([]domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, filter domain.ListFilter) ([]domain.Booking, error)
	ListStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]domain.Booking, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, change domain.StatusChange) (*domain.Booking, error)
}

// TenantDirectory интерфейс справочника тенантов
type TenantDirectory interface {
	GetTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error)
}

// EventPublisher публикует доменные события после фиксации перехода
// Публикация не возвращает ошибку: доставка не влияет на результат операции
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent)
}

// Metrics метрики переходов статусов
type Metrics interface {
	RecordTransition(from, to string)
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
