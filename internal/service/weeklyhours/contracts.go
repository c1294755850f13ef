package weeklyhours

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// WeeklyHoursRepository интерфейс репозитория недельного расписания
type WeeklyHoursRepository interface {
	GetByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.WeeklyHoursRule, error)
	GetEnabledByDay(ctx context.Context, tenantID uuid.UUID, day domain.DayOfWeek) ([]domain.TimeRange, error)
	ReplaceAll(ctx context.Context, tenantID uuid.UUID, rules []domain.WeeklyHoursRule) ([]domain.WeeklyHoursRule, error)
}

// TenantDirectory интерфейс справочника тенантов
type TenantDirectory interface {
	GetTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
