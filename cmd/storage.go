package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/config"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	blockedRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/blocked"
	bookingRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BookingEngine/internal/infra/storage/memory"
	weeklyHoursRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/weeklyhours"
	"github.com/m04kA/SMC-BookingEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
	"github.com/m04kA/SMC-BookingEngine/pkg/metrics"
	"github.com/m04kA/SMC-BookingEngine/pkg/txmanager"
)

type bookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	ListActiveOverlapping(ctx context.Context, filter domain.OverlapFilter) ([]domain.Booking, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, filter domain.ListFilter) ([]domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, filter domain.ListFilter) ([]domain.Booking, error)
	ListStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]domain.Booking, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, change domain.StatusChange) (*domain.Booking, error)
}

type blockStore interface {
	Create(ctx context.Context, block *domain.BlockedInterval) (*domain.BlockedInterval, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BlockedInterval, error)
	ListOverlapping(ctx context.Context, tenantID uuid.UUID, interval domain.Interval) ([]domain.BlockedInterval, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type weeklyHoursStore interface {
	GetByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.WeeklyHoursRule, error)
	GetEnabledByDay(ctx context.Context, tenantID uuid.UUID, day domain.DayOfWeek) ([]domain.TimeRange, error)
	ReplaceAll(ctx context.Context, tenantID uuid.UUID, rules []domain.WeeklyHoursRule) ([]domain.WeeklyHoursRule, error)
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// storage набор репозиториев выбранного драйвера
type storage struct {
	bookings    bookingStore
	blocks      blockStore
	weeklyHours weeklyHoursStore
	tx          txManager

	// memory заполнен только для driver = "memory"
	memory *memory.Store

	close func()
}

// openStorage подключает Postgres или создает хранилище в памяти
func openStorage(cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		store := memory.NewStore()
		log.Warn("Using in-memory storage: data is lost on restart and reservations are serialized only within this process")
		return &storage{
			bookings:    store.Bookings(),
			blocks:      store.Blocks(),
			weeklyHours: store.WeeklyHours(),
			tx:          memory.NewTxManager(),
			memory:      store,
			close:       func() {},
		}, nil
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка просто проксирует вызовы
	stopStatsCh := make(chan struct{})
	wrappedDB := dbmetrics.WrapWithDefault(db, m, cfg.Metrics.ServiceName, stopStatsCh)

	return &storage{
		bookings:    bookingRepo.NewRepository(wrappedDB),
		blocks:      blockedRepo.NewRepository(wrappedDB),
		weeklyHours: weeklyHoursRepo.NewRepository(wrappedDB),
		tx:          txmanager.NewTransactionManager(wrappedDB),
		close: func() {
			close(stopStatsCh)
			_ = db.Close()
		},
	}, nil
}
