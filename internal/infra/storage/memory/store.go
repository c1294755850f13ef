// Package memory is a process-local implementation of the storage layer.
// It backs driver = "memory" and the service and usecase tests. Errors are the
// sentinels of the Postgres repositories, so callers cannot tell the two apart.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// Store хранит все данные под одним RWMutex
type Store struct {
	mu sync.RWMutex

	bookings     map[uuid.UUID]domain.Booking
	blocks       map[uuid.UUID]domain.BlockedInterval
	rules        map[uuid.UUID][]domain.WeeklyHoursRule
	tenants      map[uuid.UUID]domain.Tenant
	sessionTypes map[uuid.UUID]domain.SessionType
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		bookings:     make(map[uuid.UUID]domain.Booking),
		blocks:       make(map[uuid.UUID]domain.BlockedInterval),
		rules:        make(map[uuid.UUID][]domain.WeeklyHoursRule),
		tenants:      make(map[uuid.UUID]domain.Tenant),
		sessionTypes: make(map[uuid.UUID]domain.SessionType),
	}
}

// Bookings возвращает репозиторий бронирований поверх хранилища
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

// Blocks возвращает репозиторий блокировок поверх хранилища
func (s *Store) Blocks() *BlockedRepository {
	return &BlockedRepository{store: s}
}

// WeeklyHours возвращает репозиторий недельного расписания поверх хранилища
func (s *Store) WeeklyHours() *WeeklyHoursRepository {
	return &WeeklyHoursRepository{store: s}
}

// Tenants возвращает справочник тенантов поверх хранилища
func (s *Store) Tenants() *TenantDirectory {
	return &TenantDirectory{store: s}
}

// TxManager выполняет функцию без транзакции.
// Каждая операция репозитория атомарна сама по себе, а резервирование
// сериализуется блокировкой по ключам
type TxManager struct{}

// NewTxManager создает менеджер транзакций для хранилища в памяти
func NewTxManager() *TxManager {
	return &TxManager{}
}

// Do выполняет fn
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// DoSerializable выполняет fn
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// DoReadOnly выполняет fn
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
