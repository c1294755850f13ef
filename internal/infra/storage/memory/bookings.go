package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/booking"
)

// BookingRepository репозиторий бронирований в памяти
type BookingRepository struct {
	store *Store
}

// Create сохраняет бронирование
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: Create - %v", bookingRepo.ErrExecQuery, err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	if _, exists := r.store.bookings[booking.ID]; exists {
		return nil, fmt.Errorf("%w: Create - duplicate id %s", bookingRepo.ErrExecQuery, booking.ID)
	}
	if booking.UpdatedAt.IsZero() {
		booking.UpdatedAt = booking.CreatedAt
	}
	booking.Participants = booking.Seats()

	r.store.bookings[booking.ID] = *booking
	return booking, nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &booking, nil
}

// ListActiveOverlapping возвращает активные бронирования, пересекающиеся с интервалом фильтра
func (r *BookingRepository) ListActiveOverlapping(_ context.Context, filter domain.OverlapFilter) ([]domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.Booking, 0)
	for _, b := range r.store.bookings {
		if filter.Matches(&b) {
			result = append(result, b)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Interval.Start < result[j].Interval.Start
	})
	return result, nil
}

// ListByTenant возвращает бронирования тенанта по фильтру, упорядоченные по времени начала
func (r *BookingRepository) ListByTenant(_ context.Context, tenantID uuid.UUID, filter domain.ListFilter) ([]domain.Booking, error) {
	return r.list(func(b *domain.Booking) bool { return b.TenantID == tenantID }, filter), nil
}

// ListByCustomer возвращает бронирования клиента по фильтру, упорядоченные по времени начала
func (r *BookingRepository) ListByCustomer(_ context.Context, customerID uuid.UUID, filter domain.ListFilter) ([]domain.Booking, error) {
	return r.list(func(b *domain.Booking) bool { return b.CustomerID == customerID }, filter), nil
}

func (r *BookingRepository) list(owned func(b *domain.Booking) bool, filter domain.ListFilter) []domain.Booking {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.Booking, 0)
	for _, b := range r.store.bookings {
		if owned(&b) && filter.Matches(&b) {
			result = append(result, b)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Interval.Start != result[j].Interval.Start {
			return result[i].Interval.Start < result[j].Interval.Start
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result
}

// ListStalePending возвращает PENDING_PAYMENT бронирования, созданные раньше createdBefore
func (r *BookingRepository) ListStalePending(_ context.Context, createdBefore time.Time, limit int) ([]domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.Booking, 0)
	for _, b := range r.store.bookings {
		if b.Status == domain.StatusPendingPayment && b.CreatedAt.Before(createdBefore) {
			result = append(result, b)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// TransitionStatus меняет статус, только если бронирование все еще в change.From
func (r *BookingRepository) TransitionStatus(_ context.Context, id uuid.UUID, change domain.StatusChange) (*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if booking.Status != change.From {
		return nil, bookingRepo.ErrStatusConflict
	}

	change.Apply(&booking)
	r.store.bookings[id] = booking
	return &booking, nil
}
