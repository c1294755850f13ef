package blocks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BookingEngine/internal/service/blocks/models"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fixture struct {
	service *Service
	store   *memory.Store
	tenant  domain.Tenant
	manager uuid.UUID
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	manager := uuid.New()
	tenant := domain.Tenant{ID: uuid.New(), Timezone: "UTC", ManagerIDs: []uuid.UUID{manager}}
	store.Tenants().PutTenant(tenant)

	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	service := NewService(store.Blocks(), store.Bookings(), store.Tenants(), memory.NewTxManager(), logger.NewNop())
	service.timeProvider = fixedTime{now: now}

	return &fixture{service: service, store: store, tenant: tenant, manager: manager, now: now}
}

func (f *fixture) ms(hour, minute int) int64 {
	return int64(domain.InstantFromTime(time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)))
}

func (f *fixture) addBooking(t *testing.T, hour int, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	start := domain.Instant(f.ms(hour, 0))
	booking, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		TenantID:      f.tenant.ID,
		SessionTypeID: uuid.New(),
		CustomerID:    uuid.New(),
		Interval:      domain.Interval{Start: start, End: start.AddMinutes(30)},
		Status:        status,
		CreatedAt:     f.now,
	})
	require.NoError(t, err)
	return booking
}

func TestService_CreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reason := "staff meeting"

	created, err := f.service.Create(ctx, &models.CreateBlockRequest{
		TenantID: f.tenant.ID,
		UserID:   f.manager,
		StartMs:  f.ms(10, 0),
		EndMs:    f.ms(10, 30),
		Reason:   &reason,
	})
	require.NoError(t, err)
	assert.Empty(t, created.OverlappingBookingIDs)
	require.NotNil(t, created.Block.CreatedBy)
	assert.Equal(t, f.manager, *created.Block.CreatedBy)

	list, err := f.service.ListOverlapping(ctx, &models.ListBlocksRequest{
		TenantID: f.tenant.ID,
		UserID:   f.manager,
		FromMs:   f.ms(0, 0),
		ToMs:     f.ms(23, 0),
	})
	require.NoError(t, err)
	require.Len(t, list.Blocks, 1)
	assert.Equal(t, created.Block.ID, list.Blocks[0].ID)

	// Период, который заканчивается ровно в начале блокировки, ее не содержит
	list, err = f.service.ListOverlapping(ctx, &models.ListBlocksRequest{
		TenantID: f.tenant.ID,
		UserID:   f.manager,
		FromMs:   f.ms(9, 0),
		ToMs:     f.ms(10, 0),
	})
	require.NoError(t, err)
	assert.Empty(t, list.Blocks)
}

func TestService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, &models.CreateBlockRequest{
		TenantID: f.tenant.ID, UserID: f.manager, StartMs: f.ms(11, 0), EndMs: f.ms(10, 0),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.Create(ctx, &models.CreateBlockRequest{
		TenantID: f.tenant.ID, UserID: f.manager, StartMs: f.ms(8, 0), EndMs: f.ms(9, 0),
	})
	assert.ErrorIs(t, err, ErrBlockInPast)

	_, err = f.service.Create(ctx, &models.CreateBlockRequest{
		TenantID: f.tenant.ID, UserID: uuid.New(), StartMs: f.ms(10, 0), EndMs: f.ms(11, 0),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_CreateOverlappingBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	confirmed := f.addBooking(t, 14, domain.StatusConfirmed)
	f.addBooking(t, 15, domain.StatusCancelled)

	req := &models.CreateBlockRequest{
		TenantID: f.tenant.ID,
		UserID:   f.manager,
		StartMs:  f.ms(14, 0),
		EndMs:    f.ms(16, 0),
	}

	_, err := f.service.Create(ctx, req)
	assert.ErrorIs(t, err, ErrConflictsWithBookings)

	req.Force = true
	created, err := f.service.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{confirmed.ID}, created.OverlappingBookingIDs)

	// Бронирование не отменяется принудительной блокировкой
	booking, err := f.store.Bookings().GetByID(ctx, confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, booking.Status)

	// Отмененное бронирование не мешает блокировке
	_, err = f.service.Create(ctx, &models.CreateBlockRequest{
		TenantID: f.tenant.ID, UserID: f.manager, StartMs: f.ms(15, 0), EndMs: f.ms(15, 30),
	})
	assert.NoError(t, err)
}

func TestService_DeleteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, &models.CreateBlockRequest{
		TenantID: f.tenant.ID, UserID: f.manager, StartMs: f.ms(12, 0), EndMs: f.ms(13, 0),
	})
	require.NoError(t, err)

	req := &models.DeleteBlockRequest{TenantID: f.tenant.ID, BlockID: created.Block.ID, UserID: f.manager}
	require.NoError(t, f.service.Delete(ctx, req))
	require.NoError(t, f.service.Delete(ctx, req))

	list, err := f.service.ListOverlapping(ctx, &models.ListBlocksRequest{
		TenantID: f.tenant.ID, UserID: f.manager, FromMs: f.ms(0, 0), ToMs: f.ms(23, 0),
	})
	require.NoError(t, err)
	assert.Empty(t, list.Blocks)
}

func TestService_DeleteForeignBlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	otherManager := uuid.New()
	other := domain.Tenant{ID: uuid.New(), Timezone: "UTC", ManagerIDs: []uuid.UUID{otherManager}}
	f.store.Tenants().PutTenant(other)

	created, err := f.service.Create(ctx, &models.CreateBlockRequest{
		TenantID: other.ID, UserID: otherManager, StartMs: f.ms(12, 0), EndMs: f.ms(13, 0),
	})
	require.NoError(t, err)

	err = f.service.Delete(ctx, &models.DeleteBlockRequest{TenantID: f.tenant.ID, BlockID: created.Block.ID, UserID: f.manager})
	assert.ErrorIs(t, err, ErrBlockNotFound)

	_, err = f.store.Blocks().GetByID(ctx, created.Block.ID)
	assert.NoError(t, err)
}
