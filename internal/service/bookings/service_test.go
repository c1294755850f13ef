package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BookingEngine/internal/service/bookings/models"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
	"github.com/m04kA/SMC-BookingEngine/pkg/metrics"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type capturePublisher struct {
	mu     sync.Mutex
	events []domain.BookingEvent
}

func (p *capturePublisher) Publish(_ context.Context, event domain.BookingEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	service   *Service
	store     *memory.Store
	publisher *capturePublisher
	tenant    domain.Tenant
	manager   uuid.UUID
	customer  uuid.UUID
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	manager := uuid.New()
	tenant := domain.Tenant{ID: uuid.New(), Timezone: "UTC", ManagerIDs: []uuid.UUID{manager}}
	store.Tenants().PutTenant(tenant)

	publisher := &capturePublisher{}
	var noMetrics *metrics.Metrics
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	service := NewService(store.Bookings(), store.Tenants(), publisher, noMetrics, logger.NewNop())
	service.timeProvider = fixedTime{now: now}

	return &fixture{
		service:   service,
		store:     store,
		publisher: publisher,
		tenant:    tenant,
		manager:   manager,
		customer:  uuid.New(),
		now:       now,
	}
}

func (f *fixture) addBooking(t *testing.T, status domain.BookingStatus, createdAt time.Time) *domain.Booking {
	t.Helper()
	start := domain.InstantFromTime(f.now.Add(24 * time.Hour))
	booking, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		TenantID:      f.tenant.ID,
		SessionTypeID: uuid.New(),
		CustomerID:    f.customer,
		Interval:      domain.Interval{Start: start, End: start.AddMinutes(30)},
		Status:        status,
		CreatedAt:     createdAt,
	})
	require.NoError(t, err)
	return booking
}

func TestService_ConfirmPaymentIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.addBooking(t, domain.StatusPendingPayment, f.now)

	first, err := f.service.ConfirmPayment(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), first.Status)
	assert.False(t, first.Stale)

	second, err := f.service.ConfirmPayment(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), second.Status)

	assert.Equal(t, []domain.EventType{domain.EventBookingConfirmed}, f.publisher.types())
}

func TestService_StalePaymentCallbacks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cancelled := f.addBooking(t, domain.StatusCancelled, f.now)
	_, err := f.service.ConfirmPayment(ctx, cancelled.ID)
	assert.ErrorIs(t, err, ErrStaleTransition)

	failed := f.addBooking(t, domain.StatusPaymentFailed, f.now)
	_, err = f.service.ConfirmPayment(ctx, failed.ID)
	assert.ErrorIs(t, err, ErrStaleTransition)

	confirmed := f.addBooking(t, domain.StatusConfirmed, f.now)
	_, err = f.service.FailPayment(ctx, confirmed.ID)
	assert.ErrorIs(t, err, ErrStaleTransition)

	_, err = f.service.ConfirmPayment(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)

	assert.Empty(t, f.publisher.types())
}

func TestService_FailPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.addBooking(t, domain.StatusPendingPayment, f.now)

	resp, err := f.service.FailPayment(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPaymentFailed), resp.Status)

	_, err = f.service.FailPayment(ctx, booking.ID)
	require.NoError(t, err)

	assert.Equal(t, []domain.EventType{domain.EventBookingPaymentFailed}, f.publisher.types())
}

func TestService_Cancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reason := "can't make it"

	booking := f.addBooking(t, domain.StatusConfirmed, f.now)

	_, err := f.service.Cancel(ctx, booking.ID, &models.CancelBookingRequest{
		Actor: domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer},
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := f.service.Cancel(ctx, booking.ID, &models.CancelBookingRequest{
		Actor:              domain.Actor{UserID: f.customer, Role: domain.RoleCustomer},
		CancellationReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancelledBy)
	assert.Equal(t, f.customer, *resp.CancelledBy)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, reason, *resp.CancellationReason)
	assert.NotNil(t, resp.CancelledAt)

	// Повторная отмена менеджером ничего не меняет
	again, err := f.service.Cancel(ctx, booking.ID, &models.CancelBookingRequest{
		Actor: domain.Actor{UserID: f.manager, Role: domain.RoleBusiness},
	})
	require.NoError(t, err)
	assert.Equal(t, f.customer, *again.CancelledBy)

	assert.Equal(t, []domain.EventType{domain.EventBookingCancelled}, f.publisher.types())
}

func TestService_CancelPaymentFailed(t *testing.T) {
	f := newFixture(t)
	booking := f.addBooking(t, domain.StatusPaymentFailed, f.now)

	_, err := f.service.Cancel(context.Background(), booking.ID, &models.CancelBookingRequest{
		Actor: domain.Actor{UserID: f.manager, Role: domain.RoleBusiness},
	})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestService_ReapExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expired := f.addBooking(t, domain.StatusPendingPayment, f.now.Add(-45*time.Minute))
	fresh := f.addBooking(t, domain.StatusPendingPayment, f.now.Add(-10*time.Minute))
	paid := f.addBooking(t, domain.StatusConfirmed, f.now.Add(-2*time.Hour))

	resp, err := f.service.ReapExpired(ctx, &models.ReapExpiredRequest{OlderThanMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Reaped)
	assert.Equal(t, []uuid.UUID{expired.ID}, resp.BookingIDs)

	got, err := f.store.Bookings().GetByID(ctx, expired.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	require.NotNil(t, got.CancellationReason)
	assert.Equal(t, domain.ReapCancellationReason, *got.CancellationReason)
	assert.Nil(t, got.CancelledBy)

	got, err = f.store.Bookings().GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingPayment, got.Status)

	got, err = f.store.Bookings().GetByID(ctx, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)

	// Поздний колбэк для отмененного бронирования - устаревший
	_, err = f.service.ConfirmPayment(ctx, expired.ID)
	assert.ErrorIs(t, err, ErrStaleTransition)

	_, err = f.service.ReapExpired(ctx, &models.ReapExpiredRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetByIDAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.addBooking(t, domain.StatusPendingPayment, f.now)

	_, err := f.service.GetByID(ctx, booking.ID, domain.Actor{UserID: f.customer})
	require.NoError(t, err)

	_, err = f.service.GetByID(ctx, booking.ID, domain.Actor{UserID: f.manager, Role: domain.RoleBusiness})
	require.NoError(t, err)

	_, err = f.service.GetByID(ctx, booking.ID, domain.Actor{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_ListByTenant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.addBooking(t, domain.StatusPendingPayment, f.now)
	cancelled := f.addBooking(t, domain.StatusCancelled, f.now)

	start := domain.InstantFromTime(f.now.Add(-2 * time.Hour))
	finished, err := f.store.Bookings().Create(ctx, &domain.Booking{
		TenantID:      f.tenant.ID,
		SessionTypeID: uuid.New(),
		CustomerID:    uuid.New(),
		Interval:      domain.Interval{Start: start, End: start.AddMinutes(30)},
		Status:        domain.StatusConfirmed,
		CreatedAt:     f.now.Add(-24 * time.Hour),
	})
	require.NoError(t, err)

	manager := domain.Actor{UserID: f.manager, Role: domain.RoleBusiness}
	ids := func(resp *models.BookingListResponse) []uuid.UUID {
		out := make([]uuid.UUID, 0, len(resp.Bookings))
		for _, b := range resp.Bookings {
			out = append(out, b.ID)
		}
		return out
	}

	t.Run("active ordered by start", func(t *testing.T) {
		resp, err := f.service.ListByTenant(ctx, &models.ListTenantBookingsRequest{Actor: manager, TenantID: f.tenant.ID})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{finished.ID, pending.ID}, ids(resp))
	})

	t.Run("upcoming", func(t *testing.T) {
		resp, err := f.service.ListByTenant(ctx, &models.ListTenantBookingsRequest{
			Actor:       manager,
			TenantID:    f.tenant.ID,
			ListOptions: models.ListOptions{Upcoming: true},
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{pending.ID}, ids(resp))
	})

	t.Run("by status", func(t *testing.T) {
		status := string(domain.StatusCancelled)
		resp, err := f.service.ListByTenant(ctx, &models.ListTenantBookingsRequest{
			Actor:       manager,
			TenantID:    f.tenant.ID,
			ListOptions: models.ListOptions{Status: &status},
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{cancelled.ID}, ids(resp))
	})

	t.Run("errors", func(t *testing.T) {
		bad := "UNKNOWN"
		tests := []struct {
			name    string
			req     *models.ListTenantBookingsRequest
			wantErr error
		}{
			{
				name:    "customer is not a manager",
				req:     &models.ListTenantBookingsRequest{Actor: domain.Actor{UserID: f.customer}, TenantID: f.tenant.ID},
				wantErr: ErrAccessDenied,
			},
			{
				name:    "unknown tenant",
				req:     &models.ListTenantBookingsRequest{Actor: manager, TenantID: uuid.New()},
				wantErr: ErrTenantNotFound,
			},
			{
				name: "unknown status",
				req: &models.ListTenantBookingsRequest{
					Actor: manager, TenantID: f.tenant.ID, ListOptions: models.ListOptions{Status: &bad},
				},
				wantErr: ErrInvalidInput,
			},
			{
				name: "limit too large",
				req: &models.ListTenantBookingsRequest{
					Actor: manager, TenantID: f.tenant.ID, ListOptions: models.ListOptions{Limit: domain.MaxListLimit + 1},
				},
				wantErr: ErrInvalidInput,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.service.ListByTenant(ctx, tt.req)
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}
	})
}

func TestService_ListByCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	own := f.addBooking(t, domain.StatusConfirmed, f.now)
	f.addBooking(t, domain.StatusPaymentFailed, f.now)

	resp, err := f.service.ListByCustomer(ctx, &models.ListCustomerBookingsRequest{
		Actor:      domain.Actor{UserID: f.customer},
		CustomerID: f.customer,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, own.ID, resp.Bookings[0].ID)

	all, err := f.service.ListByCustomer(ctx, &models.ListCustomerBookingsRequest{
		Actor:       domain.Actor{UserID: f.customer},
		CustomerID:  f.customer,
		ListOptions: models.ListOptions{IncludeInactive: true},
	})
	require.NoError(t, err)
	assert.Len(t, all.Bookings, 2)

	_, err = f.service.ListByCustomer(ctx, &models.ListCustomerBookingsRequest{
		Actor:      domain.Actor{UserID: f.manager, Role: domain.RoleBusiness},
		CustomerID: f.customer,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	empty, err := f.service.ListByCustomer(ctx, &models.ListCustomerBookingsRequest{
		Actor:      domain.SystemActor(),
		CustomerID: uuid.New(),
	})
	require.NoError(t, err)
	assert.NotNil(t, empty.Bookings)
	assert.Empty(t, empty.Bookings)
}
