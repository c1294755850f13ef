package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BookingEngine/internal/service/weeklyhours"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type captureMetrics struct {
	reasons map[string]int
}

func (m *captureMetrics) RecordSlots(reasons map[string]int) {
	m.reasons = reasons
}

type fixture struct {
	uc      *UseCase
	store   *memory.Store
	metrics *captureMetrics
	tenant  domain.Tenant
	session domain.SessionType
}

// Понедельник 2025-03-10, открыто 09:00-17:00 только по понедельникам
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	store := memory.NewStore()
	tenant := domain.Tenant{ID: uuid.New(), Timezone: "UTC"}
	session := domain.SessionType{
		ID:              uuid.New(),
		TenantID:        tenant.ID,
		DurationMinutes: 30,
		Capacity:        1,
		Price:           10,
		IsActive:        true,
	}
	store.Tenants().PutTenant(tenant)
	store.Tenants().PutSessionType(session)

	_, err := store.WeeklyHours().ReplaceAll(context.Background(), tenant.ID, []domain.WeeklyHoursRule{
		{TenantID: tenant.ID, DayOfWeek: domain.Monday, StartTime: "09:00", EndTime: "17:00", Enabled: true},
	})
	require.NoError(t, err)

	log := logger.NewNop()
	hours := weeklyhours.NewService(store.WeeklyHours(), store.Tenants(), memory.NewTxManager(), log)
	m := &captureMetrics{}

	uc := NewUseCase(store.Tenants(), hours, store.Blocks(), store.Bookings(), m, opts, log)
	uc.timeProvider = fixedTime{now: monday.Add(-12 * time.Hour)}

	return &fixture{uc: uc, store: store, metrics: m, tenant: tenant, session: session}
}

func (f *fixture) request(date time.Time) *Request {
	return &Request{TenantID: f.tenant.ID, SessionTypeID: f.session.ID, Date: date}
}

func slotAt(t *testing.T, resp *Response, start types.TimeString) Slot {
	t.Helper()
	for _, s := range resp.Slots {
		if s.StartTime == start {
			return s
		}
	}
	t.Fatalf("slot %s not found", start)
	return Slot{}
}

func TestExecute_ClosedDayIsOutsideHours(t *testing.T) {
	f := newFixture(t, Options{})

	resp, err := f.uc.Execute(context.Background(), f.request(monday.AddDate(0, 0, 1)))
	require.NoError(t, err)

	require.Len(t, resp.Slots, 48)
	for _, s := range resp.Slots {
		assert.False(t, s.Available)
		assert.Equal(t, string(domain.ReasonOutsideHours), s.Reason)
	}
	assert.Equal(t, 48, f.metrics.reasons[string(domain.ReasonOutsideHours)])
}

func TestExecute_OpenDay(t *testing.T) {
	f := newFixture(t, Options{})

	resp, err := f.uc.Execute(context.Background(), f.request(monday))
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, "UTC", resp.Timezone)
	assert.Equal(t, 30, resp.StepMinutes)
	assert.Equal(t, 1, resp.Capacity)

	available := 0
	for _, s := range resp.Slots {
		if s.Available {
			available++
			assert.Empty(t, s.Reason)
		}
	}
	// 09:00 ... 16:30
	assert.Equal(t, 16, available)
	assert.Equal(t, 16, f.metrics.reasons[""])

	first := slotAt(t, resp, "09:00")
	assert.Equal(t, monday.Add(9*time.Hour).UnixMilli(), first.StartMs)
	assert.Equal(t, monday.Add(9*time.Hour+30*time.Minute).UnixMilli(), first.EndMs)
	assert.False(t, slotAt(t, resp, "17:00").Available)
}

func TestExecute_BlockedInterval(t *testing.T) {
	f := newFixture(t, Options{})

	_, err := f.store.Blocks().Create(context.Background(), &domain.BlockedInterval{
		TenantID: f.tenant.ID,
		Interval: domain.Interval{
			Start: domain.InstantFromTime(monday.Add(10 * time.Hour)),
			End:   domain.InstantFromTime(monday.Add(10*time.Hour + 30*time.Minute)),
		},
	})
	require.NoError(t, err)

	resp, err := f.uc.Execute(context.Background(), f.request(monday))
	require.NoError(t, err)

	blocked := slotAt(t, resp, "10:00")
	assert.False(t, blocked.Available)
	assert.Equal(t, string(domain.ReasonBlocked), blocked.Reason)

	assert.True(t, slotAt(t, resp, "09:30").Available)
	assert.True(t, slotAt(t, resp, "10:30").Available)

	assert.Equal(t, []Window{
		{StartMs: monday.Add(9 * time.Hour).UnixMilli(), EndMs: monday.Add(10 * time.Hour).UnixMilli()},
		{StartMs: monday.Add(10*time.Hour + 30*time.Minute).UnixMilli(), EndMs: monday.Add(17 * time.Hour).UnixMilli()},
	}, resp.OpenWindows)
}

func TestExecute_ClosedDayHasNoOpenWindows(t *testing.T) {
	f := newFixture(t, Options{})

	resp, err := f.uc.Execute(context.Background(), f.request(monday.AddDate(0, 0, 1)))
	require.NoError(t, err)
	assert.Empty(t, resp.OpenWindows)
	assert.NotNil(t, resp.OpenWindows)
}

func TestExecute_BookingsOfOtherSessionTypesIgnored(t *testing.T) {
	f := newFixture(t, Options{})

	start := domain.InstantFromTime(monday.Add(11 * time.Hour))
	_, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		TenantID:      f.tenant.ID,
		SessionTypeID: uuid.New(),
		CustomerID:    uuid.New(),
		Interval:      domain.Interval{Start: start, End: start.AddMinutes(30)},
		Status:        domain.StatusConfirmed,
	})
	require.NoError(t, err)

	_, err = f.store.Bookings().Create(context.Background(), &domain.Booking{
		TenantID:      f.tenant.ID,
		SessionTypeID: f.session.ID,
		CustomerID:    uuid.New(),
		Interval:      domain.Interval{Start: start.AddMinutes(60), End: start.AddMinutes(90)},
		Status:        domain.StatusPendingPayment,
	})
	require.NoError(t, err)

	resp, err := f.uc.Execute(context.Background(), f.request(monday))
	require.NoError(t, err)

	assert.True(t, slotAt(t, resp, "11:00").Available)

	taken := slotAt(t, resp, "12:00")
	assert.False(t, taken.Available)
	assert.Equal(t, string(domain.ReasonAtCapacity), taken.Reason)
	assert.Equal(t, 0, taken.RemainingCapacity)
}

func TestExecute_PastDate(t *testing.T) {
	f := newFixture(t, Options{})

	resp, err := f.uc.Execute(context.Background(), f.request(monday.AddDate(0, 0, -7)))
	require.NoError(t, err)

	for _, s := range resp.Slots {
		assert.Equal(t, string(domain.ReasonPast), s.Reason)
	}
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(t, Options{MaxAdvanceBookingDays: 30})

	inactive := domain.SessionType{ID: uuid.New(), TenantID: f.tenant.ID, DurationMinutes: 30}
	f.store.Tenants().PutSessionType(inactive)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "missing tenant id",
			req:     &Request{SessionTypeID: f.session.ID, Date: monday},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing date",
			req:     &Request{TenantID: f.tenant.ID, SessionTypeID: f.session.ID},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown tenant",
			req:     &Request{TenantID: uuid.New(), SessionTypeID: f.session.ID, Date: monday},
			wantErr: ErrTenantNotFound,
		},
		{
			name:    "unknown session type",
			req:     &Request{TenantID: f.tenant.ID, SessionTypeID: uuid.New(), Date: monday},
			wantErr: ErrSessionTypeNotFound,
		},
		{
			name:    "inactive session type",
			req:     &Request{TenantID: f.tenant.ID, SessionTypeID: inactive.ID, Date: monday},
			wantErr: ErrSessionTypeNotFound,
		},
		{
			name:    "beyond booking horizon",
			req:     f.request(monday.AddDate(0, 0, 60)),
			wantErr: ErrDateTooFarInFuture,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_TenantTimezone(t *testing.T) {
	f := newFixture(t, Options{})

	tenant := domain.Tenant{ID: uuid.New(), Timezone: "Europe/Moscow"}
	session := f.session
	session.ID = uuid.New()
	session.TenantID = tenant.ID
	f.store.Tenants().PutTenant(tenant)
	f.store.Tenants().PutSessionType(session)

	_, err := f.store.WeeklyHours().ReplaceAll(context.Background(), tenant.ID, []domain.WeeklyHoursRule{
		{TenantID: tenant.ID, DayOfWeek: domain.Monday, StartTime: "09:00", EndTime: "17:00", Enabled: true},
	})
	require.NoError(t, err)

	resp, err := f.uc.Execute(context.Background(), &Request{TenantID: tenant.ID, SessionTypeID: session.ID, Date: monday})
	require.NoError(t, err)

	first := slotAt(t, resp, "09:00")
	assert.True(t, first.Available)
	// Москва UTC+3: 09:00 по местному времени = 06:00 UTC
	assert.Equal(t, monday.Add(6*time.Hour).UnixMilli(), first.StartMs)
}
