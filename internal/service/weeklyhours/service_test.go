package weeklyhours

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BookingEngine/internal/service/weeklyhours/models"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

type fixture struct {
	service   *Service
	tenant    domain.Tenant
	manager   uuid.UUID
	rulesRepo *memory.WeeklyHoursRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	manager := uuid.New()
	tenant := domain.Tenant{ID: uuid.New(), Name: "Studio", Timezone: "Europe/Berlin", ManagerIDs: []uuid.UUID{manager}}
	store.Tenants().PutTenant(tenant)

	return &fixture{
		service:   NewService(store.WeeklyHours(), store.Tenants(), memory.NewTxManager(), logger.NewNop()),
		tenant:    tenant,
		manager:   manager,
		rulesRepo: store.WeeklyHours(),
	}
}

func TestService_ReplaceAllRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.service.ReplaceAll(ctx, &models.ReplaceWeeklyHoursRequest{
		TenantID: f.tenant.ID,
		UserID:   f.manager,
		Rules: []models.RuleRequest{
			{DayOfWeek: "MONDAY", StartTime: "14:00", EndTime: "18:00", Enabled: true},
			{DayOfWeek: "mon", StartTime: "09:00", EndTime: "12:00", Enabled: true},
			{DayOfWeek: "TUESDAY", StartTime: "09:00", EndTime: "17:00", Enabled: false},
		},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Rules, 3)
	assert.Equal(t, []models.RangeResponse{{Start: "09:00", End: "12:00"}, {Start: "14:00", End: "18:00"}}, resp.Schedule["MONDAY"])
	assert.Empty(t, resp.Schedule["TUESDAY"])

	monday, err := f.service.GetEffectiveRanges(ctx, f.tenant.ID, domain.Monday)
	require.NoError(t, err)
	assert.Equal(t, []domain.TimeRange{
		{Start: types.TimeString("09:00"), End: types.TimeString("12:00")},
		{Start: types.TimeString("14:00"), End: types.TimeString("18:00")},
	}, monday)

	tuesday, err := f.service.GetEffectiveRanges(ctx, f.tenant.ID, domain.Tuesday)
	require.NoError(t, err)
	assert.Empty(t, tuesday)
}

func TestService_ReplaceAllRejectsInvalidRulesAtomically(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.InitializeDefaults(ctx, f.tenant.ID, f.manager)
	require.NoError(t, err)

	cases := []struct {
		name  string
		rules []models.RuleRequest
	}{
		{"start equals end", []models.RuleRequest{{DayOfWeek: "MONDAY", StartTime: "10:00", EndTime: "10:00", Enabled: true}}},
		{"start after end", []models.RuleRequest{{DayOfWeek: "MONDAY", StartTime: "18:00", EndTime: "10:00", Enabled: true}}},
		{"bad day", []models.RuleRequest{{DayOfWeek: "FUNDAY", StartTime: "10:00", EndTime: "11:00", Enabled: true}}},
		{"bad time", []models.RuleRequest{{DayOfWeek: "MONDAY", StartTime: "25:00", EndTime: "26:00", Enabled: true}}},
		{"overlap", []models.RuleRequest{
			{DayOfWeek: "FRIDAY", StartTime: "09:00", EndTime: "12:00", Enabled: true},
			{DayOfWeek: "FRIDAY", StartTime: "11:00", EndTime: "13:00", Enabled: true},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.ReplaceAll(ctx, &models.ReplaceWeeklyHoursRequest{
				TenantID: f.tenant.ID,
				UserID:   f.manager,
				Rules:    tc.rules,
			})
			assert.ErrorIs(t, err, ErrInvalidInput)

			// Предыдущий шаблон остался нетронутым
			ranges, err := f.service.GetEffectiveRanges(ctx, f.tenant.ID, domain.Monday)
			require.NoError(t, err)
			assert.Equal(t, []domain.TimeRange{{Start: "09:00", End: "17:00"}}, ranges)
		})
	}
}

func TestService_ReplaceAllAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.ReplaceAll(ctx, &models.ReplaceWeeklyHoursRequest{TenantID: f.tenant.ID, UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.service.ReplaceAll(ctx, &models.ReplaceWeeklyHoursRequest{TenantID: uuid.New(), UserID: f.manager})
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestService_InitializeDefaultsKeepsExisting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.ReplaceAll(ctx, &models.ReplaceWeeklyHoursRequest{
		TenantID: f.tenant.ID,
		UserID:   f.manager,
		Rules:    []models.RuleRequest{{DayOfWeek: "SUNDAY", StartTime: "10:00", EndTime: "14:00", Enabled: true}},
	})
	require.NoError(t, err)

	resp, err := f.service.InitializeDefaults(ctx, f.tenant.ID, f.manager)
	require.NoError(t, err)
	require.Len(t, resp.Rules, 1)
	assert.Equal(t, "SUNDAY", resp.Rules[0].DayOfWeek)
}

func TestService_InitializeDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.service.InitializeDefaults(ctx, f.tenant.ID, f.manager)
	require.NoError(t, err)
	assert.Len(t, resp.Rules, 7)
	assert.Equal(t, "Europe/Berlin", resp.Timezone)
	assert.Len(t, resp.Schedule["FRIDAY"], 1)
	assert.Empty(t, resp.Schedule["SATURDAY"])

	rules, err := f.rulesRepo.GetByTenant(ctx, f.tenant.ID)
	require.NoError(t, err)
	assert.Len(t, rules, 7)
}
