package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// WeeklyHoursRepository репозиторий недельного расписания в памяти
type WeeklyHoursRepository struct {
	store *Store
}

// GetByTenant возвращает все правила тенанта, упорядоченные по дню и времени начала
func (r *WeeklyHoursRepository) GetByTenant(_ context.Context, tenantID uuid.UUID) ([]domain.WeeklyHoursRule, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rules := append([]domain.WeeklyHoursRule(nil), r.store.rules[tenantID]...)
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].DayOfWeek != rules[j].DayOfWeek {
			return rules[i].DayOfWeek < rules[j].DayOfWeek
		}
		return rules[i].StartTime.Minutes() < rules[j].StartTime.Minutes()
	})
	return rules, nil
}

// GetEnabledByDay возвращает включенные диапазоны на день недели
func (r *WeeklyHoursRepository) GetEnabledByDay(_ context.Context, tenantID uuid.UUID, day domain.DayOfWeek) ([]domain.TimeRange, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ranges := make([]domain.TimeRange, 0)
	for _, rule := range r.store.rules[tenantID] {
		if rule.Enabled && rule.DayOfWeek == day {
			ranges = append(ranges, rule.Range())
		}
	}
	domain.SortRanges(ranges)
	return ranges, nil
}

// ReplaceAll заменяет шаблон тенанта целиком одной записью в map
func (r *WeeklyHoursRepository) ReplaceAll(_ context.Context, tenantID uuid.UUID, rules []domain.WeeklyHoursRule) ([]domain.WeeklyHoursRule, error) {
	stored := make([]domain.WeeklyHoursRule, len(rules))
	for i, rule := range rules {
		if rule.ID == uuid.Nil {
			rule.ID = uuid.New()
		}
		rule.TenantID = tenantID
		stored[i] = rule
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.rules[tenantID] = stored
	return append([]domain.WeeklyHoursRule(nil), stored...), nil
}
