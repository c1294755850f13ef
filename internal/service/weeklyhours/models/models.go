package models

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// Request модели

// RuleRequest правило недельного расписания в запросе
type RuleRequest struct {
	DayOfWeek string `json:"dayOfWeek"` // "MONDAY" или "MON"
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "17:00"
	Enabled   bool   `json:"enabled"`
}

// ReplaceWeeklyHoursRequest запрос на полную замену расписания
type ReplaceWeeklyHoursRequest struct {
	TenantID uuid.UUID     `json:"-"`
	UserID   uuid.UUID     `json:"-"`
	Rules    []RuleRequest `json:"rules"`
}

// ToDomainRules конвертирует правила запроса в доменные правила.
// Ошибки разбора оборачивают domain.ErrValidation
func (r *ReplaceWeeklyHoursRequest) ToDomainRules() ([]domain.WeeklyHoursRule, error) {
	rules := make([]domain.WeeklyHoursRule, 0, len(r.Rules))
	for i, rule := range r.Rules {
		day, err := domain.ParseDayOfWeek(rule.DayOfWeek)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		start, err := types.ParseTimeString(rule.StartTime)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w: startTime: %v", i, domain.ErrInvalidTimeRange, err)
		}
		end, err := types.ParseTimeString(rule.EndTime)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w: endTime: %v", i, domain.ErrInvalidTimeRange, err)
		}

		rules = append(rules, domain.WeeklyHoursRule{
			TenantID:  r.TenantID,
			DayOfWeek: day,
			StartTime: start,
			EndTime:   end,
			Enabled:   rule.Enabled,
		})
	}
	return rules, nil
}

// Response модели

// RuleResponse правило недельного расписания
type RuleResponse struct {
	ID        uuid.UUID `json:"id"`
	DayOfWeek string    `json:"dayOfWeek"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Enabled   bool      `json:"enabled"`
}

// RangeResponse рабочий диапазон дня
type RangeResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeeklyHoursResponse расписание тенанта
type WeeklyHoursResponse struct {
	TenantID uuid.UUID      `json:"tenantId"`
	Timezone string         `json:"timezone"`
	Rules    []RuleResponse `json:"rules"`
	// Schedule только включенные диапазоны по дням, дни без диапазонов присутствуют с пустым списком
	Schedule map[string][]RangeResponse `json:"schedule"`
}

// Методы конвертации

// FromDomainRules конвертирует правила в DTO
func FromDomainRules(tenant *domain.Tenant, rules []domain.WeeklyHoursRule) *WeeklyHoursResponse {
	resp := &WeeklyHoursResponse{
		TenantID: tenant.ID,
		Timezone: tenant.Timezone,
		Rules:    make([]RuleResponse, 0, len(rules)),
		Schedule: make(map[string][]RangeResponse, len(domain.AllDays)),
	}

	for _, rule := range rules {
		resp.Rules = append(resp.Rules, RuleResponse{
			ID:        rule.ID,
			DayOfWeek: rule.DayOfWeek.String(),
			StartTime: rule.StartTime.String(),
			EndTime:   rule.EndTime.String(),
			Enabled:   rule.Enabled,
		})
	}

	schedule := domain.ScheduleFromRules(rules)
	for _, day := range domain.AllDays {
		ranges := make([]RangeResponse, 0, len(schedule[day]))
		for _, r := range schedule[day] {
			ranges = append(ranges, RangeResponse{Start: r.Start.String(), End: r.End.String()})
		}
		resp.Schedule[day.String()] = ranges
	}

	return resp
}
