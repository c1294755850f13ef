package tenantservice

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// Tenant модель тенанта из TenantService
type Tenant struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Timezone   string      `json:"timezone"`
	ManagerIDs []uuid.UUID `json:"managerIds"`
}

// ToDomain конвертирует ответ сервиса в доменную модель
func (t *Tenant) ToDomain() *domain.Tenant {
	return &domain.Tenant{
		ID:         t.ID,
		Name:       t.Name,
		Timezone:   t.Timezone,
		ManagerIDs: t.ManagerIDs,
	}
}

// SessionType модель типа сессии из TenantService
type SessionType struct {
	ID              uuid.UUID `json:"id"`
	TenantID        uuid.UUID `json:"tenantId"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"durationMinutes"`
	Capacity        int       `json:"capacity"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency"`
	IsActive        bool      `json:"isActive"`
}

// ToDomain конвертирует ответ сервиса в доменную модель
func (s *SessionType) ToDomain() *domain.SessionType {
	return &domain.SessionType{
		ID:              s.ID,
		TenantID:        s.TenantID,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		Capacity:        s.Capacity,
		Price:           s.Price,
		Currency:        s.Currency,
		IsActive:        s.IsActive,
	}
}

// ErrorResponse модель ошибки от TenantService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
