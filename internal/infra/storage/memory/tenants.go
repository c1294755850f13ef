package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/integrations/tenantservice"
)

// TenantDirectory справочник тенантов и типов сессий в памяти.
// Заменяет TenantService в тестах и при driver = "memory"
type TenantDirectory struct {
	store *Store
}

// PutTenant добавляет или заменяет тенанта
func (d *TenantDirectory) PutTenant(tenant domain.Tenant) {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	d.store.tenants[tenant.ID] = tenant
}

// PutSessionType добавляет или заменяет тип сессии
func (d *TenantDirectory) PutSessionType(sessionType domain.SessionType) {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	d.store.sessionTypes[sessionType.ID] = sessionType
}

// GetTenant получает тенанта по ID
func (d *TenantDirectory) GetTenant(_ context.Context, tenantID uuid.UUID) (*domain.Tenant, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	tenant, ok := d.store.tenants[tenantID]
	if !ok {
		return nil, tenantservice.ErrTenantNotFound
	}
	return &tenant, nil
}

// GetSessionType получает тип сессии тенанта
func (d *TenantDirectory) GetSessionType(_ context.Context, tenantID, sessionTypeID uuid.UUID) (*domain.SessionType, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	sessionType, ok := d.store.sessionTypes[sessionTypeID]
	if !ok || sessionType.TenantID != tenantID {
		return nil, tenantservice.ErrSessionTypeNotFound
	}
	return &sessionType, nil
}
