package weeklyhours

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	tenantClient "github.com/m04kA/SMC-BookingEngine/internal/integrations/tenantservice"
	"github.com/m04kA/SMC-BookingEngine/internal/service/weeklyhours/models"
)

// Service сервис недельного расписания тенанта
type Service struct {
	rulesRepo WeeklyHoursRepository
	tenants   TenantDirectory
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	rulesRepo WeeklyHoursRepository,
	tenants TenantDirectory,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		rulesRepo: rulesRepo,
		tenants:   tenants,
		txManager: txManager,
		logger:    logger,
	}
}

// GetEffectiveRanges возвращает включенные диапазоны тенанта на день недели
// Пустой результат означает, что в этот день тенант закрыт
func (s *Service) GetEffectiveRanges(ctx context.Context, tenantID uuid.UUID, day domain.DayOfWeek) ([]domain.TimeRange, error) {
	if !day.IsValid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, domain.ErrInvalidDayOfWeek)
	}

	ranges, err := s.rulesRepo.GetEnabledByDay(ctx, tenantID, day)
	if err != nil {
		s.logger.Error("GetEffectiveRanges: repository error for tenant=%s, day=%s: %v", tenantID, day, err)
		return nil, fmt.Errorf("%w: GetEffectiveRanges - repository error: %v", ErrInternal, err)
	}

	return ranges, nil
}

// GetWeeklyHours получает полное расписание тенанта
// Публичный метод - доступен всем
func (s *Service) GetWeeklyHours(ctx context.Context, tenantID uuid.UUID) (*models.WeeklyHoursResponse, error) {
	s.logger.Info("GetWeeklyHours: fetching weekly hours for tenant=%s", tenantID)

	tenant, err := s.getTenant(ctx, "GetWeeklyHours", tenantID)
	if err != nil {
		return nil, err
	}

	rules, err := s.rulesRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("GetWeeklyHours: repository error for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetWeeklyHours - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetWeeklyHours: successfully fetched %d rules for tenant=%s", len(rules), tenantID)
	return models.FromDomainRules(tenant, rules), nil
}

// ReplaceAll полностью заменяет расписание тенанта
// Доступно только менеджерам тенанта. Некорректный набор правил отклоняется целиком
func (s *Service) ReplaceAll(ctx context.Context, req *models.ReplaceWeeklyHoursRequest) (*models.WeeklyHoursResponse, error) {
	s.logger.Info("ReplaceAll: replacing %d rules for tenant=%s by user=%s", len(req.Rules), req.TenantID, req.UserID)

	// 1. Разбираем и валидируем правила до любых обращений к хранилищу
	rules, err := req.ToDomainRules()
	if err != nil {
		s.logger.Warn("ReplaceAll: invalid rules for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := domain.ValidateWeeklyRules(rules); err != nil {
		s.logger.Warn("ReplaceAll: validation failed for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Проверяем права доступа (только менеджер тенанта)
	tenant, err := s.checkManagerAccess(ctx, "ReplaceAll", req.TenantID, req.UserID)
	if err != nil {
		return nil, err
	}

	// 3. Удаление и вставка в одной транзакции
	var stored []domain.WeeklyHoursRule
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		var txErr error
		stored, txErr = s.rulesRepo.ReplaceAll(ctx, req.TenantID, rules)
		return txErr
	})
	if err != nil {
		s.logger.Error("ReplaceAll: repository error for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: ReplaceAll - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceAll: successfully stored %d rules for tenant=%s", len(stored), req.TenantID)
	return models.FromDomainRules(tenant, stored), nil
}

// InitializeDefaults записывает шаблон по умолчанию (пн-пт 09:00-17:00), если у тенанта нет правил
// Существующее расписание не меняется
func (s *Service) InitializeDefaults(ctx context.Context, tenantID, userID uuid.UUID) (*models.WeeklyHoursResponse, error) {
	s.logger.Info("InitializeDefaults: tenant=%s by user=%s", tenantID, userID)

	tenant, err := s.checkManagerAccess(ctx, "InitializeDefaults", tenantID, userID)
	if err != nil {
		return nil, err
	}

	var rules []domain.WeeklyHoursRule
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, txErr := s.rulesRepo.GetByTenant(ctx, tenantID)
		if txErr != nil {
			return txErr
		}
		if len(existing) > 0 {
			rules = existing
			return nil
		}

		rules, txErr = s.rulesRepo.ReplaceAll(ctx, tenantID, domain.DefaultWeeklyRules(tenantID))
		return txErr
	})
	if err != nil {
		s.logger.Error("InitializeDefaults: repository error for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: InitializeDefaults - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRules(tenant, rules), nil
}

// checkManagerAccess проверяет, что пользователь является менеджером тенанта
func (s *Service) checkManagerAccess(ctx context.Context, op string, tenantID, userID uuid.UUID) (*domain.Tenant, error) {
	tenant, err := s.getTenant(ctx, op, tenantID)
	if err != nil {
		return nil, err
	}

	if !tenant.IsManager(userID) {
		s.logger.Warn("%s: user=%s is not a manager of tenant=%s", op, userID, tenantID)
		return nil, ErrAccessDenied
	}

	return tenant, nil
}

func (s *Service) getTenant(ctx context.Context, op string, tenantID uuid.UUID) (*domain.Tenant, error) {
	tenant, err := s.tenants.GetTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrTenantNotFound) {
			s.logger.Warn("%s: tenant id=%s not found", op, tenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("%s: failed to get tenant id=%s: %v", op, tenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}
	return tenant, nil
}
