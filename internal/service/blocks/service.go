package blocks

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	blockedRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/blocked"
	tenantClient "github.com/m04kA/SMC-BookingEngine/internal/integrations/tenantservice"
	"github.com/m04kA/SMC-BookingEngine/internal/service/blocks/models"
	"github.com/m04kA/SMC-BookingEngine/pkg/ptr"
)

// Service сервис ручных блокировок времени тенанта
type Service struct {
	blockedRepo  BlockedRepository
	bookingRepo  BookingRepository
	tenants      TenantDirectory
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса блокировок
func NewService(
	blockedRepo BlockedRepository,
	bookingRepo BookingRepository,
	tenants TenantDirectory,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		blockedRepo:  blockedRepo,
		bookingRepo:  bookingRepo,
		tenants:      tenants,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// ListOverlapping получает блокировки тенанта, пересекающиеся с периодом [from, to)
// Доступно только менеджерам тенанта
func (s *Service) ListOverlapping(ctx context.Context, req *models.ListBlocksRequest) (*models.BlockListResponse, error) {
	s.logger.Info("ListOverlapping: tenant=%s, from=%d, to=%d by user=%s", req.TenantID, req.FromMs, req.ToMs, req.UserID)

	period, err := domain.NewInterval(domain.Instant(req.FromMs), domain.Instant(req.ToMs))
	if err != nil {
		s.logger.Warn("ListOverlapping: invalid period: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.checkManagerAccess(ctx, "ListOverlapping", req.TenantID, req.UserID); err != nil {
		return nil, err
	}

	blocks, err := s.blockedRepo.ListOverlapping(ctx, req.TenantID, period)
	if err != nil {
		s.logger.Error("ListOverlapping: repository error for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: ListOverlapping - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListOverlapping: successfully fetched %d blocks for tenant=%s", len(blocks), req.TenantID)
	return models.FromDomainBlockList(blocks), nil
}

// Create создает блокировку
// Прошлое заблокировать нельзя. Пересечение с активными бронированиями разрешено только с Force,
// сами бронирования при этом не отменяются
func (s *Service) Create(ctx context.Context, req *models.CreateBlockRequest) (*models.CreateBlockResponse, error) {
	s.logger.Info("Create: block tenant=%s, start=%d, end=%d, force=%t by user=%s",
		req.TenantID, req.StartMs, req.EndMs, req.Force, req.UserID)

	// 1. Валидируем входные данные
	interval, err := domain.NewInterval(domain.Instant(req.StartMs), domain.Instant(req.EndMs))
	if err != nil {
		s.logger.Warn("Create: invalid interval: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.Reason != nil && utf8.RuneCountInString(*req.Reason) > domain.MaxBlockReasonLength {
		return nil, fmt.Errorf("%w: reason is longer than %d characters", ErrInvalidInput, domain.MaxBlockReasonLength)
	}

	now := s.timeProvider.Now()
	if interval.Start <= domain.InstantFromTime(now) {
		s.logger.Warn("Create: block start=%d is not in the future", req.StartMs)
		return nil, ErrBlockInPast
	}

	// 2. Проверяем права доступа (только менеджер тенанта)
	if err := s.checkManagerAccess(ctx, "Create", req.TenantID, req.UserID); err != nil {
		return nil, err
	}

	// 3. Проверка бронирований и вставка в одной транзакции, чтобы параллельное
	// резервирование не проскочило между ними
	block := &domain.BlockedInterval{
		TenantID:  req.TenantID,
		Interval:  interval,
		Reason:    req.Reason,
		CreatedBy: ptr.Ptr(req.UserID),
		CreatedAt: now,
	}
	var overlapping []domain.Booking

	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		var txErr error
		overlapping, txErr = s.bookingRepo.ListActiveOverlapping(ctx, domain.OverlapFilter{
			TenantID: req.TenantID,
			Interval: interval,
		})
		if txErr != nil {
			return fmt.Errorf("%w: Create - list bookings: %v", ErrInternal, txErr)
		}
		if len(overlapping) > 0 && !req.Force {
			return fmt.Errorf("%w: %d active bookings", ErrConflictsWithBookings, len(overlapping))
		}

		block, txErr = s.blockedRepo.Create(ctx, block)
		if txErr != nil {
			return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, txErr)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConflictsWithBookings) {
			s.logger.Warn("Create: block for tenant=%s overlaps bookings: %v", req.TenantID, err)
			return nil, err
		}
		s.logger.Error("Create: failed for tenant=%s: %v", req.TenantID, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: Create - transaction error: %v", ErrInternal, err)
	}

	resp := &models.CreateBlockResponse{
		Block:                 models.FromDomainBlock(block),
		OverlappingBookingIDs: make([]uuid.UUID, 0, len(overlapping)),
	}
	for _, b := range overlapping {
		resp.OverlappingBookingIDs = append(resp.OverlappingBookingIDs, b.ID)
	}

	if len(overlapping) > 0 {
		s.logger.Warn("Create: block id=%s force-created over %d active bookings", block.ID, len(overlapping))
	}
	s.logger.Info("Create: successfully created block id=%s for tenant=%s", block.ID, req.TenantID)
	return resp, nil
}

// Delete удаляет блокировку
// Повторное удаление и удаление несуществующей блокировки не являются ошибкой
func (s *Service) Delete(ctx context.Context, req *models.DeleteBlockRequest) error {
	s.logger.Info("Delete: block id=%s, tenant=%s by user=%s", req.BlockID, req.TenantID, req.UserID)

	if err := s.checkManagerAccess(ctx, "Delete", req.TenantID, req.UserID); err != nil {
		return err
	}

	block, err := s.blockedRepo.GetByID(ctx, req.BlockID)
	if err != nil {
		if errors.Is(err, blockedRepo.ErrBlockNotFound) {
			s.logger.Info("Delete: block id=%s already absent", req.BlockID)
			return nil
		}
		s.logger.Error("Delete: repository error for block id=%s: %v", req.BlockID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	// Блокировка другого тенанта для этого менеджера не существует
	if block.TenantID != req.TenantID {
		s.logger.Warn("Delete: block id=%s belongs to tenant=%s, not %s", req.BlockID, block.TenantID, req.TenantID)
		return ErrBlockNotFound
	}

	if err := s.blockedRepo.Delete(ctx, req.BlockID); err != nil && !errors.Is(err, blockedRepo.ErrBlockNotFound) {
		s.logger.Error("Delete: repository error for block id=%s: %v", req.BlockID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted block id=%s", req.BlockID)
	return nil
}

// checkManagerAccess проверяет, что пользователь является менеджером тенанта
func (s *Service) checkManagerAccess(ctx context.Context, op string, tenantID, userID uuid.UUID) error {
	tenant, err := s.tenants.GetTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrTenantNotFound) {
			s.logger.Warn("%s: tenant id=%s not found", op, tenantID)
			return ErrTenantNotFound
		}
		s.logger.Error("%s: failed to get tenant id=%s: %v", op, tenantID, err)
		return fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	if !tenant.IsManager(userID) {
		s.logger.Warn("%s: user=%s is not a manager of tenant=%s", op, userID, tenantID)
		return ErrAccessDenied
	}

	return nil
}
