package reserve_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/availability"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	tenantClient "github.com/m04kA/SMC-BookingEngine/internal/integrations/tenantservice"
	"github.com/m04kA/SMC-BookingEngine/pkg/txmanager"
)

// UseCase use case для резервирования слота
type UseCase struct {
	bookingRepo  BookingRepository
	blockedRepo  BlockedRepository
	weeklyHours  WeeklyHoursProvider
	tenants      TenantDirectory
	locker       Locker
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      Metrics
	opts         Options
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	blockedRepo BlockedRepository,
	weeklyHours WeeklyHoursProvider,
	tenants TenantDirectory,
	locker Locker,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	opts Options,
	logger Logger,
) *UseCase {
	if opts.Step <= 0 {
		opts.Step = domain.DefaultSlotStepMinutes * time.Minute
	}
	if opts.MaxSessionMinutes <= 0 {
		opts.MaxSessionMinutes = domain.MaxSessionDurationMinutes
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
		blockedRepo:  blockedRepo,
		weeklyHours:  weeklyHours,
		tenants:      tenants,
		locker:       locker,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		opts:         opts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case резервирования слота
// Проверка доступности и вставка выполняются под блокировкой дня и в сериализуемой транзакции,
// поэтому параллельные запросы не могут превысить вместимость
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveSlot: customer=%s, tenant=%s, sessionType=%s, startMs=%d, participants=%d",
		req.CustomerID, req.TenantID, req.SessionTypeID, req.StartMs, req.Participants)

	resp, err := uc.execute(ctx, req)
	uc.metrics.RecordReservation(outcome(err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveSlot: validation failed: %v", err)
		return nil, err
	}
	participants := req.Participants
	if participants == 0 {
		participants = domain.DefaultParticipants
	}

	// 2. Получаем тенанта
	tenant, err := uc.tenants.GetTenant(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrTenantNotFound) {
			uc.logger.Warn("ReserveSlot: tenant id=%s not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("ReserveSlot: failed to get tenant id=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	loc, err := tenant.Location()
	if err != nil {
		uc.logger.Error("ReserveSlot: tenant id=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 3. Получаем тип сессии
	sessionType, err := uc.tenants.GetSessionType(ctx, req.TenantID, req.SessionTypeID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrSessionTypeNotFound) {
			uc.logger.Warn("ReserveSlot: session type id=%s not found", req.SessionTypeID)
			return nil, ErrSessionTypeNotFound
		}
		uc.logger.Error("ReserveSlot: failed to get session type id=%s: %v", req.SessionTypeID, err)
		return nil, fmt.Errorf("%w: failed to get session type: %v", ErrInternal, err)
	}
	if err := validateSessionType(sessionType, req.TenantID, uc.opts.MaxSessionMinutes); err != nil {
		uc.logger.Warn("ReserveSlot: session type id=%s is not bookable: %v", req.SessionTypeID, err)
		return nil, err
	}
	if err := validateParticipants(participants, sessionType); err != nil {
		uc.logger.Warn("ReserveSlot: %v", err)
		return nil, err
	}

	// 4. Проверяем сетку и горизонт
	start := domain.Instant(req.StartMs)
	interval, err := domain.IntervalFromDuration(start, sessionType.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !availability.IsAligned(loc, start, uc.opts.Step) {
		uc.logger.Warn("ReserveSlot: start %s is not aligned to %s step", start.In(loc).Format(time.RFC3339), uc.opts.Step)
		return nil, fmt.Errorf("%w: start must be aligned to %d-minute step", ErrInvalidTimeSlot, int(uc.opts.Step/time.Minute))
	}

	now := uc.timeProvider.Now()
	if err := validateHorizon(loc, start, now, uc.opts.MaxAdvanceBookingDays); err != nil {
		uc.logger.Warn("ReserveSlot: %v", err)
		return nil, err
	}

	// 5. Берем блокировку на дни, в которых могут начинаться пересекающиеся бронирования
	keys := lockKeys(loc, tenant.ID, sessionType.ID, interval, uc.opts.MaxSessionMinutes)
	lockCtx, cancelLockWait := ctx, context.CancelFunc(func() {})
	if uc.opts.LockWait > 0 {
		lockCtx, cancelLockWait = context.WithTimeout(ctx, uc.opts.LockWait)
	}
	lockStarted := time.Now()
	unlock, err := uc.locker.Lock(lockCtx, keys...)
	cancelLockWait()
	uc.metrics.RecordLockWait(time.Since(lockStarted))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			uc.logger.Warn("ReserveSlot: lock wait aborted for keys %v: %v", keys, err)
			return nil, fmt.Errorf("%w: %v", ErrLockTimeout, err)
		}
		uc.logger.Error("ReserveSlot: failed to acquire lock for keys %v: %v", keys, err)
		return nil, fmt.Errorf("%w: failed to acquire lock: %v", ErrInternal, err)
	}
	defer unlock()

	status := domain.StatusPendingPayment
	if uc.opts.AutoConfirmFree && sessionType.IsFree() {
		status = domain.StatusConfirmed
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 6. Проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Собираем снимок дня старта
		input, err := uc.snapshot(txCtx, sessionType, loc, interval, now)
		if err != nil {
			return err
		}

		// 6.2. Проверяем слот с учетом числа участников
		slot, err := availability.Check(*input, start, participants)
		if err != nil {
			uc.logger.Error("ReserveSlot: failed to check slot: %v", err)
			return fmt.Errorf("%w: failed to check slot: %v", ErrInternal, err)
		}
		if !slot.Available {
			uc.logger.Warn("ReserveSlot: slot %s is unavailable: %s (remaining=%d)",
				start.In(loc).Format(time.RFC3339), slot.Reason, slot.RemainingCapacity)
			return &SlotUnavailableError{Reason: slot.Reason, RemainingCapacity: slot.RemainingCapacity}
		}

		// 6.3. Создаем бронирование
		booking := &domain.Booking{
			TenantID:      tenant.ID,
			SessionTypeID: sessionType.ID,
			CustomerID:    req.CustomerID,
			Interval:      interval,
			Participants:  participants,
			Status:        status,
			Notes:         req.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("ReserveSlot: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		switch {
		case txmanager.IsSerializationFailure(err):
			// Параллельная транзакция заняла место первой; конфликт мог прийти из запроса внутри транзакции или из коммита
			uc.logger.Warn("ReserveSlot: serialization conflict for slot %s: %v", start.In(loc).Format(time.RFC3339), err)
			return nil, &SlotUnavailableError{Reason: domain.ReasonAtCapacity}
		case errors.Is(err, ErrSlotUnavailable), errors.Is(err, ErrInternal):
			return nil, err
		default:
			uc.logger.Error("ReserveSlot: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("ReserveSlot: created booking id=%s status=%s for customer=%s",
		result.ID, result.Status, result.CustomerID)

	// 7. Бесплатная сессия подтверждена сразу, уведомляем подписчиков
	if result.Status == domain.StatusConfirmed {
		uc.publisher.Publish(ctx, domain.NewBookingEvent(domain.EventBookingConfirmed, result, now))
	}

	return toResponse(result, sessionType), nil
}

// snapshot собирает рабочие диапазоны, блокировки и бронирования вокруг interval
func (uc *UseCase) snapshot(
	ctx context.Context,
	sessionType *domain.SessionType,
	loc *time.Location,
	interval domain.Interval,
	now time.Time,
) (*availability.Input, error) {
	date := availability.LocalDate(loc, interval.Start)

	ranges, err := uc.weeklyHours.GetEffectiveRanges(ctx, sessionType.TenantID, availability.DayOfWeek(date))
	if err != nil {
		uc.logger.Error("ReserveSlot: failed to get weekly hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get weekly hours: %w", ErrInternal, err)
	}

	blocks, err := uc.blockedRepo.ListOverlapping(ctx, sessionType.TenantID, interval)
	if err != nil {
		uc.logger.Error("ReserveSlot: failed to get blocked intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked intervals: %w", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.ListActiveOverlapping(ctx, domain.OverlapFilter{
		TenantID:      sessionType.TenantID,
		SessionTypeID: &sessionType.ID,
		Interval:      interval,
	})
	if err != nil {
		uc.logger.Error("ReserveSlot: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}

	return &availability.Input{
		Location: loc,
		Date:     date,
		Now:      domain.InstantFromTime(now),
		Step:     uc.opts.Step,
		Session:  *sessionType,
		Ranges:   ranges,
		Blocks:   blocks,
		Bookings: bookings,
	}, nil
}

func toResponse(b *domain.Booking, sessionType *domain.SessionType) *Response {
	return &Response{
		ID:              b.ID,
		TenantID:        b.TenantID,
		SessionTypeID:   b.SessionTypeID,
		CustomerID:      b.CustomerID,
		StartMs:         int64(b.Interval.Start),
		EndMs:           int64(b.Interval.End),
		Participants:    b.Seats(),
		DurationMinutes: sessionType.DurationMinutes,
		Status:          string(b.Status),
		SessionName:     sessionType.Name,
		Price:           sessionType.Price,
		Currency:        sessionType.Currency,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeCreated
	case errors.Is(err, ErrSlotUnavailable):
		return OutcomeUnavailable
	case errors.Is(err, ErrLockTimeout):
		return OutcomeLockTimeout
	case errors.Is(err, ErrInternal):
		return OutcomeError
	default:
		return OutcomeRejected
	}
}
