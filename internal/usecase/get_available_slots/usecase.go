package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/availability"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	tenantClient "github.com/m04kA/SMC-BookingEngine/internal/integrations/tenantservice"
)

// UseCase use case для получения слотов дня с причинами недоступности
type UseCase struct {
	tenants      TenantDirectory
	weeklyHours  WeeklyHoursProvider
	blockedRepo  BlockedRepository
	bookingRepo  BookingRepository
	metrics      Metrics
	opts         Options
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tenants TenantDirectory,
	weeklyHours WeeklyHoursProvider,
	blockedRepo BlockedRepository,
	bookingRepo BookingRepository,
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
		tenants:      tenants,
		weeklyHours:  weeklyHours,
		blockedRepo:  blockedRepo,
		bookingRepo:  bookingRepo,
		metrics:      metrics,
		opts:         opts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// SetTimeProvider подменяет источник текущего времени
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute выполняет use case получения слотов
// Каждый вызов строит слоты заново по текущему снимку расписания, блокировок и бронирований
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: tenant=%s, sessionType=%s, date=%s",
		req.TenantID, req.SessionTypeID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем тенанта и его часовой пояс
	tenant, err := uc.tenants.GetTenant(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrTenantNotFound) {
			uc.logger.Warn("GetAvailableSlots: tenant id=%s not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get tenant id=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	loc, err := tenant.Location()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: tenant id=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 4. Получаем тип сессии
	sessionType, err := uc.tenants.GetSessionType(ctx, req.TenantID, req.SessionTypeID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrSessionTypeNotFound) {
			uc.logger.Warn("GetAvailableSlots: session type id=%s not found", req.SessionTypeID)
			return nil, ErrSessionTypeNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get session type id=%s: %v", req.SessionTypeID, err)
		return nil, fmt.Errorf("%w: failed to get session type: %v", ErrInternal, err)
	}
	if err := validateSessionType(sessionType, req.TenantID, uc.opts.MaxSessionMinutes); err != nil {
		uc.logger.Warn("GetAvailableSlots: session type id=%s is not bookable: %v", req.SessionTypeID, err)
		return nil, err
	}

	// 5. Проверяем горизонт бронирования
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)
	if err := validateHorizon(date, now, loc, uc.opts.MaxAdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return nil, err
	}

	// 6. Собираем снимок: рабочие диапазоны дня, блокировки и активные бронирования
	input, err := uc.snapshot(ctx, sessionType, loc, date, now)
	if err != nil {
		return nil, err
	}

	// 7. Генерируем слоты
	slots, err := availability.Generate(*input)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	windows, err := availability.OpenWindows(*input)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute open windows: %v", err)
		return nil, fmt.Errorf("%w: failed to compute open windows: %v", ErrInternal, err)
	}

	reasons := availability.CountReasons(slots)
	uc.metrics.RecordSlots(reasons)

	uc.logger.Info("GetAvailableSlots: generated %d slots (%d available) for tenant=%s, sessionType=%s, date=%s",
		len(slots), reasons[""], req.TenantID, req.SessionTypeID, date.Format(domain.DateFormat))

	return &Response{
		TenantID:        tenant.ID,
		SessionTypeID:   sessionType.ID,
		Date:            date.Format(domain.DateFormat),
		Timezone:        tenant.Timezone,
		StepMinutes:     int(uc.opts.Step / time.Minute),
		DurationMinutes: sessionType.DurationMinutes,
		Capacity:        sessionType.EffectiveCapacity(),
		OpenWindows:     toWindows(windows),
		Slots:           toSlots(slots, loc),
	}, nil
}

// snapshot собирает входные данные генератора за окно дня
func (uc *UseCase) snapshot(
	ctx context.Context,
	sessionType *domain.SessionType,
	loc *time.Location,
	date time.Time,
	now time.Time,
) (*availability.Input, error) {
	ranges, err := uc.weeklyHours.GetEffectiveRanges(ctx, sessionType.TenantID, availability.DayOfWeek(date))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get weekly hours for tenant=%s: %v", sessionType.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get weekly hours: %v", ErrInternal, err)
	}

	window := availability.SnapshotWindow(loc, date, sessionType.DurationMinutes)

	blocks, err := uc.blockedRepo.ListOverlapping(ctx, sessionType.TenantID, window)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blocked intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked intervals: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.ListActiveOverlapping(ctx, domain.OverlapFilter{
		TenantID:      sessionType.TenantID,
		SessionTypeID: &sessionType.ID,
		Interval:      window,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
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
