package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/booking"
	tenantClient "github.com/m04kA/SMC-BookingEngine/internal/integrations/tenantservice"
	"github.com/m04kA/SMC-BookingEngine/internal/service/bookings/models"
	"github.com/m04kA/SMC-BookingEngine/pkg/ptr"
)

// maxTransitionAttempts сколько раз перечитывать бронирование, если статус изменился параллельно
const maxTransitionAttempts = 3

// Service сервис жизненного цикла бронирований после резервирования
type Service struct {
	bookingRepo  BookingRepository
	tenants      TenantDirectory
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	tenants TenantDirectory,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		tenants:      tenants,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// planFunc по текущему состоянию бронирования решает, какой переход нужен
// nil без ошибки означает, что бронирование уже в целевом статусе
type planFunc func(ctx context.Context, b *domain.Booking) (*domain.StatusChange, error)

// GetByID получает бронирование по ID
// Видеть бронирование могут владелец и менеджеры тенанта
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, actor.UserID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(ctx, "GetByID", booking, actor); err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// ListByTenant возвращает бронирования тенанта, упорядоченные по времени начала
// Доступно только менеджерам тенанта
func (s *Service) ListByTenant(ctx context.Context, req *models.ListTenantBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListByTenant: fetching bookings for tenant=%s by user=%s, upcoming=%t, includeInactive=%t",
		req.TenantID, req.Actor.UserID, req.Upcoming, req.IncludeInactive)

	filter, err := req.ToDomainFilter(s.timeProvider.Now())
	if err != nil {
		s.logger.Warn("ListByTenant: invalid filter for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.checkManager(ctx, "ListByTenant", req.TenantID, req.Actor); err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.ListByTenant(ctx, req.TenantID, filter)
	if err != nil {
		s.logger.Error("ListByTenant: repository error for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: ListByTenant - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByTenant: successfully fetched %d bookings for tenant=%s", len(bookings), req.TenantID)
	return models.FromDomainBookingList(bookings), nil
}

// ListByCustomer возвращает бронирования клиента по всем тенантам
// Клиент видит только свои бронирования
func (s *Service) ListByCustomer(ctx context.Context, req *models.ListCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListByCustomer: fetching bookings for customer=%s by user=%s, upcoming=%t",
		req.CustomerID, req.Actor.UserID, req.Upcoming)

	filter, err := req.ToDomainFilter(s.timeProvider.Now())
	if err != nil {
		s.logger.Warn("ListByCustomer: invalid filter for customer=%s: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !req.Actor.IsSystem() && req.Actor.UserID != req.CustomerID {
		s.logger.Warn("ListByCustomer: access denied for user=%s to customer=%s", req.Actor.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	bookings, err := s.bookingRepo.ListByCustomer(ctx, req.CustomerID, filter)
	if err != nil {
		s.logger.Error("ListByCustomer: repository error for customer=%s: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: ListByCustomer - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByCustomer: successfully fetched %d bookings for customer=%s", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// ConfirmPayment переводит PENDING_PAYMENT -> CONFIRMED по колбэку платежного сервиса
// Повторный вызов для CONFIRMED ничего не меняет и не публикует событие
// Для CANCELLED и PAYMENT_FAILED возвращается ErrStaleTransition
func (s *Service) ConfirmPayment(ctx context.Context, id uuid.UUID) (*models.PaymentCallbackResponse, error) {
	s.logger.Info("ConfirmPayment: booking id=%s", id)

	booking, err := s.apply(ctx, "ConfirmPayment", id, func(_ context.Context, b *domain.Booking) (*domain.StatusChange, error) {
		switch b.Status {
		case domain.StatusConfirmed:
			return nil, nil
		case domain.StatusPendingPayment:
			return &domain.StatusChange{From: b.Status, To: domain.StatusConfirmed}, nil
		default:
			return nil, fmt.Errorf("%w: booking is %s", ErrStaleTransition, b.Status)
		}
	})
	if err != nil {
		return nil, err
	}

	return callbackResponse(booking), nil
}

// FailPayment переводит PENDING_PAYMENT -> PAYMENT_FAILED и освобождает место
// Повторный вызов для PAYMENT_FAILED ничего не меняет
// Для CONFIRMED и CANCELLED возвращается ErrStaleTransition
func (s *Service) FailPayment(ctx context.Context, id uuid.UUID) (*models.PaymentCallbackResponse, error) {
	s.logger.Info("FailPayment: booking id=%s", id)

	booking, err := s.apply(ctx, "FailPayment", id, func(_ context.Context, b *domain.Booking) (*domain.StatusChange, error) {
		switch b.Status {
		case domain.StatusPaymentFailed:
			return nil, nil
		case domain.StatusPendingPayment:
			return &domain.StatusChange{From: b.Status, To: domain.StatusPaymentFailed}, nil
		default:
			return nil, fmt.Errorf("%w: booking is %s", ErrStaleTransition, b.Status)
		}
	})
	if err != nil {
		return nil, err
	}

	return callbackResponse(booking), nil
}

// Cancel отменяет бронирование
// Владелец может отменить своё бронирование, менеджер - любое бронирование тенанта
// Отмена уже отмененного бронирования ничего не меняет
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s by user=%s (%s)", id, req.Actor.UserID, req.Actor.Role)

	if req.CancellationReason != nil && utf8.RuneCountInString(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason is longer than %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	booking, err := s.apply(ctx, "Cancel", id, func(ctx context.Context, b *domain.Booking) (*domain.StatusChange, error) {
		if err := s.checkAccess(ctx, "Cancel", b, req.Actor); err != nil {
			return nil, err
		}

		switch b.Status {
		case domain.StatusCancelled:
			return nil, nil
		case domain.StatusPaymentFailed:
			return nil, fmt.Errorf("%w: booking is %s", ErrCannotCancel, b.Status)
		}

		change := &domain.StatusChange{
			From:   b.Status,
			To:     domain.StatusCancelled,
			Reason: req.CancellationReason,
		}
		if !req.Actor.IsSystem() {
			change.By = ptr.Ptr(req.Actor.UserID)
		}
		return change, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: booking id=%s is %s", id, booking.Status)
	return models.FromDomainBooking(booking), nil
}

// ReapExpired отменяет PENDING_PAYMENT бронирования старше olderThan, освобождая места
// Бронирования, оплаченные во время обхода, пропускаются
func (s *Service) ReapExpired(ctx context.Context, req *models.ReapExpiredRequest) (*models.ReapExpiredResponse, error) {
	if req.OlderThanMinutes <= 0 {
		return nil, fmt.Errorf("%w: olderThanMinutes must be positive", ErrInvalidInput)
	}
	if req.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	cutoff := now.Add(-time.Duration(req.OlderThanMinutes) * time.Minute)
	s.logger.Info("ReapExpired: cancelling pending bookings created before %s", cutoff.Format(time.RFC3339))

	stale, err := s.bookingRepo.ListStalePending(ctx, cutoff, req.Limit)
	if err != nil {
		s.logger.Error("ReapExpired: repository error: %v", err)
		return nil, fmt.Errorf("%w: ReapExpired - repository error: %v", ErrInternal, err)
	}

	reason := domain.ReapCancellationReason
	resp := &models.ReapExpiredResponse{BookingIDs: make([]uuid.UUID, 0, len(stale))}

	for _, b := range stale {
		change := domain.StatusChange{
			From:   domain.StatusPendingPayment,
			To:     domain.StatusCancelled,
			At:     now,
			Reason: &reason,
		}

		updated, err := s.bookingRepo.TransitionStatus(ctx, b.ID, change)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) || errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Info("ReapExpired: booking id=%s changed meanwhile, skipping", b.ID)
				continue
			}
			s.logger.Error("ReapExpired: failed to cancel booking id=%s: %v", b.ID, err)
			continue
		}

		s.afterTransition(ctx, change.From, updated)
		resp.BookingIDs = append(resp.BookingIDs, updated.ID)
	}

	resp.Reaped = len(resp.BookingIDs)
	s.logger.Info("ReapExpired: cancelled %d of %d stale bookings", resp.Reaped, len(stale))
	return resp, nil
}

// apply читает бронирование, планирует переход и применяет его условным обновлением
// Если статус изменился между чтением и записью, план пересчитывается заново
func (s *Service) apply(ctx context.Context, op string, id uuid.UUID, plan planFunc) (*domain.Booking, error) {
	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		booking, err := s.getBooking(ctx, op, id)
		if err != nil {
			return nil, err
		}

		change, err := plan(ctx, booking)
		if err != nil {
			s.logger.Warn("%s: booking id=%s: %v", op, id, err)
			return nil, err
		}
		if change == nil {
			s.logger.Info("%s: booking id=%s is already %s", op, id, booking.Status)
			return booking, nil
		}

		change.At = s.timeProvider.Now()
		if err := change.Validate(); err != nil {
			s.logger.Error("%s: booking id=%s: %v", op, id, err)
			return nil, fmt.Errorf("%w: %s - %v", ErrInternal, op, err)
		}

		updated, err := s.bookingRepo.TransitionStatus(ctx, id, *change)
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("%s: booking id=%s changed concurrently (attempt %d)", op, id, attempt)
			continue
		}
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return nil, ErrBookingNotFound
			}
			s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
			return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}

		s.logger.Info("%s: booking id=%s %s -> %s", op, id, change.From, change.To)
		s.afterTransition(ctx, change.From, updated)
		return updated, nil
	}

	return nil, fmt.Errorf("%w: %s - booking id=%s keeps changing concurrently", ErrInternal, op, id)
}

// afterTransition учитывает переход в метриках и публикует событие
func (s *Service) afterTransition(ctx context.Context, from domain.BookingStatus, b *domain.Booking) {
	s.metrics.RecordTransition(string(from), string(b.Status))

	if eventType, ok := domain.EventForStatus(b.Status); ok {
		s.publisher.Publish(ctx, domain.NewBookingEvent(eventType, b, b.UpdatedAt))
	}
}

func (s *Service) getBooking(ctx context.Context, op string, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkAccess проверяет, что пользователь владеет бронированием или управляет тенантом
func (s *Service) checkAccess(ctx context.Context, op string, booking *domain.Booking, actor domain.Actor) error {
	if booking.IsOwnedBy(actor.UserID) {
		return nil
	}
	if err := s.checkManager(ctx, op, booking.TenantID, actor); err != nil {
		if errors.Is(err, ErrAccessDenied) {
			s.logger.Warn("%s: access denied for user=%s to booking id=%s", op, actor.UserID, booking.ID)
		}
		return err
	}
	return nil
}

// checkManager проверяет, что пользователь управляет тенантом
func (s *Service) checkManager(ctx context.Context, op string, tenantID uuid.UUID, actor domain.Actor) error {
	if actor.IsSystem() {
		return nil
	}

	tenant, err := s.tenants.GetTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrTenantNotFound) {
			s.logger.Warn("%s: tenant id=%s not found", op, tenantID)
			return ErrTenantNotFound
		}
		s.logger.Error("%s: failed to get tenant id=%s: %v", op, tenantID, err)
		return fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	if !tenant.IsManager(actor.UserID) {
		s.logger.Warn("%s: user=%s is not a manager of tenant=%s", op, actor.UserID, tenantID)
		return ErrAccessDenied
	}

	return nil
}

func callbackResponse(b *domain.Booking) *models.PaymentCallbackResponse {
	return &models.PaymentCallbackResponse{
		Acknowledged: true,
		BookingID:    b.ID,
		Status:       string(b.Status),
	}
}
