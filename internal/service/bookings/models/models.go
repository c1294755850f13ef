package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Actor              domain.Actor `json:"-"`
	CancellationReason *string      `json:"cancellationReason,omitempty"`
}

// ReapExpiredRequest запрос на отмену неоплаченных бронирований
type ReapExpiredRequest struct {
	OlderThanMinutes int `json:"olderThanMinutes"`
	// Limit ограничивает количество бронирований за один вызов, 0 - без ограничения
	Limit int `json:"limit,omitempty"`
}

// ListOptions общие параметры списков бронирований
// По умолчанию возвращаются только активные бронирования
type ListOptions struct {
	Status          *string // Фильтр по статусу (опционально)
	IncludeInactive bool    // Включить отмененные и неоплаченные
	Upcoming        bool    // Только бронирования, которые еще не закончились
	Limit           int     // 0 - без ограничения
}

// ToDomainFilter конвертирует параметры в domain фильтр
func (o ListOptions) ToDomainFilter(now time.Time) (domain.ListFilter, error) {
	if o.Limit < 0 || o.Limit > domain.MaxListLimit {
		return domain.ListFilter{}, fmt.Errorf("limit must be between 0 and %d", domain.MaxListLimit)
	}

	filter := domain.ListFilter{
		IncludeInactive: o.IncludeInactive,
		Limit:           o.Limit,
	}

	if o.Status != nil {
		status, err := domain.ParseBookingStatus(*o.Status)
		if err != nil {
			return domain.ListFilter{}, err
		}
		filter.Status = &status
	}

	if o.Upcoming {
		cutoff := domain.InstantFromTime(now)
		filter.EndsAfter = &cutoff
	}

	return filter, nil
}

// ListTenantBookingsRequest запрос на получение бронирований тенанта
type ListTenantBookingsRequest struct {
	Actor    domain.Actor
	TenantID uuid.UUID
	ListOptions
}

// ListCustomerBookingsRequest запрос на получение бронирований клиента
type ListCustomerBookingsRequest struct {
	Actor      domain.Actor
	CustomerID uuid.UUID
	ListOptions
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            uuid.UUID `json:"id"`
	TenantID      uuid.UUID `json:"tenantId"`
	SessionTypeID uuid.UUID `json:"sessionTypeId"`
	CustomerID    uuid.UUID `json:"customerId"`
	StartMs       int64     `json:"startMs"`
	EndMs         int64     `json:"endMs"`
	Participants  int       `json:"participants"`
	Status        string    `json:"status"`
	Notes         *string   `json:"notes,omitempty"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledBy        *uuid.UUID `json:"cancelledBy,omitempty"`
	CancelledAt        *string    `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PaymentCallbackResponse ответ платежному сервису
// Stale = true: колбэк опоздал, бронирование уже в другом конечном статусе
type PaymentCallbackResponse struct {
	Acknowledged bool      `json:"acknowledged"`
	Stale        bool      `json:"stale"`
	BookingID    uuid.UUID `json:"bookingId"`
	Status       string    `json:"status"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// ReapExpiredResponse результат очистки
type ReapExpiredResponse struct {
	Reaped     int         `json:"reaped"`
	BookingIDs []uuid.UUID `json:"bookingIds"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		TenantID:           b.TenantID,
		SessionTypeID:      b.SessionTypeID,
		CustomerID:         b.CustomerID,
		StartMs:            int64(b.Interval.Start),
		EndMs:              int64(b.Interval.End),
		Participants:       b.Seats(),
		Status:             string(b.Status),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledBy:        b.CancelledBy,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for i := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(&bookings[i]))
	}

	return resp
}
