package reserve_slot

import (
	"time"

	"github.com/google/uuid"

	reserveSlot "github.com/m04kA/SMC-BookingEngine/internal/usecase/reserve_slot"
)

// ReserveSlotRequest HTTP request model
// Клиент берется из X-User-ID, а не из тела запроса
type ReserveSlotRequest struct {
	TenantID      uuid.UUID `json:"tenantId"`
	SessionTypeID uuid.UUID `json:"sessionTypeId"`
	StartMs       int64     `json:"startMs"`
	Participants  int       `json:"participants,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              uuid.UUID `json:"id"`
	TenantID        uuid.UUID `json:"tenantId"`
	SessionTypeID   uuid.UUID `json:"sessionTypeId"`
	CustomerID      uuid.UUID `json:"customerId"`
	StartMs         int64     `json:"startMs"`
	EndMs           int64     `json:"endMs"`
	Participants    int       `json:"participants"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	SessionName     string    `json:"sessionName"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       string    `json:"createdAt"`
	UpdatedAt       string    `json:"updatedAt"`
}

// SlotUnavailableResponse тело ответа 409
type SlotUnavailableResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReserveSlotRequest) ToUseCaseRequest(customerID uuid.UUID) *reserveSlot.Request {
	return &reserveSlot.Request{
		TenantID:      r.TenantID,
		SessionTypeID: r.SessionTypeID,
		CustomerID:    customerID,
		StartMs:       r.StartMs,
		Participants:  r.Participants,
		Notes:         r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveSlot.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		TenantID:        resp.TenantID,
		SessionTypeID:   resp.SessionTypeID,
		CustomerID:      resp.CustomerID,
		StartMs:         resp.StartMs,
		EndMs:           resp.EndMs,
		Participants:    resp.Participants,
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		SessionName:     resp.SessionName,
		Price:           resp.Price,
		Currency:        resp.Currency,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
