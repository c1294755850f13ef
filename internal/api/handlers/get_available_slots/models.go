package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-BookingEngine/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	TenantID        uuid.UUID        `json:"tenantId"`
	SessionTypeID   uuid.UUID        `json:"sessionTypeId"`
	Date            string           `json:"date"`
	Timezone        string           `json:"timezone"`
	StepMinutes     int              `json:"stepMinutes"`
	DurationMinutes int              `json:"durationMinutes"`
	Capacity        int              `json:"capacity"`
	OpenWindows     []WindowResponse `json:"openWindows"`
	Slots           []SlotResponse   `json:"slots"`
}

// WindowResponse HTTP response model
type WindowResponse struct {
	StartMs int64 `json:"startMs"`
	EndMs   int64 `json:"endMs"`
}

// SlotResponse HTTP response model
type SlotResponse struct {
	StartMs           int64  `json:"startMs"`
	EndMs             int64  `json:"endMs"`
	StartTime         string `json:"startTime"` // "10:00" по времени тенанта
	Available         bool   `json:"available"`
	Reason            string `json:"reason,omitempty"`
	RemainingCapacity int    `json:"remainingCapacity"`
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case
func ToUseCaseRequest(tenantID, sessionTypeID uuid.UUID, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		TenantID:      tenantID,
		SessionTypeID: sessionTypeID,
		Date:          date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartMs:           s.StartMs,
			EndMs:             s.EndMs,
			StartTime:         s.StartTime.String(),
			Available:         s.Available,
			Reason:            s.Reason,
			RemainingCapacity: s.RemainingCapacity,
		})
	}

	windows := make([]WindowResponse, 0, len(resp.OpenWindows))
	for _, w := range resp.OpenWindows {
		windows = append(windows, WindowResponse{StartMs: w.StartMs, EndMs: w.EndMs})
	}

	return &AvailableSlotsResponse{
		TenantID:        resp.TenantID,
		SessionTypeID:   resp.SessionTypeID,
		Date:            resp.Date,
		Timezone:        resp.Timezone,
		StepMinutes:     resp.StepMinutes,
		DurationMinutes: resp.DurationMinutes,
		Capacity:        resp.Capacity,
		OpenWindows:     windows,
		Slots:           slots,
	}
}
