package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// toSlots конвертирует доменные слоты в модель ответа
func toSlots(slots []domain.Slot, loc *time.Location) []Slot {
	result := make([]Slot, 0, len(slots))
	for _, s := range slots {
		result = append(result, Slot{
			StartMs:           int64(s.Start),
			EndMs:             int64(s.End),
			StartTime:         types.NewTimeString(s.Start.In(loc)),
			Available:         s.Available,
			Reason:            string(s.Reason),
			RemainingCapacity: s.RemainingCapacity,
		})
	}
	return result
}

func toWindows(windows []domain.Interval) []Window {
	result := make([]Window, 0, len(windows))
	for _, w := range windows {
		result = append(result, Window{StartMs: int64(w.Start), EndMs: int64(w.End)})
	}
	return result
}
